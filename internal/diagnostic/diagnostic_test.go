package diagnostic

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestFrameBudgetExceededWritesStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelDebug)

	logger.FrameBudgetExceeded(context.Background(), 16, 23)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("output wasn't valid JSON: %v (%s)", err, buf.String())
	}
	if record["msg"] != "frame budget exceeded" {
		t.Fatalf("got %+v", record)
	}
	if record["budget_ms"] != float64(16) || record["actual_ms"] != float64(23) {
		t.Fatalf("got %+v", record)
	}
}

func TestWithComponentTagsEveryRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelDebug).WithComponent("frameloop")

	logger.AsyncDrain(context.Background(), 5, 2)

	if !strings.Contains(buf.String(), `"component":"frameloop"`) {
		t.Fatalf("expected component tag in output: %s", buf.String())
	}
}

func TestDiscardLoggerProducesNoOutput(t *testing.T) {
	logger := Discard()
	logger.PluginSandboxTornDown(context.Background(), "myplugin", "panic")
}
