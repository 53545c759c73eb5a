package ferr

import (
	"errors"
	"testing"
)

func TestErrorWrapsCauseAndUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := New(OutOfRange, "ApplyBulkEdits", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to find the wrapped cause")
	}
	if got := err.Error(); got != "ApplyBulkEdits: out_of_range: boom" {
		t.Fatalf("got %q", got)
	}
}

func TestIsMatchesKind(t *testing.T) {
	err := New(Timeout, "Call", errors.New("deadline exceeded"))
	if !Is(err, Timeout) {
		t.Fatal("expected Is to match Timeout")
	}
	if Is(err, Cancelled) {
		t.Fatal("did not expect Is to match Cancelled")
	}
}

func TestIsReturnsFalseForPlainError(t *testing.T) {
	if Is(errors.New("plain"), Io) {
		t.Fatal("expected Is to return false for a non-ferr error")
	}
}

func TestKindStringCoversEveryCase(t *testing.T) {
	kinds := []Kind{
		OutOfRange, OverlappingEdits, Io, DecodeError, SchemaMigrationFailure,
		LspTransport, LspProtocol, PluginFault, RemoteTransport, RemoteProtocol,
		Cancelled, Timeout, PermissionDenied, NotFound, ReadOnlyLayer,
	}
	seen := make(map[string]bool)
	for _, k := range kinds {
		s := k.String()
		if s == "unknown" || s == "" {
			t.Fatalf("kind %d stringified to %q", k, s)
		}
		if seen[s] {
			t.Fatalf("duplicate string %q", s)
		}
		seen[s] = true
	}
}
