// Package diagnostic is a thin wrapper over log/slog for the frame
// loop's own operational tracing — frame-budget overruns, AsyncBridge
// drain counts, plugin sandbox teardowns. It exists alongside
// internal/warning rather than replacing it: warning is for
// user-surfaced domain failures, diagnostic is for structured,
// developer-facing tracing that never reaches the status bar.
//
// slog is stdlib; no third-party logging library is wired here
// because none of the example repos import one directly — keystorm
// and the rest of the pack report failures as typed values rather than
// log lines, so this package matches that preference by keeping log
// records structured (key/value attrs) instead of printf strings.
package diagnostic

import (
	"context"
	"io"
	"log/slog"
)

// Logger wraps an *slog.Logger with the fixed attribute set fresh's
// subsystems tag every record with.
type Logger struct {
	*slog.Logger
}

// New creates a Logger writing JSON records to w at minLevel.
func New(w io.Writer, minLevel slog.Level) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: minLevel})
	return &Logger{Logger: slog.New(handler)}
}

// Discard returns a Logger that drops every record, for tests and
// contexts that don't want tracing overhead.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(io.Discard, nil))}
}

// WithComponent returns a Logger that tags every record with
// component=name, the way fresh's subsystems identify themselves in
// frame-loop traces.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{Logger: l.Logger.With(slog.String("component", name))}
}

// FrameBudgetExceeded logs a frame that overran its budget, the
// clearest candidate for this package's use from internal/frameloop.
func (l *Logger) FrameBudgetExceeded(ctx context.Context, budgetMillis, actualMillis int64) {
	l.Logger.WarnContext(ctx, "frame budget exceeded",
		slog.Int64("budget_ms", budgetMillis),
		slog.Int64("actual_ms", actualMillis),
	)
}

// AsyncDrain logs how many messages AsyncBridge.Drain released for one
// frame, for diagnosing a backlog building up under load.
func (l *Logger) AsyncDrain(ctx context.Context, drained, pending int) {
	l.Logger.DebugContext(ctx, "async bridge drained",
		slog.Int("drained", drained),
		slog.Int("pending_after", pending),
	)
}

// PluginSandboxTornDown logs a plugin sandbox being torn down after a
// panic, complementing the user-facing warning internal/warning
// registers for the same event.
func (l *Logger) PluginSandboxTornDown(ctx context.Context, plugin, reason string) {
	l.Logger.ErrorContext(ctx, "plugin sandbox torn down",
		slog.String("plugin", plugin),
		slog.String("reason", reason),
	)
}
