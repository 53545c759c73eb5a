package asyncbridge

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Worker is one background task supervised alongside the fixed set
// spec §5 names: an LSP client per language server, one plugin
// sandbox host, a PTY reader per embedded terminal, an SSH channel per
// remote connection, a filesystem watcher, and an update checker.
// Implementations run until ctx is cancelled and must never touch
// editor state directly — only post Messages to their Bridge.
type Worker func(ctx context.Context) error

// Supervisor runs a fixed set of named workers and propagates the
// first one to return a non-nil error into the main thread's fatal
// path (spec §4.13), cancelling the rest.
//
// Grounded on internal/event/dispatch.AsyncDispatcher's worker-pool
// shape (fixed pool, graceful shutdown via context), with its
// hand-rolled sync.WaitGroup/atomic bookkeeping replaced by
// errgroup.Group, which gives first-error propagation and cancellation
// fan-out for free instead of reimplementing both.
type Supervisor struct {
	group *errgroup.Group
	ctx   context.Context
}

// NewSupervisor creates a Supervisor whose workers all run under ctx;
// cancelling ctx (or any worker returning an error) stops every other
// worker.
func NewSupervisor(ctx context.Context) *Supervisor {
	group, gctx := errgroup.WithContext(ctx)
	return &Supervisor{group: group, ctx: gctx}
}

// Go starts name running in its own goroutine under the supervisor's
// context.
func (s *Supervisor) Go(name string, w Worker) {
	s.group.Go(func() error {
		return w(s.ctx)
	})
}

// Wait blocks until every worker has returned, then returns the first
// non-nil error any of them produced (nil if all exited cleanly, e.g.
// on ordinary shutdown).
func (s *Supervisor) Wait() error {
	return s.group.Wait()
}

// Context returns the context workers run under, cancelled once any
// worker fails or the Supervisor's own parent context is cancelled.
func (s *Supervisor) Context() context.Context {
	return s.ctx
}
