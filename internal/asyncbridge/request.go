package asyncbridge

import (
	"context"
	"sync"
)

// KindCancelled is the Message.Kind posted in response to a cancelled
// request, per spec §5's cancellation contract.
const KindCancelled = "cancelled"

// Requests tracks outstanding background requests so any of them can
// be cancelled by ID — the cancel button on a long-running plugin
// operation, a prompt closing mid-request, an LSP deadline expiring.
type Requests struct {
	bridge *Bridge

	mu      sync.Mutex
	cancels map[ID]context.CancelFunc
}

// NewRequests creates a request registry posting cancellation
// messages to bridge.
func NewRequests(bridge *Bridge) *Requests {
	return &Requests{bridge: bridge, cancels: make(map[ID]context.CancelFunc)}
}

// Begin allocates a new request ID and a context a worker should run
// under; cancelling that context (via Cancel or parent's own
// cancellation) is the worker's signal to drop the request instead of
// posting a result. Cancel posts the KindCancelled message itself.
func (r *Requests) Begin(parent context.Context) (ID, context.Context) {
	id := r.bridge.NextID()
	ctx, cancel := context.WithCancel(parent)

	r.mu.Lock()
	r.cancels[id] = cancel
	r.mu.Unlock()

	return id, ctx
}

// Cancel cancels the request's context and posts a KindCancelled
// message on its behalf immediately — the worker's own check of
// ctx.Err() is for dropping work in progress, not for notifying the
// main thread, since the worker may not get scheduled again for a
// while after a context cancellation.
func (r *Requests) Cancel(id ID) {
	r.mu.Lock()
	cancel, ok := r.cancels[id]
	delete(r.cancels, id)
	r.mu.Unlock()

	if !ok {
		return
	}
	cancel()
	r.bridge.Post(Message{RequestID: id, Kind: KindCancelled})
}

// Complete marks a request finished (successfully or with an error)
// and releases its cancel func. Workers call this once they have
// posted their final result message.
func (r *Requests) Complete(id ID) {
	r.mu.Lock()
	cancel, ok := r.cancels[id]
	delete(r.cancels, id)
	r.mu.Unlock()

	if ok {
		cancel()
	}
}
