package dispatch

import (
	"errors"
	"sync"

	"github.com/freshkit/fresh/internal/editorstate"
	"github.com/freshkit/fresh/internal/keyinput"
)

// ErrNoHandler is returned when no handler is registered for the kind
// of the current top context. Inherited contexts are not consulted.
var ErrNoHandler = errors.New("dispatch: no handler for context")

// Handler processes actions for one context. Implementations live
// alongside the component that owns that context (the normal-mode
// editing surface, the command palette, the settings UI, ...).
type Handler interface {
	Handle(action Action, state *editorstate.State) (editorstate.Outcome, error)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(action Action, state *editorstate.State) (editorstate.Outcome, error)

func (f HandlerFunc) Handle(action Action, state *editorstate.State) (editorstate.Outcome, error) {
	return f(action, state)
}

// Dispatcher routes an Action to the Handler owning the current
// top-of-stack Context, as spec §4.7 describes. One Dispatcher serves
// one open buffer's EditorState.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[keyinput.ContextKind]Handler
	stack    []keyinput.Context
	state    *editorstate.State
	burst    *BurstCoalescer
}

// New creates a Dispatcher over state, starting in the Normal context.
func New(state *editorstate.State, burst *BurstCoalescer) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[keyinput.ContextKind]Handler),
		stack:    []keyinput.Context{keyinput.NewContext(keyinput.Normal)},
		state:    state,
		burst:    burst,
	}
}

// Register installs h as the handler for every action routed while
// kind is the top context.
func (d *Dispatcher) Register(kind keyinput.ContextKind, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[kind] = h
}

// PushContext enters a new top-of-stack context (opening a popup/modal
// surface).
func (d *Dispatcher) PushContext(ctx keyinput.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stack = append(d.stack, ctx)
}

// PopContext leaves the current top-of-stack context, returning to
// whatever was active before it. Popping the last context (Normal) is
// a no-op — there is always a context to dispatch into.
func (d *Dispatcher) PopContext() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.stack) > 1 {
		d.stack = d.stack[:len(d.stack)-1]
	}
}

// TopContext returns the currently active context.
func (d *Dispatcher) TopContext() keyinput.Context {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.stack[len(d.stack)-1]
}

// Dispatch routes action to the handler owning the top context.
func (d *Dispatcher) Dispatch(action Action) (editorstate.Outcome, error) {
	d.mu.RLock()
	h, ok := d.handlers[d.TopContext().Kind]
	d.mu.RUnlock()
	if !ok {
		return editorstate.Outcome{}, ErrNoHandler
	}
	return h.Handle(action, d.state)
}
