package pluginhost

import "sync"

// Hook identifies one event the host emits to plugins — spec §4.11's
// "buffer lifecycle, viewport changed, prompt-selection changed, LSP
// server error, status-bar element clicked" plus §6's exact hook list.
type Hook string

const (
	HookBufferOpened          Hook = "buffer_opened"
	HookBufferClosed          Hook = "buffer_closed"
	HookViewportChanged       Hook = "viewport_changed"
	HookPromptSelectionChange Hook = "prompt_selection_changed"
	HookLSPServerError        Hook = "lsp_server_error"
	HookLSPStatusClicked      Hook = "lsp_status_clicked"
	HookActionPopupResult     Hook = "action_popup_result"
)

// HookListener receives one hook firing, with args matching the
// event's own payload shape (e.g. HookLSPServerError carries
// {"language": ..., "message": ...}).
type HookListener func(args map[string]any)

// Emitter dispatches host-originated hooks to every plugin Session
// subscribed to them. Grounded on internal/plugin/hook's namespace
// routing, generalized here from action routing (one action, one
// plugin) to event fan-out (one event, every subscribed plugin).
type Emitter struct {
	mu        sync.RWMutex
	listeners map[Hook][]HookListener
}

// NewEmitter creates an empty Emitter.
func NewEmitter() *Emitter {
	return &Emitter{listeners: make(map[Hook][]HookListener)}
}

// Subscribe registers l to run whenever hook fires.
func (e *Emitter) Subscribe(hook Hook, l HookListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[hook] = append(e.listeners[hook], l)
}

// Emit fires hook with args to every subscriber, in subscription
// order. A listener (a plugin's own hook handler) panicking is not
// caught here — callers wiring a Session's sandbox as a listener
// should wrap it through Session.Invoke first, so the panic is
// recovered the same way a request/response call is.
func (e *Emitter) Emit(hook Hook, args map[string]any) {
	e.mu.RLock()
	listeners := append([]HookListener(nil), e.listeners[hook]...)
	e.mu.RUnlock()

	for _, l := range listeners {
		l(args)
	}
}
