package pluginhost

import (
	"fmt"
	"sync"
)

// HandlerFunc implements one request/response API method. args carries
// the call's named parameters (already decoded from the sandbox's
// native value representation by the caller).
type HandlerFunc func(caller *Session, args map[string]any) (any, error)

// Method is one entry in the API registry: a name, the capability
// required to call it (empty if none), and its implementation.
type Method struct {
	Name     string
	Required Capability
	Handler  HandlerFunc
}

// Registry is the capability-gated request/response surface plugins
// call into — spec §6's "Plugin API (subset of the contract)". It is
// shared across every plugin Session; each call is checked against the
// calling Session's own Grant, not the registry's.
//
// Grounded on internal/plugin/api.Registry's module-name → Module map,
// flattened here from modules (each with one capability) to individual
// methods (each with its own), since spec §6's method list spans
// several of the teacher's module boundaries (buffer/ui/lsp/scrollsync)
// without drawing the same lines.
type Registry struct {
	mu      sync.RWMutex
	methods map[string]Method
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{methods: make(map[string]Method)}
}

// Register adds m to the registry. Registering a name twice is a
// programmer error — it panics, the same way re-registering a flag or
// an http.Handler does, since it can only happen at host startup
// before any plugin runs.
func (r *Registry) Register(m Method) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.methods[m.Name]; exists {
		panic(fmt.Sprintf("pluginhost: method %q already registered", m.Name))
	}
	r.methods[m.Name] = m
}

// Call invokes method on behalf of caller, after checking caller's
// Grant covers the method's required capability. Returns
// *CapabilityError if not, or an "unknown method" error if no such
// method is registered.
func (r *Registry) Call(caller *Session, method string, args map[string]any) (any, error) {
	r.mu.RLock()
	m, ok := r.methods[method]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("pluginhost: unknown method %q", method)
	}
	if m.Required != "" && !caller.Grant.Has(m.Required) {
		return nil, &CapabilityError{Plugin: caller.Name, Method: method, Required: m.Required}
	}
	return m.Handler(caller, args)
}
