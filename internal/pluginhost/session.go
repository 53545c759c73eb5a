package pluginhost

import "fmt"

// Sandbox is the isolated, single-threaded script environment one
// plugin runs in — deliberately narrow so pluginhost stays independent
// of which scripting engine backs it (grounded on the teacher's
// internal/plugin/lua.Sandbox). No implementation is bundled in this
// module; tests use a stub.
type Sandbox interface {
	// Invoke calls the named entry point with args and returns its
	// result, or an error if the function doesn't exist or the script
	// itself returned one.
	Invoke(fn string, args map[string]any) (any, error)
}

// WarningSink receives a domain-tagged warning — satisfied by
// internal/warning.Registry without this package importing it, so a
// host-contract panic-recovery path has somewhere to report without
// creating a dependency cycle.
type WarningSink interface {
	Register(domain, message string)
}

// Session is one running plugin instance: its identity, the
// capabilities its manifest was granted, and the sandbox executing its
// script.
type Session struct {
	Name    string
	Grant   Grant
	Sandbox Sandbox
	Warn    WarningSink
}

// NewSession creates a Session for a loaded plugin.
func NewSession(name string, grant Grant, sandbox Sandbox, warn WarningSink) *Session {
	return &Session{Name: name, Grant: grant, Sandbox: sandbox, Warn: warn}
}

// Invoke calls fn in the plugin's sandbox, recovering any panic into a
// registered warning instead of letting it terminate the editor —
// spec §4.13's "Panics in a plugin sandbox never terminate the editor;
// the sandbox is torn down and a warning is registered." Tearing the
// sandbox down itself is the caller's responsibility (this returns the
// panic as an error so the caller knows to do it).
func (s *Session) Invoke(fn string, args map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("plugin %q panicked in %q: %v", s.Name, fn, r)
			if s.Warn != nil {
				s.Warn.Register("plugins", msg)
			}
			err = fmt.Errorf("pluginhost: %s", msg)
		}
	}()
	return s.Sandbox.Invoke(fn, args)
}
