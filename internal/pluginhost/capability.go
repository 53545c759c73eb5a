// Package pluginhost implements PluginRuntime's host-side contract:
// the request/response surface a plugin sandbox calls into (spec §4.11,
// §6), the hooks the host emits to plugins, and a capability-gated API
// registry guarding every call.
//
// Grounded on keystorm's internal/plugin package: security/capabilities.go
// for the hierarchical Capability model, hook/{namespace,handler}.go for
// routing actions/hooks to a named plugin, and lua/sandbox.go for the
// shape of the Sandbox interface a plugin's script engine sits behind.
// No script engine is bundled in this module.
package pluginhost

import "fmt"

// Capability is a permission a plugin must be granted before it can
// call a gated API method. Capabilities are hierarchical — granting a
// parent capability (e.g. "editor") implicitly grants every capability
// under it (e.g. "editor.buffer").
type Capability string

const (
	CapabilityFilesystemRead  Capability = "filesystem.read"
	CapabilityFilesystemWrite Capability = "filesystem.write"
	CapabilityProcessSpawn    Capability = "process.spawn"
	CapabilityClipboard       Capability = "clipboard"
	CapabilityEditor          Capability = "editor"
	CapabilityEditorBuffer    Capability = "editor.buffer"
	CapabilityEditorCursor    Capability = "editor.cursor"
	CapabilityEditorUI        Capability = "editor.ui"
	CapabilityEditorCommand   Capability = "editor.command"
)

// IsChildOf reports whether child is granted by the parent capability
// (dotted-prefix hierarchy, e.g. "editor.buffer" is a child of
// "editor").
func IsChildOf(child, parent Capability) bool {
	if child == parent {
		return false
	}
	cs, ps := string(child), string(parent)
	return len(cs) > len(ps) && cs[:len(ps)] == ps && cs[len(ps)] == '.'
}

// Implies reports whether granted satisfies required — either they
// are the same capability, or granted is an ancestor of required in
// the dotted hierarchy.
func Implies(granted, required Capability) bool {
	if granted == required {
		return true
	}
	return IsChildOf(required, granted)
}

// Grant is one plugin's capability set, fixed at load time from its
// manifest and never expanded at runtime.
type Grant map[Capability]bool

// Has reports whether g grants required, directly or through a parent
// capability.
func (g Grant) Has(required Capability) bool {
	for granted := range g {
		if Implies(granted, required) {
			return true
		}
	}
	return false
}

// CapabilityError is returned by a gated API call the caller's Grant
// does not cover.
type CapabilityError struct {
	Plugin   string
	Method   string
	Required Capability
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("pluginhost: plugin %q lacks capability %q for %q", e.Plugin, e.Required, e.Method)
}
