package keyinput

// ContextKind enumerates the fixed input contexts from spec §4.6. A
// context with ContextKind == PluginMode additionally carries the
// plugin's name in Context.Plugin.
type ContextKind int

const (
	Normal ContextKind = iota
	Prompt
	Menu
	Settings
	FileBrowser
	Terminal
	Composite
	PluginMode
)

func (k ContextKind) String() string {
	switch k {
	case Normal:
		return "Normal"
	case Prompt:
		return "Prompt"
	case Menu:
		return "Menu"
	case Settings:
		return "Settings"
	case FileBrowser:
		return "FileBrowser"
	case Terminal:
		return "Terminal"
	case Composite:
		return "Composite"
	case PluginMode:
		return "PluginMode"
	default:
		return "Unknown"
	}
}

// Context identifies where a key press should be resolved. Popup/modal
// contexts (Prompt, Menu, Settings, FileBrowser, PluginMode) are
// "isolated": global shortcuts bound only to Normal do not leak
// through to them, per spec §4.6.
type Context struct {
	Kind   ContextKind
	Plugin string // set only when Kind == PluginMode
}

func NewContext(kind ContextKind) Context { return Context{Kind: kind} }

func NewPluginContext(name string) Context { return Context{Kind: PluginMode, Plugin: name} }

// isModal reports whether the context is a popup/modal surface that
// must not fall back to Normal's global bindings.
func (c Context) isModal() bool { return c.Kind != Normal && c.Kind != Composite }

// inherited returns the context this one falls back to when no
// binding matches directly, per the "then inherited contexts" step of
// KeymapResolver.Resolve. Composite (split-pane view) inherits from
// Normal since most navigation bindings are shared; modal contexts
// inherit from nothing, so global shortcuts never leak into them.
func (c Context) inherited() (Context, bool) {
	switch c.Kind {
	case Composite:
		return Context{Kind: Normal}, true
	default:
		return Context{}, false
	}
}
