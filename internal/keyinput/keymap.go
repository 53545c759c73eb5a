package keyinput

// Binding maps one key, within one context, to an action name.
type Binding struct {
	Key    KeyEvent
	Action string
}

// Keymap is a named, priority-ordered set of bindings scoped to a
// context. "user" keymaps are searched before the active named map
// (default/vscode/emacs/...), matching spec §4.6's precedence order.
type Keymap struct {
	Name     string
	Context  Context
	Priority int
	Bindings map[string]string // KeyEvent.String() -> action
}

// NewKeymap creates an empty keymap for context.
func NewKeymap(name string, ctx Context, priority int) *Keymap {
	return &Keymap{Name: name, Context: ctx, Priority: priority, Bindings: make(map[string]string)}
}

// Bind registers key -> action.
func (k *Keymap) Bind(key KeyEvent, action string) {
	k.Bindings[key.String()] = action
}

// lookup returns the action bound to key in this keymap, if any.
func (k *Keymap) lookup(key KeyEvent) (string, bool) {
	action, ok := k.Bindings[key.String()]
	return action, ok
}

// Registry holds every keymap fresh knows about: one user-override
// keymap per context, and the set of named maps (default, vscode,
// emacs, plugin-contributed) that provide the base bindings.
type Registry struct {
	user  map[ContextKind]*Keymap
	named map[string]map[ContextKind]*Keymap // mapName -> per-context keymap
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		user:  make(map[ContextKind]*Keymap),
		named: make(map[string]map[ContextKind]*Keymap),
	}
}

// SetUserKeymap installs the user's override keymap for a context.
func (r *Registry) SetUserKeymap(km *Keymap) { r.user[km.Context.Kind] = km }

// AddNamedKeymap installs km under the given active-map name.
func (r *Registry) AddNamedKeymap(mapName string, km *Keymap) {
	if r.named[mapName] == nil {
		r.named[mapName] = make(map[ContextKind]*Keymap)
	}
	r.named[mapName][km.Context.Kind] = km
}

// KeymapResolver resolves a normalized KeyEvent, within a Context and
// against one active named map, to an Action name.
type KeymapResolver struct {
	registry *Registry
}

func NewKeymapResolver(registry *Registry) *KeymapResolver {
	return &KeymapResolver{registry: registry}
}

// Resolve searches, highest priority first: the user keymap for ctx,
// then activeMap's keymap for ctx, then (if ctx is not modal) the same
// two steps for ctx's inherited context. A popup/modal context never
// falls through to Normal's bindings even if no inherited() target
// exists for it, satisfying the no-global-leak rule.
func (r *KeymapResolver) Resolve(key KeyEvent, ctx Context, activeMap string) (string, bool) {
	if action, ok := r.resolveOneContext(key, ctx, activeMap); ok {
		return action, true
	}
	if parent, ok := ctx.inherited(); ok {
		return r.resolveOneContext(key, parent, activeMap)
	}
	return "", false
}

func (r *KeymapResolver) resolveOneContext(key KeyEvent, ctx Context, activeMap string) (string, bool) {
	if km, ok := r.registry.user[ctx.Kind]; ok {
		if action, ok := km.lookup(key); ok {
			return action, true
		}
	}
	if perContext, ok := r.registry.named[activeMap]; ok {
		if km, ok := perContext[ctx.Kind]; ok {
			if action, ok := km.lookup(key); ok {
				return action, true
			}
		}
	}
	return "", false
}
