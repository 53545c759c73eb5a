package config

// Resolved is a resolved, merged settings tree.
type Resolved map[string]any

// SourceMap records, for every leaf path present in a resolved Resolved,
// which layer supplied its effective value. It drives the "modified in
// target layer" indicator: a leaf is modified relative to target iff
// SourceMap[path] == target.
type SourceMap map[string]Source

// Resolver holds the four ordered layers for one scope (global, or a
// single project's view of global+project+session).
type Resolver struct {
	layers [4]*Layer // indexed by Source
}

// NewResolver builds a Resolver from layers, one per Source. A missing
// layer is treated as empty.
func NewResolver(system, user, project, session *Layer) *Resolver {
	r := &Resolver{}
	set := func(l *Layer, want Source) *Layer {
		if l == nil {
			return &Layer{Source: want, Data: map[string]any{}}
		}
		return l
	}
	r.layers[System] = set(system, System)
	r.layers[User] = set(user, User)
	r.layers[Project] = set(project, Project)
	r.layers[Session] = set(session, Session)
	return r
}

// Layer returns the live layer for s.
func (r *Resolver) Layer(s Source) *Layer { return r.layers[s] }

// Resolve deep-merges System → User → Project → Session and returns
// the merged tree along with the per-leaf source map.
func (r *Resolver) Resolve() (Resolved, SourceMap) {
	merged := make(map[string]any)
	sources := make(SourceMap)
	for s := System; s <= Session; s++ {
		layer := r.layers[s]
		merged = DeepMerge(merged, layer.Data)
		for path := range FlattenMap(layer.Data) {
			sources[path] = s
		}
	}
	return Resolved(merged), sources
}

// resolveBelow merges every layer with priority strictly lower than
// target, used by SaveToLayer to compute the parent a new value is
// diffed against.
func (r *Resolver) resolveBelow(target Source) Resolved {
	merged := make(map[string]any)
	for s := System; s < target; s++ {
		merged = DeepMerge(merged, r.layers[s].Data)
	}
	return Resolved(merged)
}

// Get returns the effective value at path and the layer that supplied
// it, searching from highest precedence to lowest.
func (r *Resolver) Get(path string) (any, Source, bool) {
	for s := Session; s >= System; s-- {
		if val, ok := GetByPath(r.layers[s].Data, path); ok {
			return val, s, true
		}
	}
	return nil, 0, false
}

// ApplyLanguageOverlay layers resolved.languages.<id> on top of
// resolved, per spec §4.5's "buffer's effective config" rule.
func ApplyLanguageOverlay(resolved Resolved, languageID string) Resolved {
	out := cloneMap(map[string]any(resolved))
	overlay, ok := GetByPath(out, "languages."+languageID)
	if !ok {
		return Resolved(out)
	}
	overlayMap, ok := overlay.(map[string]any)
	if !ok {
		return Resolved(out)
	}
	return Resolved(DeepMerge(out, overlayMap))
}
