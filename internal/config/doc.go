// Package config implements LayeredConfig, the four-layer (System,
// User, Project, Session) JSON settings tree EditorState resolves an
// effective configuration from.
//
// Layers deep-merge in ascending precedence:
//
//	┌─────────────────────────────┐
//	│  4. Session                 │  ← in-memory, highest priority
//	├─────────────────────────────┤
//	│  3. Project                 │  ← <workspace>/.fresh/config.json
//	├─────────────────────────────┤
//	│  2. User                    │  ← ~/.config/fresh/config.json
//	├─────────────────────────────┤
//	│  1. System                  │  ← built-in defaults, read-only
//	└─────────────────────────────┘
//
// Resolver.Resolve merges the four layers and records which layer
// supplied each leaf. SaveToLayer writes only the minimal diff between
// a new value and the layers below it, so a layer file holds nothing
// but what it actually overrides. Migrate carries an older on-disk
// version forward through a registered chain before it's loaded into a
// layer.
package config
