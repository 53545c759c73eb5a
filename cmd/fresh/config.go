package main

import (
	"os"
	"path/filepath"

	"github.com/freshkit/fresh/internal/config"
)

// builtinDefaults is the System layer every resolver starts from —
// spec §4.5's lowest-priority, read-only layer.
func builtinDefaults() *config.Layer {
	return config.NewLayer(config.System, "", map[string]any{
		"editor": map[string]any{
			"tabSize":      4,
			"insertSpaces": true,
		},
	})
}

// userConfigPath returns the User layer's file, preferring an explicit
// -config/-c flag over the default $HOME/.config/fresh/config.json.
func userConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "fresh", "config.json")
}

// loadConfigResolver builds the System/User/Project layers opts
// describes and returns a Resolver ready to merge them. Session stays
// nil (empty) — this pass has no interactive settings UI that writes
// to it yet.
func loadConfigResolver(opts Options) (*config.Resolver, error) {
	sys := builtinDefaults()

	usr, err := config.LoadLayerFile(config.User, userConfigPath(opts.ConfigPath))
	if err != nil {
		return nil, err
	}

	var proj *config.Layer
	if opts.WorkspacePath != "" {
		proj, err = config.LoadLayerFile(config.Project, filepath.Join(opts.WorkspacePath, ".fresh", "config.json"))
		if err != nil {
			return nil, err
		}
	}

	return config.NewResolver(sys, usr, proj, nil), nil
}

// editorSettings is the narrow slice of resolved configuration the
// default keymap's editing actions consult, read once at startup from
// the Resolver's merged tree via config.GetByPath.
type editorSettings struct {
	tabSize      int
	insertSpaces bool
}

func readEditorSettings(resolved config.Resolved) editorSettings {
	s := editorSettings{tabSize: 4, insertSpaces: true}
	if v, ok := config.GetByPath(resolved, "editor.tabSize"); ok {
		if n, ok := v.(int); ok {
			s.tabSize = n
		} else if f, ok := v.(float64); ok {
			s.tabSize = int(f)
		}
	}
	if v, ok := config.GetByPath(resolved, "editor.insertSpaces"); ok {
		if b, ok := v.(bool); ok {
			s.insertSpaces = b
		}
	}
	return s
}
