package config

import (
	"testing"
	"time"

	"github.com/freshkit/fresh/internal/clock"
)

func TestResolveDeepMergesInPrecedenceOrder(t *testing.T) {
	sys := NewLayer(System, "", map[string]any{
		"editor": map[string]any{"tabSize": 4, "wordWrap": "off"},
	})
	usr := NewLayer(User, "", map[string]any{
		"editor": map[string]any{"wordWrap": "on"},
	})
	proj := NewLayer(Project, "", map[string]any{
		"editor": map[string]any{"tabSize": 2},
	})
	r := NewResolver(sys, usr, proj, nil)

	resolved, sources := r.Resolve()
	editor := resolved["editor"].(map[string]any)
	if editor["tabSize"] != 2 {
		t.Fatalf("tabSize = %v, want 2 (project wins)", editor["tabSize"])
	}
	if editor["wordWrap"] != "on" {
		t.Fatalf("wordWrap = %v, want on (user wins over system)", editor["wordWrap"])
	}
	if sources["editor.tabSize"] != Project {
		t.Fatalf("source for tabSize = %v, want Project", sources["editor.tabSize"])
	}
	if sources["editor.wordWrap"] != User {
		t.Fatalf("source for wordWrap = %v, want User", sources["editor.wordWrap"])
	}
}

func TestDiffReturnsMinimalPartial(t *testing.T) {
	parent := map[string]any{"editor": map[string]any{"tabSize": 4, "wordWrap": "off"}, "ui": map[string]any{"theme": "dark"}}
	value := map[string]any{"editor": map[string]any{"tabSize": 2, "wordWrap": "off"}, "ui": map[string]any{"theme": "dark"}}

	partial := Diff(value, parent)
	editor, ok := partial["editor"].(map[string]any)
	if !ok {
		t.Fatalf("expected editor in partial, got %v", partial)
	}
	if _, has := partial["ui"]; has {
		t.Fatalf("unchanged ui leaked into diff: %v", partial)
	}
	if editor["tabSize"] != 2 {
		t.Fatalf("tabSize = %v, want 2", editor["tabSize"])
	}
	if _, has := editor["wordWrap"]; has {
		t.Fatalf("unchanged wordWrap leaked into diff: %v", editor)
	}
}

func TestSaveToLayerRoundTrip(t *testing.T) {
	dir := t.TempDir()
	sys := NewLayer(System, "", map[string]any{"editor": map[string]any{"tabSize": 4}})
	proj := NewLayer(Project, dir+"/project.json", map[string]any{})
	r := NewResolver(sys, nil, proj, nil)

	newValue := map[string]any{"editor": map[string]any{"tabSize": 4, "wordWrap": "on"}}
	fake := clock.NewFake(time.Unix(0, 0))
	partial, err := SaveToLayer(r, Project, newValue, fake)
	if err != nil {
		t.Fatal(err)
	}
	editor := partial["editor"].(map[string]any)
	if _, has := editor["tabSize"]; has {
		t.Fatalf("unchanged tabSize should not be in the saved partial: %v", partial)
	}
	if editor["wordWrap"] != "on" {
		t.Fatalf("wordWrap = %v, want on", editor["wordWrap"])
	}

	resolved, sources := r.Resolve()
	re := resolved["editor"].(map[string]any)
	if re["tabSize"] != 4 || re["wordWrap"] != "on" {
		t.Fatalf("resolved after save = %v", re)
	}
	if sources["editor.wordWrap"] != Project {
		t.Fatalf("wordWrap source = %v, want Project", sources["editor.wordWrap"])
	}

	reloaded, err := LoadLayerFile(Project, proj.Path)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Data["editor"].(map[string]any)["wordWrap"] != "on" {
		t.Fatalf("reloaded layer file missing saved value: %v", reloaded.Data)
	}
}

func TestSaveToLayerRejectsSystemLayer(t *testing.T) {
	sys := NewLayer(System, "", map[string]any{})
	r := NewResolver(sys, nil, nil, nil)
	if _, err := SaveToLayer(r, System, map[string]any{"a": 1}, nil); err != ErrReadOnlyLayer {
		t.Fatalf("err = %v, want ErrReadOnlyLayer", err)
	}
}

func TestApplyLanguageOverlay(t *testing.T) {
	resolved := Resolved{
		"editor": map[string]any{"tabSize": 4},
		"languages": map[string]any{
			"go": map[string]any{"tabSize": 8},
		},
	}
	out := ApplyLanguageOverlay(resolved, "go")
	editor := out["editor"].(map[string]any)
	if editor["tabSize"] != 8 {
		t.Fatalf("tabSize = %v, want 8 from language overlay", editor["tabSize"])
	}
}

func TestMigrateTranslatesIntVersion(t *testing.T) {
	m := NewMigrator(IntVersion(2))
	m.Register(Migration{
		FromVersion: IntVersion(1),
		ToVersion:   IntVersion(2),
		Description: "rename old.key to new.key",
		Migrate: func(data map[string]any) (map[string]any, error) {
			if v, ok := data["old"]; ok {
				data["new"] = v
				delete(data, "old")
			}
			return data, nil
		},
	})

	raw := map[string]any{"version": 1, "old": "value"}
	migrated, err := Migrate(m, raw)
	if err != nil {
		t.Fatal(err)
	}
	if migrated["version"] != 2 {
		t.Fatalf("version = %v, want 2", migrated["version"])
	}
	if migrated["new"] != "value" {
		t.Fatalf("expected migrated new key, got %v", migrated)
	}
	if _, has := migrated["old"]; has {
		t.Fatalf("old key should have been removed: %v", migrated)
	}
}
