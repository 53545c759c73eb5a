package keyinput

import "testing"

func TestTranslateUnknownSequenceIsIdentity(t *testing.T) {
	tr := NewKeyTranslator(nil)
	ev := tr.Translate(RawKey("x"))
	if !ev.IsRune() || ev.Rune != 'x' {
		t.Fatalf("got %+v, want identity rune event", ev)
	}
}

func TestTranslateKnownSequence(t *testing.T) {
	table := TranslationTable{
		RawKey("\x1b[H"): NewSpecialEvent(KeyHome, ModNone),
	}
	tr := NewKeyTranslator(table)
	ev := tr.Translate(RawKey("\x1b[H"))
	if ev.Key != KeyHome {
		t.Fatalf("got %+v, want KeyHome", ev)
	}
}

func TestCalibrationSessionPersists(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/keys.json"

	tr := NewKeyTranslator(nil)
	wanted := []KeyEvent{NewSpecialEvent(KeyHome, ModNone), NewSpecialEvent(KeyEnd, ModNone)}
	sess := NewCalibrationSession(tr, wanted)

	next, ok := sess.Next()
	if !ok || next.Key != KeyHome {
		t.Fatalf("first want = %+v", next)
	}
	sess.Record(RawKey("\x1b[H"))

	next, ok = sess.Next()
	if !ok || next.Key != KeyEnd {
		t.Fatalf("second want = %+v", next)
	}
	sess.Record(RawKey("\x1b[F"))

	if !sess.Done() {
		t.Fatal("expected calibration done")
	}
	if err := sess.Commit(path); err != nil {
		t.Fatal(err)
	}

	reloaded := NewKeyTranslator(nil)
	if err := reloaded.Load(path); err != nil {
		t.Fatal(err)
	}
	ev := reloaded.Translate(RawKey("\x1b[H"))
	if ev.Key != KeyHome {
		t.Fatalf("reloaded translate = %+v, want KeyHome", ev)
	}
}

func TestKeymapResolverUserOverridesNamedMap(t *testing.T) {
	registry := NewRegistry()

	defaultMap := NewKeymap("default", NewContext(Normal), 100)
	defaultMap.Bind(NewRuneEvent('s', ModCtrl), "save")
	registry.AddNamedKeymap("default", defaultMap)

	userMap := NewKeymap("user", NewContext(Normal), 1000)
	userMap.Bind(NewRuneEvent('s', ModCtrl), "save_as")
	registry.SetUserKeymap(userMap)

	resolver := NewKeymapResolver(registry)
	action, ok := resolver.Resolve(NewRuneEvent('s', ModCtrl), NewContext(Normal), "default")
	if !ok || action != "save_as" {
		t.Fatalf("got %q, %v; want user override save_as", action, ok)
	}
}

func TestKeymapResolverFallsBackToNamedMap(t *testing.T) {
	registry := NewRegistry()
	defaultMap := NewKeymap("default", NewContext(Normal), 100)
	defaultMap.Bind(NewSpecialEvent(KeyEscape, ModNone), "cancel")
	registry.AddNamedKeymap("default", defaultMap)

	resolver := NewKeymapResolver(registry)
	action, ok := resolver.Resolve(NewSpecialEvent(KeyEscape, ModNone), NewContext(Normal), "default")
	if !ok || action != "cancel" {
		t.Fatalf("got %q, %v", action, ok)
	}
}

func TestModalContextDoesNotLeakGlobalShortcut(t *testing.T) {
	registry := NewRegistry()
	normalMap := NewKeymap("default", NewContext(Normal), 100)
	normalMap.Bind(NewRuneEvent('q', ModCtrl), "quit")
	registry.AddNamedKeymap("default", normalMap)

	resolver := NewKeymapResolver(registry)
	_, ok := resolver.Resolve(NewRuneEvent('q', ModCtrl), NewContext(Prompt), "default")
	if ok {
		t.Fatal("expected Prompt (modal) context not to inherit Normal's binding")
	}
}

func TestCompositeContextInheritsFromNormal(t *testing.T) {
	registry := NewRegistry()
	normalMap := NewKeymap("default", NewContext(Normal), 100)
	normalMap.Bind(NewSpecialEvent(KeyLeft, ModNone), "move_left")
	registry.AddNamedKeymap("default", normalMap)

	resolver := NewKeymapResolver(registry)
	action, ok := resolver.Resolve(NewSpecialEvent(KeyLeft, ModNone), NewContext(Composite), "default")
	if !ok || action != "move_left" {
		t.Fatalf("got %q, %v; want inherited move_left", action, ok)
	}
}

func TestPluginModeContextCarriesName(t *testing.T) {
	ctx := NewPluginContext("vim-surround")
	if ctx.Kind != PluginMode || ctx.Plugin != "vim-surround" {
		t.Fatalf("got %+v", ctx)
	}
}
