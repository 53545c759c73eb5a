package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/freshkit/fresh/internal/frameloop"
	"github.com/freshkit/fresh/internal/keyinput"
)

// specialToken encodes a non-rune key as the RawKey frameloop passes
// through to KeyTranslator.Translate. Real terminal calibration
// persists whatever sequence the terminal actually sent
// (keyinput.CalibrationSession); here tcell has already done that
// decoding for us, so the token only needs to be a stable, collision-free
// string the baseline translation table below recognizes. The private-use
// prefix keeps it from ever colliding with a single literal rune.
func specialToken(name string) keyinput.RawKey {
	return keyinput.RawKey("\ue000" + name)
}

// buildBaselineTable seeds the translation table a fresh install would
// otherwise only acquire by running the interactive calibration wizard
// (keyinput.CalibrationSession) once per terminal. It covers the fixed
// keys termSource.PollEvent emits tokens for.
func buildBaselineTable() keyinput.TranslationTable {
	table := make(keyinput.TranslationTable)
	table[specialToken("Escape")] = keyinput.NewSpecialEvent(keyinput.KeyEscape, keyinput.ModNone)
	table[specialToken("Enter")] = keyinput.NewSpecialEvent(keyinput.KeyEnter, keyinput.ModNone)
	table[specialToken("Tab")] = keyinput.NewSpecialEvent(keyinput.KeyTab, keyinput.ModNone)
	table[specialToken("Backspace")] = keyinput.NewSpecialEvent(keyinput.KeyBackspace, keyinput.ModNone)
	table[specialToken("Delete")] = keyinput.NewSpecialEvent(keyinput.KeyDelete, keyinput.ModNone)
	table[specialToken("Home")] = keyinput.NewSpecialEvent(keyinput.KeyHome, keyinput.ModNone)
	table[specialToken("End")] = keyinput.NewSpecialEvent(keyinput.KeyEnd, keyinput.ModNone)
	table[specialToken("PageUp")] = keyinput.NewSpecialEvent(keyinput.KeyPageUp, keyinput.ModNone)
	table[specialToken("PageDown")] = keyinput.NewSpecialEvent(keyinput.KeyPageDown, keyinput.ModNone)
	table[specialToken("Up")] = keyinput.NewSpecialEvent(keyinput.KeyUp, keyinput.ModNone)
	table[specialToken("Down")] = keyinput.NewSpecialEvent(keyinput.KeyDown, keyinput.ModNone)
	table[specialToken("Left")] = keyinput.NewSpecialEvent(keyinput.KeyLeft, keyinput.ModNone)
	table[specialToken("Right")] = keyinput.NewSpecialEvent(keyinput.KeyRight, keyinput.ModNone)

	for r := 'a'; r <= 'z'; r++ {
		table[specialToken("C-"+string(r))] = keyinput.NewRuneEvent(r, keyinput.ModCtrl)
	}
	return table
}

// ctrlLetters maps each tcell Ctrl-letter key constant to the rune it
// represents, mirroring backend/terminal.go's convertKey switch but
// collapsed to a table since keyinput models Ctrl as a modifier rather
// than one constant per letter.
var ctrlLetters = map[tcell.Key]rune{
	tcell.KeyCtrlA: 'a', tcell.KeyCtrlB: 'b', tcell.KeyCtrlC: 'c', tcell.KeyCtrlD: 'd',
	tcell.KeyCtrlE: 'e', tcell.KeyCtrlF: 'f', tcell.KeyCtrlG: 'g', tcell.KeyCtrlH: 'h',
	tcell.KeyCtrlJ: 'j', tcell.KeyCtrlK: 'k', tcell.KeyCtrlL: 'l', tcell.KeyCtrlN: 'n',
	tcell.KeyCtrlO: 'o', tcell.KeyCtrlP: 'p', tcell.KeyCtrlQ: 'q', tcell.KeyCtrlR: 'r',
	tcell.KeyCtrlS: 's', tcell.KeyCtrlT: 't', tcell.KeyCtrlU: 'u', tcell.KeyCtrlV: 'v',
	tcell.KeyCtrlW: 'w', tcell.KeyCtrlX: 'x', tcell.KeyCtrlY: 'y', tcell.KeyCtrlZ: 'z',
}

var specialKeys = map[tcell.Key]string{
	tcell.KeyEscape:     "Escape",
	tcell.KeyEnter:      "Enter",
	tcell.KeyTab:        "Tab",
	tcell.KeyBackspace:  "Backspace",
	tcell.KeyBackspace2: "Backspace",
	tcell.KeyDelete:     "Delete",
	tcell.KeyHome:       "Home",
	tcell.KeyEnd:        "End",
	tcell.KeyPgUp:       "PageUp",
	tcell.KeyPgDn:       "PageDown",
	tcell.KeyUp:         "Up",
	tcell.KeyDown:       "Down",
	tcell.KeyLeft:       "Left",
	tcell.KeyRight:      "Right",
}

// termSource implements frameloop.Source directly over a tcell.Screen.
// It is deliberately narrower than backend.Terminal in the teacher
// repo: fresh's frame scheduler owns only input routing, not cell
// rendering, so this type skips SetCell/Fill/cursor styling entirely
// and only translates tcell's key/resize/paste/focus events into
// frameloop.RawEvent.
type termSource struct {
	screen tcell.Screen
}

func newTermSource() (*termSource, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	screen.EnablePaste()
	return &termSource{screen: screen}, nil
}

func (t *termSource) Shutdown() {
	t.screen.Fini()
}

// PollEvent blocks for the next terminal event and translates it into
// a frameloop.RawEvent. It returns ok=false only once the screen has
// been finalized (Shutdown), mirroring tcell's PollEvent contract of
// returning nil after Fini.
func (t *termSource) PollEvent() (frameloop.RawEvent, bool) {
	ev := t.screen.PollEvent()
	if ev == nil {
		return frameloop.RawEvent{}, false
	}

	switch e := ev.(type) {
	case *tcell.EventKey:
		return frameloop.RawEvent{Kind: frameloop.RawKeyEvent, Key: t.rawKeyOf(e)}, true
	case *tcell.EventResize:
		w, h := e.Size()
		return frameloop.RawEvent{Kind: frameloop.RawResizeEvent, Width: w, Height: h}, true
	case *tcell.EventPaste:
		return frameloop.RawEvent{Kind: frameloop.RawPasteEvent}, true
	case *tcell.EventFocus:
		return frameloop.RawEvent{Kind: frameloop.RawFocusEvent, Focused: e.Focused}, true
	default:
		return t.PollEvent()
	}
}

func (t *termSource) rawKeyOf(e *tcell.EventKey) keyinput.RawKey {
	if e.Key() == tcell.KeyRune {
		return keyinput.RawKey(string(e.Rune()))
	}
	if r, ok := ctrlLetters[e.Key()]; ok {
		return specialToken("C-" + string(r))
	}
	if name, ok := specialKeys[e.Key()]; ok {
		return specialToken(name)
	}
	return keyinput.RawKey(string(rune(e.Key())))
}
