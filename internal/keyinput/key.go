// Package keyinput implements KeyTranslator and KeymapResolver: turning
// raw terminal key sequences into normalized KeyEvents, and resolving a
// normalized event plus an active Context into an Action name.
//
// Grounded on keystorm's internal/input/key package (Key, Modifier,
// Event) and internal/input/keymap (Keymap, Binding, priority search),
// narrowed to the spec's flatter Context enum and single resolve() op.
package keyinput

import "fmt"

// Key identifies a keyboard key. Character keys use KeyRune with the
// rune stored on the Event.
type Key uint16

const (
	KeyNone Key = iota
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeySpace
	KeyRune
)

func (k Key) String() string {
	switch k {
	case KeyNone:
		return "None"
	case KeyEscape:
		return "Escape"
	case KeyEnter:
		return "Enter"
	case KeyTab:
		return "Tab"
	case KeyBackspace:
		return "Backspace"
	case KeyDelete:
		return "Delete"
	case KeyInsert:
		return "Insert"
	case KeyHome:
		return "Home"
	case KeyEnd:
		return "End"
	case KeyPageUp:
		return "PageUp"
	case KeyPageDown:
		return "PageDown"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeySpace:
		return "Space"
	case KeyRune:
		return "Rune"
	default:
		if k >= KeyF1 && k <= KeyF12 {
			return fmt.Sprintf("F%d", int(k-KeyF1)+1)
		}
		return fmt.Sprintf("Key(%d)", k)
	}
}

func (k Key) IsSpecial() bool { return k != KeyNone && k != KeyRune }

// Modifier is a bitset of active modifier keys.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

func (m Modifier) Has(mod Modifier) bool         { return m&mod != 0 }
func (m Modifier) With(mod Modifier) Modifier    { return m | mod }
func (m Modifier) Without(mod Modifier) Modifier { return m &^ mod }

// KeyEvent is a single normalized key press, the output of
// KeyTranslator.Translate and the input to KeymapResolver.Resolve.
type KeyEvent struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
}

func NewRuneEvent(r rune, mods Modifier) KeyEvent {
	return KeyEvent{Key: KeyRune, Rune: r, Modifiers: mods}
}

func NewSpecialEvent(k Key, mods Modifier) KeyEvent {
	return KeyEvent{Key: k, Modifiers: mods}
}

func (e KeyEvent) IsRune() bool { return e.Key == KeyRune && e.Rune != 0 }

func (e KeyEvent) Equals(other KeyEvent) bool {
	return e.Key == other.Key && e.Rune == other.Rune && e.Modifiers == other.Modifiers
}

// String renders a canonical "C-A-x" style representation used both
// for display and as the map key a Keymap binds against.
func (e KeyEvent) String() string {
	prefix := ""
	if e.Modifiers.Has(ModCtrl) {
		prefix += "C-"
	}
	if e.Modifiers.Has(ModAlt) {
		prefix += "A-"
	}
	if e.Modifiers.Has(ModMeta) {
		prefix += "M-"
	}
	if e.Modifiers.Has(ModShift) && !e.IsRune() {
		prefix += "S-"
	}
	if e.IsRune() {
		return prefix + string(e.Rune)
	}
	return prefix + e.Key.String()
}
