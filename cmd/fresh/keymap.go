package main

import (
	"fmt"
	"strings"

	"github.com/freshkit/fresh/internal/cursorset"
	"github.com/freshkit/fresh/internal/dispatch"
	"github.com/freshkit/fresh/internal/editorstate"
	"github.com/freshkit/fresh/internal/eventlog"
	"github.com/freshkit/fresh/internal/keyinput"
	"github.com/freshkit/fresh/internal/piecetree"
	"github.com/freshkit/fresh/internal/warning"
)

// selfInsertPrefix names the action every printable rune binds to, the
// rune itself carried in the action name's suffix. keyinput.Keymap
// only maps one KeyEvent to one fixed action string (spec §4.6 has no
// argument-carrying binding), so a literal editor built on it needs
// one binding per printable character rather than a single wildcard —
// this loop is that binding set, built once at startup instead of
// persisted, since it never varies by user preference the way
// keybindings for named commands do.
const selfInsertPrefix = "self_insert:"

// buildNormalKeymap returns the default Normal-context keymap: every
// printable ASCII rune self-inserts, plus the fixed navigation/editing
// bindings spec §4.7's ActionDispatcher routes to the handler below.
func buildNormalKeymap() *keyinput.Keymap {
	km := keyinput.NewKeymap("default", keyinput.NewContext(keyinput.Normal), 0)

	for r := rune(' '); r <= '~'; r++ {
		km.Bind(keyinput.NewRuneEvent(r, keyinput.ModNone), selfInsertPrefix+string(r))
	}

	km.Bind(keyinput.NewSpecialEvent(keyinput.KeyEnter, keyinput.ModNone), "insert_newline")
	km.Bind(keyinput.NewSpecialEvent(keyinput.KeyBackspace, keyinput.ModNone), "delete_backward")
	km.Bind(keyinput.NewSpecialEvent(keyinput.KeyDelete, keyinput.ModNone), "delete_forward")
	km.Bind(keyinput.NewSpecialEvent(keyinput.KeyLeft, keyinput.ModNone), "move_left")
	km.Bind(keyinput.NewSpecialEvent(keyinput.KeyRight, keyinput.ModNone), "move_right")
	km.Bind(keyinput.NewSpecialEvent(keyinput.KeyUp, keyinput.ModNone), "move_up")
	km.Bind(keyinput.NewSpecialEvent(keyinput.KeyDown, keyinput.ModNone), "move_down")
	km.Bind(keyinput.NewSpecialEvent(keyinput.KeyHome, keyinput.ModNone), "move_line_start")
	km.Bind(keyinput.NewSpecialEvent(keyinput.KeyEnd, keyinput.ModNone), "move_line_end")
	km.Bind(keyinput.NewSpecialEvent(keyinput.KeyTab, keyinput.ModNone), "indent")
	km.Bind(keyinput.NewRuneEvent('z', keyinput.ModCtrl), "undo")
	km.Bind(keyinput.NewRuneEvent('y', keyinput.ModCtrl), "redo")
	km.Bind(keyinput.NewRuneEvent('s', keyinput.ModCtrl), "save")
	km.Bind(keyinput.NewRuneEvent('q', keyinput.ModCtrl), "quit")

	return km
}

// newNormalHandler builds the dispatch.Handler for the Normal context,
// closing over requestQuit so the "quit" action can stop the frame
// scheduler without this package reaching back into main's control
// flow through a global.
func newNormalHandler(requestQuit func(), warn *warning.Registry, cfg editorSettings) dispatch.HandlerFunc {
	return func(action dispatch.Action, state *editorstate.State) (editorstate.Outcome, error) {
		if r, ok := strings.CutPrefix(action.Name, selfInsertPrefix); ok {
			return insertAtCursors(state, r), nil
		}

		switch action.Name {
		case "indent":
			return insertAtCursors(state, indentText(cfg)), nil
		case "insert_newline":
			return insertAtCursors(state, "\n"), nil
		case "delete_backward":
			return deleteBackward(state), nil
		case "delete_forward":
			return deleteForward(state), nil
		case "move_left":
			moveCursor(state, -1)
		case "move_right":
			moveCursor(state, 1)
		case "move_up":
			moveCursorLine(state, -1)
		case "move_down":
			moveCursorLine(state, 1)
		case "move_line_start":
			moveToLineEdge(state, true)
		case "move_line_end":
			moveToLineEdge(state, false)
		case "undo":
			return editorstate.Outcome{Applied: state.Undo() == nil}, nil
		case "redo":
			return editorstate.Outcome{Applied: state.Redo() == nil}, nil
		case "save":
			err := state.Save()
			if err != nil {
				warn.RegisterDomain(warning.DomainGeneral, fmt.Sprintf("save %s: %v", state.Path, err))
			}
			return editorstate.Outcome{Applied: err == nil}, nil
		case "quit":
			requestQuit()
		}
		return editorstate.Outcome{}, nil
	}
}

// indentText renders one Tab keypress per the resolved editor.tabSize/
// editor.insertSpaces settings (spec §4.5's "buffer's effective config"
// driving editing behavior, not just display).
func indentText(cfg editorSettings) string {
	if !cfg.insertSpaces {
		return "\t"
	}
	n := cfg.tabSize
	if n <= 0 {
		n = 4
	}
	return strings.Repeat(" ", n)
}

func insertAtCursors(state *editorstate.State, text string) editorstate.Outcome {
	cursors := state.Cursors().All()
	primary := state.Cursors().Primary()
	ins := &eventlog.Insert{
		At:            primary.Head,
		Text:          text,
		CursorsBefore: cursors,
	}
	after := primary.Head + piecetree.ByteOffset(len(text))
	ins.CursorsAfter = shiftPrimary(cursors, after)
	return state.Execute(ins, 0)
}

func deleteBackward(state *editorstate.State) editorstate.Outcome {
	primary := state.Cursors().Primary()
	if primary.Head == 0 {
		return editorstate.Outcome{}
	}
	rng := piecetree.Range{Start: primary.Head - 1, End: primary.Head}
	del := &eventlog.Delete{
		Range:         rng,
		DeletedText:   state.Snapshot().Slice(rng.Start, rng.End),
		CursorsBefore: state.Cursors().All(),
		CursorsAfter:  shiftPrimary(state.Cursors().All(), rng.Start),
	}
	return state.Execute(del, 0)
}

func deleteForward(state *editorstate.State) editorstate.Outcome {
	primary := state.Cursors().Primary()
	end := primary.Head + 1
	if end > state.Snapshot().Len() {
		return editorstate.Outcome{}
	}
	rng := piecetree.Range{Start: primary.Head, End: end}
	del := &eventlog.Delete{
		Range:         rng,
		DeletedText:   state.Snapshot().Slice(rng.Start, rng.End),
		CursorsBefore: state.Cursors().All(),
		CursorsAfter:  shiftPrimary(state.Cursors().All(), rng.Start),
	}
	return state.Execute(del, 0)
}

func moveCursor(state *editorstate.State, delta int) {
	primary := state.Cursors().Primary()
	next := int64(primary.Head) + int64(delta)
	if next < 0 {
		next = 0
	}
	if max := int64(state.Snapshot().Len()); next > max {
		next = max
	}
	state.Cursors().SetAll(shiftPrimary(state.Cursors().All(), piecetree.ByteOffset(next)))
}

func moveCursorLine(state *editorstate.State, delta int) {
	snap := state.Snapshot()
	point := snap.OffsetToPoint(state.Cursors().Primary().Head)
	line := int64(point.Line) + int64(delta)
	if line < 0 {
		line = 0
	}
	if max := int64(snap.LineCount()) - 1; line > max {
		line = max
	}
	next := snap.PointToOffset(piecetree.Point{Line: uint32(line), Column: point.Column})
	state.Cursors().SetAll(shiftPrimary(state.Cursors().All(), next))
}

func moveToLineEdge(state *editorstate.State, start bool) {
	snap := state.Snapshot()
	line := snap.OffsetToPoint(state.Cursors().Primary().Head).Line
	var at piecetree.ByteOffset
	if start {
		at = snap.LineStartOffset(line)
	} else {
		at = snap.LineEndOffset(line)
	}
	state.Cursors().SetAll(shiftPrimary(state.Cursors().All(), at))
}

// shiftPrimary returns cursors with the primary (lowest-start)
// selection collapsed to at, leaving every other cursor untouched —
// the single-cursor-editing path the default keymap drives; multi-cursor
// edits go through Dispatcher.InsertTextAtomic instead.
func shiftPrimary(cursors []cursorset.Selection, at piecetree.ByteOffset) []cursorset.Selection {
	if len(cursors) == 0 {
		return []cursorset.Selection{{Anchor: at, Head: at}}
	}
	out := append([]cursorset.Selection(nil), cursors...)
	out[0] = cursorset.Selection{Anchor: at, Head: at}
	return out
}
