package dispatch

import (
	"sort"

	"github.com/freshkit/fresh/internal/cursorset"
	"github.com/freshkit/fresh/internal/editorstate"
	"github.com/freshkit/fresh/internal/eventlog"
	"github.com/freshkit/fresh/internal/piecetree"
)

// InsertTextAtomic applies text at every active cursor as a single
// undo step — clipboard paste, terminal bracketed-paste, and flushed
// burst-coalesced typing all go through here per spec §4.7. Calling
// this bypasses per-character handlers entirely (it talks to
// EditorState directly, not through Dispatch), which is what gives it
// the "no auto-close of delimiters" property: there is no per-char
// Handle call for the inserted text to trigger one.
func (d *Dispatcher) InsertTextAtomic(text, description, source string) editorstate.Outcome {
	cursors := d.state.Cursors().All()
	if len(cursors) <= 1 {
		at := piecetree.ByteOffset(0)
		if len(cursors) == 1 {
			at = cursors[0].Head
		}
		after := []cursorset.Selection{cursorset.NewCursor(at + piecetree.ByteOffset(len(text)))}
		ins := &eventlog.Insert{At: at, Text: text, CursorsBefore: cursors, CursorsAfter: after}
		return d.state.Execute(ins, -1)
	}
	return d.insertAtEveryCursor(text, cursors, description)
}

// insertAtEveryCursor builds one BulkEdit inserting text at each
// cursor position, ascending by offset as ApplyBulkEdits requires, and
// applies it as a single snapshot swap so one undo reverses every
// insertion together (spec §8 scenario 1's multi-cursor shape, reused
// here for the paste-at-every-cursor case).
func (d *Dispatcher) insertAtEveryCursor(text string, cursors []cursorset.Selection, description string) editorstate.Outcome {
	positions := make([]piecetree.ByteOffset, len(cursors))
	for i, c := range cursors {
		positions[i] = c.Head
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i] < positions[j] })

	edits := make([]piecetree.Edit, len(positions))
	for i, at := range positions {
		edits[i] = piecetree.Edit{Range: piecetree.Range{Start: at, End: at}, Text: text}
	}

	old := d.state.Snapshot()
	next, err := old.ApplyBulkEdits(edits)
	if err != nil {
		return editorstate.Outcome{Applied: false, Err: err}
	}

	after := make([]cursorset.Selection, len(positions))
	delta := piecetree.ByteOffset(0)
	for i, at := range positions {
		newPos := at + delta + piecetree.ByteOffset(len(text))
		after[i] = cursorset.NewCursor(newPos)
		delta += piecetree.ByteOffset(len(text))
	}

	bulk := &eventlog.BulkEdit{
		OldSnapshot: old,
		NewSnapshot: next,
		OldCursors:  cursors,
		NewCursors:  after,
		Label:       description,
	}
	return d.state.Execute(bulk, -1)
}
