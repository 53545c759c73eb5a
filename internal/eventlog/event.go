// Package eventlog implements the append-only edit log that backs
// undo/redo: Insert, Delete, Batch, and BulkEdit events, applied to and
// reversed against a PieceTree snapshot and cursor set.
package eventlog

import (
	"github.com/freshkit/fresh/internal/cursorset"
	"github.com/freshkit/fresh/internal/piecetree"
)

// Event is a reversible edit. Apply and Invert both return a new
// snapshot/cursor pair rather than mutating in place, mirroring
// PieceTree's own immutable-snapshot design.
type Event interface {
	Apply(snap piecetree.Snapshot, cursors *cursorset.Set) (piecetree.Snapshot, *cursorset.Set, error)
	Invert() Event
	Description() string
}

// Insert inserts Text at a single offset.
type Insert struct {
	At            piecetree.ByteOffset
	Text          string
	CursorsBefore []cursorset.Selection
	CursorsAfter  []cursorset.Selection
}

// Apply performs the insertion and advances cursors to follow it.
func (e *Insert) Apply(snap piecetree.Snapshot, cursors *cursorset.Set) (piecetree.Snapshot, *cursorset.Set, error) {
	next, err := snap.Insert(e.At, e.Text)
	if err != nil {
		return snap, cursors, err
	}
	cursors.SetAll(e.CursorsAfter)
	return next, cursors, nil
}

// Invert returns the Delete that undoes this insertion.
func (e *Insert) Invert() Event {
	return &Delete{
		Range:         piecetree.Range{Start: e.At, End: e.At + piecetree.ByteOffset(len(e.Text))},
		DeletedText:   e.Text,
		CursorsBefore: e.CursorsAfter,
		CursorsAfter:  e.CursorsBefore,
	}
}

// Description renders a short undo-stack label.
func (e *Insert) Description() string { return describeInsert(e.Text) }

// Delete removes the text in Range.
type Delete struct {
	Range         piecetree.Range
	DeletedText   string
	CursorsBefore []cursorset.Selection
	CursorsAfter  []cursorset.Selection
}

// Apply performs the deletion and restores cursors to the post-delete
// positions recorded when the delete was first constructed.
func (e *Delete) Apply(snap piecetree.Snapshot, cursors *cursorset.Set) (piecetree.Snapshot, *cursorset.Set, error) {
	next, err := snap.Delete(e.Range)
	if err != nil {
		return snap, cursors, err
	}
	cursors.SetAll(e.CursorsAfter)
	return next, cursors, nil
}

// Invert returns the Insert that undoes this deletion.
func (e *Delete) Invert() Event {
	return &Insert{
		At:            e.Range.Start,
		Text:          e.DeletedText,
		CursorsBefore: e.CursorsAfter,
		CursorsAfter:  e.CursorsBefore,
	}
}

// Description renders a short undo-stack label.
func (e *Delete) Description() string { return describeDelete(e.Range.Len()) }

// Batch groups several events applied sequentially, undone/redone
// atomically in reverse/forward order.
type Batch struct {
	Events []Event
	Label  string
}

// Apply runs every sub-event in order, stopping (without partial
// rollback — the caller's undo stack already atomically owns this
// batch) on the first error.
func (e *Batch) Apply(snap piecetree.Snapshot, cursors *cursorset.Set) (piecetree.Snapshot, *cursorset.Set, error) {
	cur := snap
	var err error
	for _, sub := range e.Events {
		cur, cursors, err = sub.Apply(cur, cursors)
		if err != nil {
			return cur, cursors, err
		}
	}
	return cur, cursors, nil
}

// Invert returns a Batch of the inverted sub-events in reverse order.
func (e *Batch) Invert() Event {
	inverted := make([]Event, len(e.Events))
	for i, sub := range e.Events {
		inverted[len(e.Events)-1-i] = sub.Invert()
	}
	return &Batch{Events: inverted, Label: e.Label}
}

// Description returns the batch's label, or a generic fallback.
func (e *Batch) Description() string {
	if e.Label != "" {
		return e.Label
	}
	if len(e.Events) == 1 {
		return e.Events[0].Description()
	}
	return "Multiple edits"
}

// BulkEdit is an atomic snapshot replacement: undo/redo just swap
// snapshot references (O(1)) rather than replaying sub-edits.
type BulkEdit struct {
	OldSnapshot piecetree.Snapshot
	OldCursors  []cursorset.Selection
	NewSnapshot piecetree.Snapshot
	NewCursors  []cursorset.Selection
	Label       string
}

// Apply discards snap and substitutes NewSnapshot directly.
func (e *BulkEdit) Apply(snap piecetree.Snapshot, cursors *cursorset.Set) (piecetree.Snapshot, *cursorset.Set, error) {
	cursors.SetAll(e.NewCursors)
	return e.NewSnapshot, cursors, nil
}

// Invert swaps old and new snapshot references.
func (e *BulkEdit) Invert() Event {
	return &BulkEdit{
		OldSnapshot: e.NewSnapshot,
		OldCursors:  e.NewCursors,
		NewSnapshot: e.OldSnapshot,
		NewCursors:  e.OldCursors,
		Label:       e.Label,
	}
}

// Description returns the bulk edit's label, or a generic fallback.
func (e *BulkEdit) Description() string {
	if e.Label != "" {
		return e.Label
	}
	return "Bulk edit"
}
