package cursorset

import "github.com/freshkit/fresh/internal/piecetree"

// Edit mirrors a piecetree edit for transform purposes.
type Edit struct {
	Range   Range
	NewText string
}

// TransformOffset moves a single offset across an edit: positions
// before the edit are unchanged, positions inside it collapse to its
// end (the cursor follows whatever was typed/pasted), positions after
// it shift by the edit's length delta.
func TransformOffset(offset ByteOffset, e Edit) ByteOffset {
	if e.Range.End <= offset {
		oldLen := e.Range.End - e.Range.Start
		return offset - oldLen + ByteOffset(len(e.NewText))
	}
	if e.Range.Start >= offset {
		return offset
	}
	return e.Range.Start + ByteOffset(len(e.NewText))
}

// TransformSelection transforms both endpoints of a selection
// independently.
func TransformSelection(sel Selection, e Edit) Selection {
	return Selection{
		Anchor: TransformOffset(sel.Anchor, e),
		Head:   TransformOffset(sel.Head, e),
	}
}

// Transform updates every selection in the set for a single edit.
func (s *Set) Transform(e Edit) {
	for i := range s.selections {
		s.selections[i] = TransformSelection(s.selections[i], e)
	}
	s.normalize()
}

// TransformMulti applies edits in the order they occurred. Each edit's
// offsets are in the buffer as it stood after the edits before it, so
// the edits are replayed forward.
func (s *Set) TransformMulti(edits []Edit) {
	for _, e := range edits {
		s.Transform(e)
	}
}

// FromPieceTreeEdit adapts a piecetree.Edit into cursorset's Edit shape.
func FromPieceTreeEdit(e piecetree.Edit) Edit {
	return Edit{Range: e.Range, NewText: e.Text}
}
