// Package cursorset implements the multi-cursor selection set described
// by the spec: an ordered, non-overlapping collection of selections with
// a primary cursor, normalized after every mutation, and transformable
// across buffer edits.
package cursorset

import (
	"fmt"

	"github.com/freshkit/fresh/internal/piecetree"
)

// ByteOffset aliases piecetree's offset type for convenience.
type ByteOffset = piecetree.ByteOffset

// Range aliases piecetree's range type for convenience.
type Range = piecetree.Range

// Selection is a range of selected text. Anchor is where the selection
// started; Head is the current cursor position. Anchor == Head is a
// plain cursor with no extent.
type Selection struct {
	Anchor ByteOffset
	Head   ByteOffset
}

// NewCursor creates a cursor (zero-extent selection) at offset.
func NewCursor(offset ByteOffset) Selection {
	return Selection{Anchor: offset, Head: offset}
}

// NewSelection creates a selection spanning anchor to head.
func NewSelection(anchor, head ByteOffset) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// IsEmpty reports whether the selection has no extent.
func (s Selection) IsEmpty() bool { return s.Anchor == s.Head }

// Start returns the lower bound of the selection.
func (s Selection) Start() ByteOffset {
	if s.Anchor <= s.Head {
		return s.Anchor
	}
	return s.Head
}

// End returns the upper bound of the selection.
func (s Selection) End() ByteOffset {
	if s.Anchor >= s.Head {
		return s.Anchor
	}
	return s.Head
}

// Range returns the selection as a half-open range with Start <= End.
func (s Selection) Range() Range {
	return Range{Start: s.Start(), End: s.End()}
}

// Len returns the selection's extent in bytes.
func (s Selection) Len() ByteOffset { return s.End() - s.Start() }

// Collapse collapses the selection to a cursor at its head.
func (s Selection) Collapse() Selection { return Selection{Anchor: s.Head, Head: s.Head} }

// Overlaps reports whether the two selections share any byte.
func (s Selection) Overlaps(other Selection) bool {
	return s.Start() < other.End() && other.Start() < s.End()
}

// Touches reports whether the two selections overlap or are adjacent.
func (s Selection) Touches(other Selection) bool {
	return s.Start() <= other.End() && other.Start() <= s.End()
}

// Merge combines two overlapping/adjacent selections into one forward
// selection spanning both.
func (s Selection) Merge(other Selection) Selection {
	start, end := s.Start(), s.End()
	if other.Start() < start {
		start = other.Start()
	}
	if other.End() > end {
		end = other.End()
	}
	return Selection{Anchor: start, Head: end}
}

// Clamp clamps both endpoints of the selection to [0, max].
func (s Selection) Clamp(max ByteOffset) Selection {
	clamp := func(v ByteOffset) ByteOffset {
		if v > max {
			return max
		}
		return v
	}
	return Selection{Anchor: clamp(s.Anchor), Head: clamp(s.Head)}
}

// Equals reports whether two selections have the same anchor and head.
func (s Selection) Equals(other Selection) bool {
	return s.Anchor == other.Anchor && s.Head == other.Head
}

// String renders the selection for diagnostics.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Cursor(%d)", s.Head)
	}
	return fmt.Sprintf("Selection(%d->%d)", s.Anchor, s.Head)
}
