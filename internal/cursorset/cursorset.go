package cursorset

import "sort"

// Set manages an editor's live cursors/selections. Selections are kept
// sorted by start position with overlaps merged, and the first
// selection is the primary one.
type Set struct {
	selections []Selection
}

// New creates a set with a single cursor at offset 0.
func New() *Set {
	return &Set{selections: []Selection{NewCursor(0)}}
}

// NewAt creates a set with a single cursor at offset.
func NewAt(offset ByteOffset) *Set {
	return &Set{selections: []Selection{NewCursor(offset)}}
}

// NewFromSlice creates a normalized set from an arbitrary slice of
// selections (e.g. one per multi-cursor click).
func NewFromSlice(sels []Selection) *Set {
	if len(sels) == 0 {
		return New()
	}
	s := &Set{selections: append([]Selection(nil), sels...)}
	s.normalize()
	return s
}

// Primary returns the first (primary) selection.
func (s *Set) Primary() Selection {
	if len(s.selections) == 0 {
		return Selection{}
	}
	return s.selections[0]
}

// All returns a copy of the live selections, in byte order.
func (s *Set) All() []Selection {
	out := make([]Selection, len(s.selections))
	copy(out, s.selections)
	return out
}

// Count returns the number of live selections.
func (s *Set) Count() int { return len(s.selections) }

// IsMulti reports whether more than one cursor is active.
func (s *Set) IsMulti() bool { return len(s.selections) > 1 }

// SetAll replaces every selection, normalizing the result.
func (s *Set) SetAll(sels []Selection) {
	if len(sels) == 0 {
		s.selections = []Selection{NewCursor(0)}
		return
	}
	s.selections = append([]Selection(nil), sels...)
	s.normalize()
}

// Add appends a new selection, merging it with any it overlaps.
func (s *Set) Add(sel Selection) {
	s.selections = append(s.selections, sel)
	s.normalize()
}

// CollapseAll collapses every selection to a cursor at its head.
func (s *Set) CollapseAll() {
	for i, sel := range s.selections {
		s.selections[i] = sel.Collapse()
	}
	s.normalize()
}

// Clamp clamps every selection to [0, max], e.g. after a reload shrinks
// the buffer.
func (s *Set) Clamp(max ByteOffset) {
	for i, sel := range s.selections {
		s.selections[i] = sel.Clamp(max)
	}
	s.normalize()
}

// Ranges returns every selection's range, including empty ones.
func (s *Set) Ranges() []Range {
	out := make([]Range, len(s.selections))
	for i, sel := range s.selections {
		out[i] = sel.Range()
	}
	return out
}

// Clone deep-copies the set.
func (s *Set) Clone() *Set {
	return &Set{selections: append([]Selection(nil), s.selections...)}
}

// Equals reports whether two sets hold the same selections in order.
func (s *Set) Equals(other *Set) bool {
	if other == nil || len(s.selections) != len(other.selections) {
		return false
	}
	for i, sel := range s.selections {
		if !sel.Equals(other.selections[i]) {
			return false
		}
	}
	return true
}

// normalize sorts selections by start (descending extent on ties) and
// merges overlapping or touching ones.
func (s *Set) normalize() {
	if len(s.selections) <= 1 {
		return
	}
	sort.Slice(s.selections, func(i, j int) bool {
		si, sj := s.selections[i].Start(), s.selections[j].Start()
		if si != sj {
			return si < sj
		}
		return s.selections[i].End() > s.selections[j].End()
	})
	merged := s.selections[:1]
	for _, sel := range s.selections[1:] {
		last := &merged[len(merged)-1]
		if sel.Start() <= last.End() {
			*last = last.Merge(sel)
		} else {
			merged = append(merged, sel)
		}
	}
	s.selections = merged
}
