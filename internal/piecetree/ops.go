package piecetree

import "sort"

// Insert returns a snapshot with text inserted at the given byte offset.
// Insert fails with ErrOutOfRange if at > s.Len().
func (s Snapshot) Insert(at ByteOffset, text string) (Snapshot, error) {
	if at > s.Len() {
		return s, ErrOutOfRange
	}
	if text == "" {
		return s, nil
	}
	if s.root == nil || s.Len() == 0 {
		return FromString(text), nil
	}
	left, right := s.root.split(at)
	return Snapshot{root: concat(concat(left, buildBalanced(splitChunks(text))), right)}, nil
}

// Delete returns a snapshot with the bytes in [r.Start, r.End) removed.
// Delete fails with ErrOutOfRange if r.End > s.Len() or r.Start > r.End.
func (s Snapshot) Delete(r Range) (Snapshot, error) {
	if r.Start > r.End || r.End > s.Len() {
		return s, ErrOutOfRange
	}
	if r.IsEmpty() {
		return s, nil
	}
	if s.root == nil {
		return s, nil
	}
	left, rest := s.root.split(r.Start)
	_, right := rest.split(r.End - r.Start)
	return Snapshot{root: concat(left, right)}, nil
}

// Replace returns a snapshot with the bytes in r replaced by text. It is
// equivalent to Delete followed by Insert, and shares that path's error
// behavior.
func (s Snapshot) Replace(r Range, text string) (Snapshot, error) {
	deleted, err := s.Delete(r)
	if err != nil {
		return s, err
	}
	return deleted.Insert(r.Start, text)
}

// ApplyBulkEdits applies a pre-sorted, non-overlapping list of edits to s
// in a single pass and returns the resulting snapshot. edits must be
// sorted by ascending Range.Start; ApplyBulkEdits fails with
// ErrOverlappingEdits if that invariant doesn't hold, and with
// ErrOutOfRange if any edit's range exceeds the snapshot's length.
//
// Edits are applied left to right against s's original offsets: the
// span before each edit is sliced out of s by two splits from the root
// and concatenated with the edit's text. The tree is not walked in one
// single traversal; each edit costs its own splits.
func (s Snapshot) ApplyBulkEdits(edits []Edit) (Snapshot, error) {
	if len(edits) == 0 {
		return s, nil
	}
	if !sort.SliceIsSorted(edits, func(i, j int) bool { return edits[i].Range.Start < edits[j].Range.Start }) {
		return s, ErrOverlappingEdits
	}
	limit := s.Len()
	for i, e := range edits {
		if e.Range.Start > e.Range.End || e.Range.End > limit {
			return s, ErrOutOfRange
		}
		if i > 0 && e.Range.Start < edits[i-1].Range.End {
			return s, ErrOverlappingEdits
		}
	}

	result := newLeafString("")
	cursor := ByteOffset(0)
	for _, e := range edits {
		before := s.root.sliceNode(cursor, e.Range.Start)
		result = concat(result, before)
		if e.Text != "" {
			result = concat(result, buildBalanced(splitChunks(e.Text)))
		}
		cursor = e.Range.End
	}
	tail := s.root.sliceNode(cursor, limit)
	result = concat(result, tail)
	return Snapshot{root: result}, nil
}

// sliceNode extracts [start,end) as a standalone subtree via two splits,
// sharing structure with n wherever possible.
func (n *node) sliceNode(start, end ByteOffset) *node {
	if start >= end {
		return newLeafString("")
	}
	_, rest := n.split(start)
	left, _ := rest.split(end - start)
	return left
}
