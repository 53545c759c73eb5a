// Package piecetree implements the editor's immutable-snapshot text buffer.
//
// A Snapshot is the root of a balanced tree of leaf chunks; internal nodes
// cache aggregated byte and line counts so random access and line lookup
// stay O(log n). Every mutating operation returns a new Snapshot and shares
// all untouched subtrees with its parent, which is what makes undo cheap:
// an EventLog entry can hold a Snapshot reference instead of a text copy.
package piecetree

import (
	"errors"
	"strings"
)

// ByteOffset is a byte position within a Snapshot.
type ByteOffset = uint64

// Point is a zero-indexed line/column position, in bytes.
type Point struct {
	Line   uint32
	Column uint32
}

// ErrOutOfRange is returned when an operation references a byte offset or
// range past the end of the snapshot.
var ErrOutOfRange = errors.New("piecetree: offset out of range")

// ErrOverlappingEdits is returned by ApplyBulkEdits when the supplied edits
// are not sorted by ascending start offset or overlap one another.
var ErrOverlappingEdits = errors.New("piecetree: edits overlap or are unsorted")

// Edit describes replacing the bytes in Range with Text.
type Edit struct {
	Range Range
	Text  string
}

// Range is a half-open byte range [Start, End).
type Range struct {
	Start, End ByteOffset
}

// Len returns the length of the range.
func (r Range) Len() ByteOffset { return r.End - r.Start }

// IsEmpty reports whether the range spans no bytes.
func (r Range) IsEmpty() bool { return r.Start == r.End }

// Snapshot is an immutable reference to a piece-tree root. Snapshots are
// cheap to copy (a single pointer) and safe to read from multiple
// goroutines concurrently; they are never mutated in place.
type Snapshot struct {
	root *node
}

// Empty returns the empty snapshot.
func Empty() Snapshot {
	return Snapshot{root: newLeaf(nil)}
}

// FromString builds a snapshot containing s.
func FromString(s string) Snapshot {
	if s == "" {
		return Empty()
	}
	return Snapshot{root: buildBalanced(splitChunks(s))}
}

// Len returns the number of bytes in the snapshot.
func (s Snapshot) Len() ByteOffset {
	if s.root == nil {
		return 0
	}
	return s.root.summary.Bytes
}

// IsEmpty reports whether the snapshot holds no bytes.
func (s Snapshot) IsEmpty() bool { return s.Len() == 0 }

// LineCount returns the number of lines (newline count + 1).
func (s Snapshot) LineCount() uint32 {
	if s.root == nil {
		return 1
	}
	return s.root.summary.Lines + 1
}

// String materializes the full snapshot content. Intended for small
// snapshots or tests; large buffers should use Slice or an iterator.
func (s Snapshot) String() string {
	if s.root == nil {
		return ""
	}
	var b strings.Builder
	b.Grow(int(s.Len()))
	s.root.appendTo(&b)
	return b.String()
}

// Slice returns the bytes in [start, end) as a string. Out-of-range bounds
// are clamped rather than erroring, matching Go slice-expression semantics
// for read access; mutating operations are the ones that report
// ErrOutOfRange.
func (s Snapshot) Slice(start, end ByteOffset) string {
	if s.root == nil || start >= end {
		return ""
	}
	if end > s.Len() {
		end = s.Len()
	}
	if start >= end {
		return ""
	}
	var b strings.Builder
	b.Grow(int(end - start))
	s.root.appendRange(&b, start, end)
	return b.String()
}

// Equal reports whether two snapshots contain identical bytes.
func (s Snapshot) Equal(other Snapshot) bool {
	return s.String() == other.String()
}
