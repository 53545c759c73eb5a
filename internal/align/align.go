// Package align implements AlignmentEngine: chunk-based line alignment
// between two buffer sides for a composite (diff-review) pane, per
// spec §4.8.
//
// Grounded on keystorm's internal/engine/tracking Myers-diff
// implementation (diff.go's myersDiff/backtrackSlice edit-script
// construction) for the line-matching core, rebuilt here to emit the
// spec's Chunk/ChunkAlignment shape instead of unified-diff hunks —
// the teacher's DiffResult is hunk-oriented for patch display, while
// ChunkAlignment additionally partitions the *unchanged* runs into
// Context chunks and carries a marker pair per chunk so edits can
// retarget it (on_buffer_edit), which the teacher's diff type has no
// use for.
package align

import "github.com/freshkit/fresh/internal/markertree"

// RowType classifies one display row produced by ToDisplayRows.
type RowType uint8

const (
	Context RowType = iota
	Addition
	Deletion
	Modification
)

func (t RowType) String() string {
	switch t {
	case Context:
		return "context"
	case Addition:
		return "addition"
	case Deletion:
		return "deletion"
	case Modification:
		return "modification"
	default:
		return "unknown"
	}
}

// ChunkKind distinguishes an unchanged run from a changed hunk.
type ChunkKind uint8

const (
	KindContext ChunkKind = iota
	KindHunk
)

// LineOp is one (old_lines, new_lines) pairing inside a Hunk chunk —
// a deletion has new_lines == 0, an insertion old_lines == 0, a
// replacement both non-zero.
type LineOp struct {
	OldLines int
	NewLines int
}

// Chunk is one partition of both sides of a ChunkAlignment. For a
// Context chunk LineCount lines are identical on both sides starting
// at the chunk's markers. For a Hunk chunk, Ops lists the sequence of
// line operations the region comprises.
type Chunk struct {
	Kind       ChunkKind
	LineCount  int // valid when Kind == KindContext
	Ops        []LineOp
	OldMarker  *markertree.ID // nil if this side is empty for this chunk
	NewMarker  *markertree.ID
	OldStart   int // first old-side line index this chunk covers
	NewStart   int // first new-side line index this chunk covers
	OldLen     int // total old-side lines this chunk covers
	NewLen     int // total new-side lines this chunk covers
	Dirty      bool
}

// ChunkAlignment is the ordered partition of both sides produced by
// Align, kept current across edits by OnBufferEdit.
type ChunkAlignment struct {
	Chunks []Chunk

	oldMarkers *markertree.Tree
	newMarkers *markertree.Tree
}

// Row is one line of Align's two-sided display: a pane_lines pair
// (either side may be absent — a gap) plus the row's classification.
type Row struct {
	OldLine *int // nil denotes a gap on the old side
	NewLine *int
	Type    RowType
}
