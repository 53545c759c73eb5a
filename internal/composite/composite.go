// Package composite implements CompositeBuffer: a diff-review session
// over two EditorStates, their ChunkAlignment, a focused-pane index,
// and a unified scroll_display_row, per spec §3/§4.8.
//
// Grounded on editorstate.State for the pane type itself and on
// SPEC_FULL.md's explicit Resync supplement: spec §4.8 says
// on_buffer_edit marks Hunk chunks dirty and "downstream rendering
// must re-diff dirty chunks before use" without naming that rendering
// step; Resync is that step, scoped here rather than left implicit so
// dirty=true has an actual caller.
package composite

import (
	"github.com/freshkit/fresh/internal/align"
	"github.com/freshkit/fresh/internal/editorstate"
	"github.com/freshkit/fresh/internal/markertree"
	"github.com/freshkit/fresh/internal/piecetree"
)

// Buffer is a diff-review session: two panes, their alignment, which
// pane currently has focus, and the context-line threshold future
// Resync calls should use.
type Buffer struct {
	Panes           [2]*editorstate.State
	Alignment       *align.ChunkAlignment
	FocusedPane     int
	ContextThreshold int

	oldMarkers *markertree.Tree
	newMarkers *markertree.Tree
}

// New creates a Buffer over old/new, computing their initial
// alignment immediately.
func New(old, new *editorstate.State, contextThreshold int) *Buffer {
	oldMarkers := markertree.New()
	newMarkers := markertree.New()

	b := &Buffer{
		Panes:            [2]*editorstate.State{old, new},
		ContextThreshold: contextThreshold,
		oldMarkers:       oldMarkers,
		newMarkers:       newMarkers,
	}
	b.Alignment = align.Align(
		sideOf(old, oldMarkers),
		sideOf(new, newMarkers),
		contextThreshold,
	)
	return b
}

func sideOf(pane *editorstate.State, markers *markertree.Tree) align.Side {
	snap := pane.Snapshot()
	n := snap.LineCount()

	lines := make([]string, n)
	offsets := make([]int, n+1)
	for i := uint32(0); i < n; i++ {
		lines[i] = snap.LineText(i)
		offsets[i] = int(snap.LineStartOffset(i))
	}
	offsets[n] = int(snap.Len())

	return align.Side{Lines: lines, Offsets: offsets, Markers: markers}
}

// OldPane and NewPane name Panes[0]/Panes[1] for callers that find the
// diff-specific vocabulary clearer than an array index.
func (b *Buffer) OldPane() *editorstate.State { return b.Panes[0] }
func (b *Buffer) NewPane() *editorstate.State { return b.Panes[1] }

// FocusPane switches which pane is focused (0 or 1); out-of-range
// indices are ignored.
func (b *Buffer) FocusPane(idx int) {
	if idx == 0 || idx == 1 {
		b.FocusedPane = idx
	}
}

// OnBufferEdit relays pane idx's edit into the alignment, marking
// whichever chunk contains it dirty (or growing a Context chunk's
// line count), per spec §4.8.
func (b *Buffer) OnBufferEdit(paneIdx, editLine, linesDelta int) {
	align.OnBufferEdit(b.Alignment, paneIdx == 0, editLine, linesDelta)
}

// Resync re-diffs every chunk marked dirty, splicing the result back
// into the alignment in place. Chunks that were never invalidated by
// OnBufferEdit are left untouched rather than recomputed wholesale, so
// a small edit does not pay for re-diffing the entire file.
func (b *Buffer) Resync() {
	if !b.hasDirtyChunk() {
		return
	}

	var rebuilt []align.Chunk
	for _, c := range b.Alignment.Chunks {
		if c.Kind != align.KindHunk || !c.Dirty {
			rebuilt = append(rebuilt, c)
			continue
		}
		rebuilt = append(rebuilt, b.rediffChunk(c)...)
	}
	b.Alignment.Chunks = rebuilt
}

func (b *Buffer) hasDirtyChunk() bool {
	for _, c := range b.Alignment.Chunks {
		if c.Dirty {
			return true
		}
	}
	return false
}

// rediffChunk re-runs Align over exactly the byte span c covered on
// each side, using the panes' current content, and returns the
// replacement chunk(s).
func (b *Buffer) rediffChunk(c align.Chunk) []align.Chunk {
	oldSnap := b.Panes[0].Snapshot()
	newSnap := b.Panes[1].Snapshot()

	oldLines, oldOffsets := linesInSpan(oldSnap, c.OldStart, c.OldLen)
	newLines, newOffsets := linesInSpan(newSnap, c.NewStart, c.NewLen)

	sub := align.Align(
		align.Side{Lines: oldLines, Offsets: oldOffsets, Markers: b.oldMarkers},
		align.Side{Lines: newLines, Offsets: newOffsets, Markers: b.newMarkers},
		b.ContextThreshold,
	)
	for i := range sub.Chunks {
		sub.Chunks[i].OldStart += c.OldStart
		sub.Chunks[i].NewStart += c.NewStart
	}
	return sub.Chunks
}

// linesInSpan returns the text of lines [start, start+count) from snap
// along with their absolute byte offsets (length count+1, so the
// trailing entry marks the end of the span), so markers placed during
// a re-diff still land at real buffer positions.
func linesInSpan(snap piecetree.Snapshot, start, count int) ([]string, []int) {
	lines := make([]string, count)
	offsets := make([]int, count+1)
	for i := 0; i < count; i++ {
		lines[i] = snap.LineText(uint32(start + i))
		offsets[i] = int(snap.LineStartOffset(uint32(start + i)))
	}
	if count > 0 {
		offsets[count] = int(snap.LineEndOffset(uint32(start + count - 1)))
	}
	return lines, offsets
}

// ScrollDisplayRow returns the unified display row index for a given
// pane/line pair — the position in ToDisplayRows' output where that
// line appears, giving both panes one shared scroll coordinate space
// instead of each tracking its own, per spec §3's "unified
// scroll_display_row."
func (b *Buffer) ScrollDisplayRow(paneIdx, line int) (int, bool) {
	rows := align.ToDisplayRows(b.Alignment)
	for i, r := range rows {
		ptr := r.OldLine
		if paneIdx == 1 {
			ptr = r.NewLine
		}
		if ptr != nil && *ptr == line {
			return i, true
		}
	}
	return 0, false
}
