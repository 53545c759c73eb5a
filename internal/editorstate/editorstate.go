// Package editorstate implements EditorState: the owner of one buffer's
// PieceTree snapshot, cursor set, event log, overlays, viewport, and
// dirty flags. It is the spec's single mutation boundary — every edit,
// external or dispatcher-originated, goes through Execute or
// ApplyExternalEdit so undo/redo and overlay bookkeeping stay uniform.
package editorstate

import (
	"os"
	"time"

	"github.com/freshkit/fresh/internal/clock"
	"github.com/freshkit/fresh/internal/cursorset"
	"github.com/freshkit/fresh/internal/eventlog"
	"github.com/freshkit/fresh/internal/markertree"
	"github.com/freshkit/fresh/internal/piecetree"
)

// DirtyFlags tracks which derived views need recomputing after an edit.
type DirtyFlags struct {
	Content bool
	Syntax  bool
	Layout  bool
}

// Viewport is the visible window into the buffer.
type Viewport struct {
	TopByte piecetree.ByteOffset
	LeftCol uint32
	Rows    uint32
	Cols    uint32
}

// Overlay is a decoration keyed by range and category (diagnostics,
// selections-from-other-cursors, search highlights, etc).
type Overlay struct {
	ID       markertree.ID
	Range    piecetree.Range
	Category string
	Data     any
}

// Outcome reports what Execute actually did, for the dispatcher to
// relay to status bars / LSP-change notifications.
type Outcome struct {
	Applied    bool
	Err        error
	BytesDelta int64
}

// ViewData is the read-only slice of state needed to paint one
// viewport: the visible text plus whatever overlays intersect it.
type ViewData struct {
	Lines    []string
	Overlays []Overlay
	Cursors  []cursorset.Selection
}

// State is one open buffer's full editing state.
type State struct {
	Path string

	snapshot piecetree.Snapshot
	cursors  *cursorset.Set
	log      *eventlog.Log
	markers  *markertree.Tree
	overlays []Overlay
	viewport Viewport
	dirty    DirtyFlags

	clock clock.Source
}

// New creates an EditorState over an initial snapshot.
func New(path string, initial piecetree.Snapshot, src clock.Source) *State {
	if src == nil {
		src = clock.System{}
	}
	return &State{
		Path:     path,
		snapshot: initial,
		cursors:  cursorset.New(),
		log:      eventlog.New(src, 1000, eventlog.CoalesceWindow),
		markers:  markertree.New(),
		clock:    src,
		dirty:    DirtyFlags{Content: true, Syntax: true, Layout: true},
	}
}

// Open creates an EditorState by reading path from disk.
func Open(path string, src clock.Source) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(path, piecetree.FromString(string(data)), src), nil
}

// Snapshot returns the buffer's current immutable content snapshot.
func (s *State) Snapshot() piecetree.Snapshot { return s.snapshot }

// Cursors returns the live cursor set.
func (s *State) Cursors() *cursorset.Set { return s.cursors }

// Markers returns the marker tree for this buffer.
func (s *State) Markers() *markertree.Tree { return s.markers }

// Dirty returns the current dirty flags.
func (s *State) Dirty() DirtyFlags { return s.dirty }

// ClearDirty resets all dirty flags after a repaint.
func (s *State) ClearDirty() { s.dirty = DirtyFlags{} }

// SetViewport updates the visible window.
func (s *State) SetViewport(v Viewport) { s.viewport = v }

// Execute applies ev to the buffer, pushes it (or coalesces it) onto
// the undo log, normalizes cursors, and updates overlays/dirty flags.
// cursorID identifies the originating cursor for the coalescing rule;
// pass a negative value for edits with no single originating cursor
// (bulk edits, external edits).
func (s *State) Execute(ev eventlog.Event, cursorID int) Outcome {
	before := s.snapshot.Len()
	next, cursors, err := ev.Apply(s.snapshot, s.cursors)
	if err != nil {
		return Outcome{Applied: false, Err: err}
	}
	s.applyMarkerEffectsAndOverlays(ev)

	s.snapshot = next
	s.cursors = cursors
	s.cursors.Clamp(s.snapshot.Len())
	s.log.Push(ev, cursorID)
	s.markDirty()

	return Outcome{Applied: true, BytesDelta: int64(s.snapshot.Len()) - int64(before)}
}

// ApplyExternalEdit applies an edit originating outside the dispatcher
// (LSP rename, formatter) through the same log so undo/redo remains
// uniform, per spec §4.4.
func (s *State) ApplyExternalEdit(ev eventlog.Event) Outcome {
	return s.Execute(ev, -1)
}

// Undo reverts the most recent undo entry.
func (s *State) Undo() error {
	ev, err := s.log.PopUndo()
	if err != nil {
		return err
	}
	next, cursors, err := ev.Invert().Apply(s.snapshot, s.cursors)
	if err != nil {
		return err
	}
	s.snapshot, s.cursors = next, cursors
	s.markDirty()
	return nil
}

// Redo re-applies the most recently undone entry.
func (s *State) Redo() error {
	ev, err := s.log.PopRedo()
	if err != nil {
		return err
	}
	next, cursors, err := ev.Apply(s.snapshot, s.cursors)
	if err != nil {
		return err
	}
	s.snapshot, s.cursors = next, cursors
	s.markDirty()
	return nil
}

// ReadViewport returns the visible lines and intersecting overlays for
// the given viewport without mutating state.
func (s *State) ReadViewport(v Viewport) ViewData {
	lineCount := s.snapshot.LineCount()
	startLine := s.snapshot.OffsetToPoint(v.TopByte).Line
	endLine := startLine + v.Rows
	if endLine > lineCount {
		endLine = lineCount
	}

	lines := make([]string, 0, endLine-startLine)
	for l := startLine; l < endLine; l++ {
		lines = append(lines, s.snapshot.LineText(l))
	}

	visStart := s.snapshot.LineStartOffset(startLine)
	visEnd := s.snapshot.LineEndOffset(endLine)
	var visible []Overlay
	for _, o := range s.overlays {
		if o.Range.Start < visEnd && o.Range.End > visStart {
			visible = append(visible, o)
		}
	}

	return ViewData{Lines: lines, Overlays: visible, Cursors: s.cursors.All()}
}

// Save writes the current snapshot to Path.
func (s *State) Save() error {
	return os.WriteFile(s.Path, []byte(s.snapshot.String()), 0o644)
}

// AddOverlay registers a new decoration tracked by a marker at its
// range's start, so it moves correctly under future edits.
func (s *State) AddOverlay(r piecetree.Range, category string, data any) markertree.ID {
	id := s.markers.Create(r.Start, markertree.Before)
	s.overlays = append(s.overlays, Overlay{ID: id, Range: r, Category: category, Data: data})
	return id
}

// applyMarkerEffectsAndOverlays updates the marker tree for ev's net
// edit(s) and drops/shifts overlays per spec §4.4's rule: overlays
// wholly inside a deleted span are removed; others shift like markers.
func (s *State) applyMarkerEffectsAndOverlays(ev eventlog.Event) {
	for _, e := range flattenToMarkerEdits(ev) {
		s.markers.OnEdit(e)

		kept := s.overlays[:0]
		for _, o := range s.overlays {
			if e.Range.Start != e.Range.End && o.Range.Start >= e.Range.Start && o.Range.End <= e.Range.End {
				continue // wholly swallowed by the edit
			}
			o.Range.Start = markertree.TransformPosition(o.Range.Start, markertree.Before, e)
			o.Range.End = markertree.TransformPosition(o.Range.End, markertree.After, e)
			kept = append(kept, o)
		}
		s.overlays = kept
	}
}

// flattenToMarkerEdits reduces an Event to the sequence of byte-range
// replacements it performs, in application order, so markers and
// overlays can be transformed the same way the buffer itself was.
func flattenToMarkerEdits(ev eventlog.Event) []markertree.Edit {
	switch e := ev.(type) {
	case *eventlog.Insert:
		return []markertree.Edit{{Range: markertree.Range{Start: e.At, End: e.At}, NewLen: uint64(len(e.Text))}}
	case *eventlog.Delete:
		return []markertree.Edit{{Range: markertree.Range{Start: e.Range.Start, End: e.Range.End}, NewLen: 0}}
	case *eventlog.Batch:
		var out []markertree.Edit
		for _, sub := range e.Events {
			out = append(out, flattenToMarkerEdits(sub)...)
		}
		return out
	case *eventlog.BulkEdit:
		// A BulkEdit swaps the whole snapshot; markers/overlays cannot
		// be transformed incrementally against it, so they are left as
		// recorded — a complete implementation would instead diff old
		// and new snapshots, which is AlignmentEngine's job, not
		// EditorState's.
		return nil
	default:
		return nil
	}
}

func (s *State) markDirty() {
	s.dirty = DirtyFlags{Content: true, Syntax: true, Layout: true}
}

// now is a small convenience so callers needing a timestamp for a new
// event (e.g. the dispatcher, when constructing an Insert) share the
// state's TimeSource rather than calling time.Now directly.
func (s *State) now() time.Time { return s.clock.Now() }
