// Package markertree implements stable byte-position anchors that survive
// buffer edits, plus range queries over the live set of anchors.
//
// The transformation rule each marker follows under an edit is the
// standard insertion-point rule (grounded on the same rule keystorm's
// cursor.TransformOffsetSticky applies to cursors, generalized here to
// carry an explicit per-marker bias and a stable identity): a position
// strictly before the edited range is unchanged; strictly after, it
// shifts by the edit's length delta; a position inside the edited range
// snaps to the start of the range (Before bias) or to the end of the
// replacement text (After bias).
package markertree

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// ID uniquely and stably identifies a marker across edits.
type ID string

// Bias selects where a marker lands when an edit's range swallows it.
type Bias int

const (
	// Before anchors the marker to the start of the edited range.
	Before Bias = iota
	// After anchors the marker to the end of the replacement text.
	After
)

// Edit describes a single replacement of [Range.Start, Range.End) with
// NewLen bytes of replacement text.
type Edit struct {
	Range  Range
	NewLen uint64
}

// Range is a half-open byte range.
type Range struct {
	Start, End uint64
}

func (r Range) contains(p uint64) bool { return p >= r.Start && p < r.End }

// LineAnchor optionally accompanies a marker so it can be re-located by
// content after the underlying file is reloaded from disk and line
// numbers can no longer be trusted directly.
type LineAnchor struct {
	Line       uint32
	LineHash   uint64
	Confidence float64
}

// marker is the tree's internal record for a live anchor.
type marker struct {
	id         ID
	pos        uint64
	bias       Bias
	lineAnchor *LineAnchor
}

// Tree is a collection of markers keyed by byte position. Lookup is a
// map lookup by ID; RangeQuery re-sorts the markers lazily after churn
// and binary-searches the sorted slice; OnEdit visits every marker, so
// an edit costs O(n) in the number of markers.
//
// The teacher codebase has no direct equivalent of this structure (its
// tracking package records revisions for AI-context diffing, not live
// anchors), so Tree's shape is new; its edit-transform rule reuses the
// logic in engine/cursor/transform.go, generalized from a fixed pair of
// cursor fields (anchor, head) to an arbitrary, identity-tracked set of
// markers.
type Tree struct {
	mu      sync.RWMutex
	byID    map[ID]*marker
	ordered []*marker // kept sorted by pos; rebuilt lazily on churn
	dirty   bool
}

// New creates an empty marker tree.
func New() *Tree {
	return &Tree{byID: make(map[ID]*marker)}
}

// Create adds a new marker at the given byte position and returns its ID.
func (t *Tree) Create(at uint64, bias Bias) ID {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := ID(uuid.NewString())
	m := &marker{id: id, pos: at, bias: bias}
	t.byID[id] = m
	t.ordered = append(t.ordered, m)
	t.dirty = true
	return id
}

// CreateLineAnchored adds a marker that also tracks line-anchor metadata
// for post-reload relocation.
func (t *Tree) CreateLineAnchored(at uint64, bias Bias, anchor LineAnchor) ID {
	id := t.Create(at, bias)
	t.mu.Lock()
	t.byID[id].lineAnchor = &anchor
	t.mu.Unlock()
	return id
}

// Remove deletes a marker. Removing an unknown ID is a no-op.
func (t *Tree) Remove(id ID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.byID[id]; !ok {
		return
	}
	delete(t.byID, id)
	t.dirty = true
}

// Lookup returns a marker's current byte position and bias.
func (t *Tree) Lookup(id ID) (pos uint64, bias Bias, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	m, ok := t.byID[id]
	if !ok {
		return 0, 0, false
	}
	return m.pos, m.bias, true
}

// LineAnchorOf returns the line-anchor metadata for id, if it has one.
func (t *Tree) LineAnchorOf(id ID) (LineAnchor, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	m, ok := t.byID[id]
	if !ok || m.lineAnchor == nil {
		return LineAnchor{}, false
	}
	return *m.lineAnchor, true
}

func (t *Tree) ensureSorted() {
	if !t.dirty {
		return
	}
	if len(t.ordered) > 2*len(t.byID) {
		compacted := t.ordered[:0]
		for _, m := range t.ordered {
			if _, live := t.byID[m.id]; live {
				compacted = append(compacted, m)
			}
		}
		t.ordered = compacted
	}
	sort.Slice(t.ordered, func(i, j int) bool { return t.ordered[i].pos < t.ordered[j].pos })
	t.dirty = false
}

// RangeQuery returns, in byte order, the IDs of every live marker inside
// [byteRange.Start, byteRange.End).
func (t *Tree) RangeQuery(byteRange Range) []ID {
	t.mu.Lock()
	t.ensureSorted()
	ordered := t.ordered
	t.mu.Unlock()

	lo := sort.Search(len(ordered), func(i int) bool { return ordered[i].pos >= byteRange.Start })
	var out []ID
	for i := lo; i < len(ordered); i++ {
		m := ordered[i]
		if m.pos >= byteRange.End {
			break
		}
		if _, live := t.byID[m.id]; live {
			out = append(out, m.id)
		}
	}
	return out
}

// OnEdit updates every live marker for a single edit, applying the
// insertion-point rule from spec §3. It visits every marker, including
// those strictly before the edit that need no update, so it is O(n).
func (t *Tree) OnEdit(e Edit) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delta := int64(e.NewLen) - int64(e.Range.End-e.Range.Start)
	for _, m := range t.ordered {
		m.pos = transform(m.pos, m.bias, e, delta)
	}
	t.dirty = true
}

// TransformPosition applies the standard insertion-point rule to a
// single position under one edit. It is exported so callers outside
// the tree (e.g. overlay bookkeeping) can shift positions the same way
// markers do without registering them as markers.
func TransformPosition(p uint64, bias Bias, e Edit) uint64 {
	delta := int64(e.NewLen) - int64(e.Range.End-e.Range.Start)
	return transform(p, bias, e, delta)
}

// transform applies the standard insertion-point rule to a single
// position under one edit.
func transform(p uint64, bias Bias, e Edit, delta int64) uint64 {
	switch {
	case p < e.Range.Start:
		return p
	case p > e.Range.End:
		return uint64(int64(p) + delta)
	case e.Range.contains(p) || p == e.Range.Start || p == e.Range.End:
		if bias == Before {
			return e.Range.Start
		}
		return e.Range.Start + e.NewLen
	default:
		return p
	}
}

// Len returns the number of live markers.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byID)
}
