package align

import "github.com/freshkit/fresh/internal/markertree"

// Side is one pane's input to Align: its lines, the byte offset of
// the start of each line (Offsets[i] for line i; Offsets[len(Lines)]
// is the offset just past the last line, for placing an end-of-buffer
// marker), and the marker tree chunk markers should be created in.
// Markers is optional — pass nil to compute an alignment without
// placing markers (e.g. a dry-run preview).
type Side struct {
	Lines   []string
	Offsets []int
	Markers *markertree.Tree
}

func (s Side) offsetOf(line int) uint64 {
	if s.Offsets == nil || line >= len(s.Offsets) {
		return 0
	}
	return uint64(s.Offsets[line])
}

// DefaultContextThreshold is the minimum length an unchanged run must reach
// to become its own Context chunk; shorter unchanged runs are folded
// into the surrounding Hunk as an equal-count LineOp instead, per
// spec §4.8.
const DefaultContextThreshold = 1

type segmentKind uint8

const (
	segEqual segmentKind = iota
	segChange
)

type segment struct {
	kind           segmentKind
	oldStart, oldLen int
	newStart, newLen int
}

func segments(ops []editOp) []segment {
	var segs []segment
	for _, op := range ops {
		var kind segmentKind
		switch op.kind {
		case opEqual:
			kind = segEqual
		default:
			kind = segChange
		}
		if len(segs) > 0 && segs[len(segs)-1].kind == kind {
			last := &segs[len(segs)-1]
			switch op.kind {
			case opEqual:
				last.oldLen++
				last.newLen++
			case opDelete:
				last.oldLen++
			case opInsert:
				last.newLen++
			}
			continue
		}
		// ops cover both sides in order, so a new segment starts on each
		// side exactly where the previous one ended.
		s := segment{kind: kind}
		if len(segs) > 0 {
			prev := segs[len(segs)-1]
			s.oldStart, s.newStart = prev.oldStart+prev.oldLen, prev.newStart+prev.newLen
		}
		switch op.kind {
		case opEqual:
			s.oldLen, s.newLen = 1, 1
		case opDelete:
			s.oldLen = 1
		case opInsert:
			s.newLen = 1
		}
		segs = append(segs, s)
	}
	return segs
}

// Align computes a ChunkAlignment between old and new, per spec §4.8:
// unchanged runs of at least contextThreshold lines become Context
// chunks; every contiguous region of deletions/insertions/replacements
// (including unchanged runs too short to stand alone) becomes a Hunk.
func Align(old, new Side, contextThreshold int) *ChunkAlignment {
	if contextThreshold < 1 {
		contextThreshold = DefaultContextThreshold
	}
	ops := myersDiff(old.Lines, new.Lines)
	segs := segments(ops)

	align := &ChunkAlignment{oldMarkers: old.Markers, newMarkers: new.Markers}

	var pending *Chunk
	flush := func() {
		if pending != nil {
			align.Chunks = append(align.Chunks, *pending)
			pending = nil
		}
	}

	for _, s := range segs {
		if s.kind == segEqual && s.oldLen >= contextThreshold {
			flush()
			align.Chunks = append(align.Chunks, newContextChunk(old, new, s))
			continue
		}
		if pending == nil {
			c := newHunkChunk(old, new, s)
			pending = &c
			continue
		}
		extendHunkChunk(pending, old, new, s)
	}
	flush()

	return align
}

func newContextChunk(old, new Side, s segment) Chunk {
	c := Chunk{
		Kind:      KindContext,
		LineCount: s.oldLen,
		OldStart:  s.oldStart,
		NewStart:  s.newStart,
		OldLen:    s.oldLen,
		NewLen:    s.newLen,
	}
	placeMarkers(&c, old, new)
	return c
}

func newHunkChunk(old, new Side, s segment) Chunk {
	c := Chunk{
		Kind:     KindHunk,
		Ops:      []LineOp{{OldLines: s.oldLen, NewLines: s.newLen}},
		OldStart: s.oldStart,
		NewStart: s.newStart,
		OldLen:   s.oldLen,
		NewLen:   s.newLen,
	}
	placeMarkers(&c, old, new)
	return c
}

func extendHunkChunk(c *Chunk, old, new Side, s segment) {
	c.Ops = append(c.Ops, LineOp{OldLines: s.oldLen, NewLines: s.newLen})
	c.OldLen += s.oldLen
	c.NewLen += s.newLen
}

func placeMarkers(c *Chunk, old, new Side) {
	if old.Markers != nil && c.OldLen > 0 {
		id := old.Markers.Create(old.offsetOf(c.OldStart), markertree.Before)
		c.OldMarker = &id
	}
	if new.Markers != nil && c.NewLen > 0 {
		id := new.Markers.Create(new.offsetOf(c.NewStart), markertree.Before)
		c.NewMarker = &id
	}
}

// ToDisplayRows expands a ChunkAlignment's chunks into per-line rows
// suitable for side-by-side rendering: Context chunks expand to one
// row per line, Hunk chunks expand each LineOp into rows covering
// max(OldLines,NewLines) lines, with a gap (nil) on whichever side ran
// out first.
func ToDisplayRows(a *ChunkAlignment) []Row {
	var rows []Row
	for _, c := range a.Chunks {
		switch c.Kind {
		case KindContext:
			for i := 0; i < c.LineCount; i++ {
				o, n := c.OldStart+i, c.NewStart+i
				rows = append(rows, Row{OldLine: intPtr(o), NewLine: intPtr(n), Type: Context})
			}
		case KindHunk:
			oldAt, newAt := c.OldStart, c.NewStart
			for _, op := range c.Ops {
				rowType := classify(op)
				n := op.OldLines
				if op.NewLines > n {
					n = op.NewLines
				}
				for i := 0; i < n; i++ {
					var o, nn *int
					if i < op.OldLines {
						o = intPtr(oldAt + i)
					}
					if i < op.NewLines {
						nn = intPtr(newAt + i)
					}
					rows = append(rows, Row{OldLine: o, NewLine: nn, Type: rowType})
				}
				oldAt += op.OldLines
				newAt += op.NewLines
			}
		}
	}
	return rows
}

func classify(op LineOp) RowType {
	switch {
	case op.OldLines == 0:
		return Addition
	case op.NewLines == 0:
		return Deletion
	default:
		return Modification
	}
}

func intPtr(v int) *int { return &v }

// OnBufferEdit reacts to an edit on one pane: Context chunks
// containing the edited line have their LineCount adjusted by
// linesDelta; Hunk chunks containing it are marked Dirty so the
// caller re-diffs before the next ToDisplayRows call, per spec §4.8.
func OnBufferEdit(a *ChunkAlignment, paneIsOld bool, editLine, linesDelta int) {
	for i := range a.Chunks {
		c := &a.Chunks[i]
		start, length := c.OldStart, c.OldLen
		if !paneIsOld {
			start, length = c.NewStart, c.NewLen
		}
		if editLine < start || editLine >= start+length {
			continue
		}
		switch c.Kind {
		case KindContext:
			c.LineCount += linesDelta
			if paneIsOld {
				c.OldLen += linesDelta
			} else {
				c.NewLen += linesDelta
			}
		case KindHunk:
			c.Dirty = true
		}
		return
	}
}
