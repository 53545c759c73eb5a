package markertree

import "hash/fnv"

// HashLine computes the stable hash stored in a LineAnchor.
func HashLine(text string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	return h.Sum64()
}

// LineSource supplies line text after a reload, so relocation can compare
// the marker's recorded hash against what is actually on disk now.
type LineSource interface {
	LineCount() uint32
	LineText(line uint32) string
}

// defaultSearchRadius bounds how far from the recorded line number
// Relocate will look for a matching line, keeping relocation O(radius)
// instead of O(file size).
const defaultSearchRadius = 50

// Relocate re-anchors a line-anchored marker after its buffer has been
// reloaded from disk (so byte offsets from before the reload are no
// longer meaningful). It searches a neighborhood around the recorded
// line number for the best hash match and records a confidence score:
// 1.0 for an exact match at the recorded line, decaying with distance
// for matches found elsewhere, and 0 if no candidate line hashes match.
func (t *Tree) Relocate(id ID, src LineSource) (newLine uint32, confidence float64, ok bool) {
	t.mu.Lock()
	m, exists := t.byID[id]
	if !exists || m.lineAnchor == nil {
		t.mu.Unlock()
		return 0, 0, false
	}
	anchor := *m.lineAnchor
	t.mu.Unlock()

	count := src.LineCount()
	best := -1
	bestDist := uint32(1 << 30)

	lo, hi := uint32(0), count
	if anchor.Line > defaultSearchRadius {
		lo = anchor.Line - defaultSearchRadius
	}
	if anchor.Line+defaultSearchRadius < hi {
		hi = anchor.Line + defaultSearchRadius
	}

	for line := lo; line < hi; line++ {
		if HashLine(src.LineText(line)) != anchor.LineHash {
			continue
		}
		dist := distance(line, anchor.Line)
		if dist < bestDist {
			best, bestDist = int(line), dist
		}
	}

	if best < 0 {
		return anchor.Line, 0, false
	}

	conf := 1.0
	if bestDist > 0 {
		conf = 1.0 / (1.0 + float64(bestDist))
	}

	t.mu.Lock()
	if m, exists = t.byID[id]; exists {
		m.lineAnchor.Line = uint32(best)
		m.lineAnchor.Confidence = conf
	}
	t.mu.Unlock()

	return uint32(best), conf, true
}

func distance(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
