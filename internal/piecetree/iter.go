package piecetree

// ByteIter lazily yields the bytes of a snapshot range without
// materializing the whole slice up front. It is restartable: calling
// Reset returns it to its initial position, and it always terminates
// after yielding End-Start bytes.
type ByteIter struct {
	leaves []leafSpan
	li     int // index of current chunk, -1 before the first Next call
	start  ByteOffset
	end    ByteOffset
}

type leafSpan struct {
	text string
}

// Chunks returns a lazy, restartable iterator over the snapshot's leaves
// in [start, end). Use Next/Chunk to pull chunks one at a time instead of
// building the whole string.
func (s Snapshot) Chunks(start, end ByteOffset) *ByteIter {
	it := &ByteIter{start: start, end: end, li: -1}
	if s.root == nil || start >= end {
		return it
	}
	if end > s.Len() {
		end = s.Len()
		it.end = end
	}
	it.collect(s.root, 0, start, end)
	return it
}

func (it *ByteIter) collect(n *node, base, start, end ByteOffset) {
	if n.isLeaf() {
		lo, hi := base, base+n.summary.Bytes
		if hi <= start || lo >= end {
			return
		}
		s, e := ByteOffset(0), ByteOffset(len(n.text))
		if start > lo {
			s = start - lo
		}
		if end < hi {
			e = end - lo
		}
		if s < e {
			it.leaves = append(it.leaves, leafSpan{text: n.text[s:e]})
		}
		return
	}
	offset := base
	for i, c := range n.children {
		childLen := n.childSum[i].Bytes
		if offset+childLen > start && offset < end {
			it.collect(c, offset, start, end)
		}
		offset += childLen
	}
}

// Next advances to the next chunk, returning false once exhausted. The
// iterator always terminates: it visits each collected leaf span exactly
// once per Reset cycle.
func (it *ByteIter) Next() bool {
	if it.li+1 >= len(it.leaves) {
		it.li = len(it.leaves)
		return false
	}
	it.li++
	return true
}

// Chunk returns the current chunk's text.
func (it *ByteIter) Chunk() string {
	if it.li < 0 || it.li >= len(it.leaves) {
		return ""
	}
	return it.leaves[it.li].text
}

// Reset returns the iterator to its position before the first chunk, so
// it can be replayed with Next/Chunk.
func (it *ByteIter) Reset() {
	it.li = -1
}
