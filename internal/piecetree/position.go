package piecetree

// LineStartOffset returns the byte offset of the first byte of line.
// Lines past the end of the snapshot clamp to Len().
func (s Snapshot) LineStartOffset(line uint32) ByteOffset {
	if s.root == nil || line == 0 {
		return 0
	}
	if line >= s.LineCount() {
		return s.Len()
	}
	off, ok := s.root.lineStart(line)
	if !ok {
		return s.Len()
	}
	return off
}

// LineEndOffset returns the byte offset just past the last byte of line,
// not including its terminating newline.
func (s Snapshot) LineEndOffset(line uint32) ByteOffset {
	count := s.LineCount()
	if line >= count {
		return s.Len()
	}
	if line == count-1 {
		return s.Len()
	}
	next := s.LineStartOffset(line + 1)
	if next > 0 {
		return next - 1
	}
	return 0
}

// LineText returns the content of line, excluding its newline.
func (s Snapshot) LineText(line uint32) string {
	return s.Slice(s.LineStartOffset(line), s.LineEndOffset(line))
}

// OffsetToPoint converts a byte offset into a line/column position.
func (s Snapshot) OffsetToPoint(offset ByteOffset) Point {
	if s.root == nil || offset == 0 {
		return Point{}
	}
	if offset >= s.Len() {
		last := s.LineCount() - 1
		return Point{Line: last, Column: uint32(s.Len() - s.LineStartOffset(last))}
	}
	line, col := s.root.pointAt(offset)
	return Point{Line: line, Column: col}
}

// PointToOffset converts a line/column position into a byte offset,
// clamping the column to the line's length.
func (s Snapshot) PointToOffset(p Point) ByteOffset {
	start := s.LineStartOffset(p.Line)
	end := s.LineEndOffset(p.Line)
	if ByteOffset(p.Column) >= end-start {
		return end
	}
	return start + ByteOffset(p.Column)
}

// ByteToLineColumn is an alias for OffsetToPoint returning raw fields,
// matching the spec's operation name.
func (s Snapshot) ByteToLineColumn(offset ByteOffset) (line, col uint32) {
	p := s.OffsetToPoint(offset)
	return p.Line, p.Column
}

// lineStart returns the byte offset of the start of the given line number,
// walking the tree using per-child line-count summaries.
func (n *node) lineStart(line uint32) (ByteOffset, bool) {
	if line == 0 {
		return 0, true
	}
	if n.isLeaf() {
		seen := uint32(0)
		for i := 0; i < len(n.text); i++ {
			if n.text[i] == '\n' {
				seen++
				if seen == line {
					return ByteOffset(i + 1), true
				}
			}
		}
		return 0, false
	}
	offset := ByteOffset(0)
	lineBase := uint32(0)
	for i, c := range n.children {
		childLines := n.childSum[i].Lines
		if lineBase+childLines >= line {
			sub, ok := c.lineStart(line - lineBase)
			return offset + sub, ok
		}
		lineBase += childLines
		offset += n.childSum[i].Bytes
	}
	return 0, false
}

// pointAt returns the 0-indexed line and column for offset.
func (n *node) pointAt(offset ByteOffset) (uint32, uint32) {
	if n.isLeaf() {
		line := uint32(0)
		lastNL := -1
		for i := 0; i < int(offset) && i < len(n.text); i++ {
			if n.text[i] == '\n' {
				line++
				lastNL = i
			}
		}
		return line, uint32(int(offset) - lastNL - 1)
	}
	base := ByteOffset(0)
	lineBase := uint32(0)
	for i, c := range n.children {
		childLen := n.childSum[i].Bytes
		last := i == len(n.children)-1
		if base+childLen > offset || last {
			line, col := c.pointAt(offset - base)
			return lineBase + line, col
		}
		lineBase += n.childSum[i].Lines
		base += childLen
	}
	return 0, 0
}
