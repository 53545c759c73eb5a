package piecetree

import "strings"

// Tree shape constants. A leaf never holds more than maxLeafBytes of text;
// an internal node fans out to at most maxFanout children (minFanout is
// not enforced; concatenation can leave nodes with fewer children).
// These mirror the B+-tree-variant shape used by the teacher's rope
// package, chosen for the same reason: wide, shallow nodes keep both tree
// height and pointer-chasing low for typical source-file sizes.
const (
	minFanout    = 4
	maxFanout    = 8
	maxLeafBytes = 1024
)

// summary aggregates metrics for a subtree: total bytes and total newline
// count (lines = newlines+1).
type summary struct {
	Bytes ByteOffset
	Lines uint32
}

func (s summary) add(o summary) summary {
	return summary{Bytes: s.Bytes + o.Bytes, Lines: s.Lines + o.Lines}
}

func summarize(text string) summary {
	return summary{Bytes: ByteOffset(len(text)), Lines: uint32(strings.Count(text, "\n"))}
}

// node is a piece-tree node. height == 0 marks a leaf; leaves hold raw
// text, internal nodes hold children plus their per-child summaries so a
// parent can seek into the right child without visiting the others.
type node struct {
	height   uint8
	summary  summary
	text     string // leaf only
	children []*node
	childSum []summary
}

func newLeaf(textBytes []byte) *node {
	text := string(textBytes)
	return &node{height: 0, text: text, summary: summarize(text)}
}

func newLeafString(text string) *node {
	return &node{height: 0, text: text, summary: summarize(text)}
}

func newInternal(children []*node) *node {
	if len(children) == 0 {
		return newLeafString("")
	}
	sums := make([]summary, len(children))
	var total summary
	for i, c := range children {
		sums[i] = c.summary
		total = total.add(c.summary)
	}
	return &node{height: children[0].height + 1, children: children, childSum: sums, summary: total}
}

func (n *node) isLeaf() bool { return n.height == 0 }

// splitChunks breaks text into leaf-sized pieces without splitting a rune.
func splitChunks(s string) []string {
	if s == "" {
		return nil
	}
	var chunks []string
	for len(s) > maxLeafBytes {
		cut := maxLeafBytes
		for cut > 0 && isUTF8Continuation(s[cut]) {
			cut--
		}
		if cut == 0 {
			cut = maxLeafBytes
		}
		chunks = append(chunks, s[:cut])
		s = s[cut:]
	}
	if s != "" {
		chunks = append(chunks, s)
	}
	return chunks
}

func isUTF8Continuation(b byte) bool { return b&0xC0 == 0x80 }

// buildBalanced builds a bottom-up balanced tree from leaf text chunks.
func buildBalanced(chunks []string) *node {
	if len(chunks) == 0 {
		return newLeafString("")
	}
	nodes := make([]*node, len(chunks))
	for i, c := range chunks {
		nodes[i] = newLeafString(c)
	}
	for len(nodes) > 1 {
		var next []*node
		for i := 0; i < len(nodes); i += maxFanout {
			end := i + maxFanout
			if end > len(nodes) {
				end = len(nodes)
			}
			group := make([]*node, end-i)
			copy(group, nodes[i:end])
			next = append(next, newInternal(group))
		}
		nodes = next
	}
	return nodes[0]
}

func (n *node) appendTo(b *strings.Builder) {
	if n.isLeaf() {
		b.WriteString(n.text)
		return
	}
	for _, c := range n.children {
		c.appendTo(b)
	}
}

func (n *node) appendRange(b *strings.Builder, start, end ByteOffset) {
	if start >= end {
		return
	}
	if n.isLeaf() {
		if int(end) > len(n.text) {
			end = ByteOffset(len(n.text))
		}
		b.WriteString(n.text[start:end])
		return
	}
	offset := ByteOffset(0)
	for i, c := range n.children {
		childLen := n.childSum[i].Bytes
		childEnd := offset + childLen
		if childEnd <= start {
			offset = childEnd
			continue
		}
		if offset >= end {
			break
		}
		cs, ce := ByteOffset(0), childLen
		if start > offset {
			cs = start - offset
		}
		if end < childEnd {
			ce = end - offset
		}
		c.appendRange(b, cs, ce)
		offset = childEnd
	}
}

// split divides n at offset into [0,offset) and [offset,end). Both results
// share leaves with n wherever a leaf lies entirely on one side.
func (n *node) split(offset ByteOffset) (*node, *node) {
	if offset == 0 {
		return newLeafString(""), n
	}
	if offset >= n.summary.Bytes {
		return n, newLeafString("")
	}
	if n.isLeaf() {
		return newLeafString(n.text[:offset]), newLeafString(n.text[offset:])
	}
	o := ByteOffset(0)
	for i, c := range n.children {
		cl := n.childSum[i].Bytes
		if o+cl <= offset {
			o += cl
			continue
		}
		left, right := c.split(offset - o)
		leftChildren := append(append([]*node{}, n.children[:i]...), nonEmpty(left)...)
		rightChildren := append(nonEmpty(right), n.children[i+1:]...)
		return rebalance(leftChildren), rebalance(rightChildren)
	}
	return n, newLeafString("")
}

func nonEmpty(n *node) []*node {
	if n.summary.Bytes == 0 && len(n.children) == 0 {
		return nil
	}
	return []*node{n}
}

// rebalance wraps a child list back into a well-formed subtree, regrouping
// when the list is wider than maxFanout.
func rebalance(children []*node) *node {
	if len(children) == 0 {
		return newLeafString("")
	}
	if len(children) == 1 {
		return children[0]
	}
	if len(children) <= maxFanout {
		return newInternal(children)
	}
	return buildBalancedNodes(children)
}

func buildBalancedNodes(nodes []*node) *node {
	for len(nodes) > 1 {
		var next []*node
		for i := 0; i < len(nodes); i += maxFanout {
			end := i + maxFanout
			if end > len(nodes) {
				end = len(nodes)
			}
			group := make([]*node, end-i)
			copy(group, nodes[i:end])
			next = append(next, newInternal(group))
		}
		nodes = next
	}
	return nodes[0]
}

// concat joins two subtrees, merging small adjacent leaves so repeated
// single-character inserts don't fragment the tree into one leaf per byte.
func concat(a, b *node) *node {
	if a == nil || a.summary.Bytes == 0 {
		if b == nil {
			return newLeafString("")
		}
		return b
	}
	if b == nil || b.summary.Bytes == 0 {
		return a
	}
	if a.isLeaf() && b.isLeaf() && len(a.text)+len(b.text) <= maxLeafBytes {
		return newLeafString(a.text + b.text)
	}
	return rebalance([]*node{a, b})
}
