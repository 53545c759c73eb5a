package dispatch

import (
	"time"

	"github.com/freshkit/fresh/internal/clock"
	"github.com/freshkit/fresh/internal/piecetree"
)

// BurstCoalescer accumulates consecutive single-character insertions at
// the same cursor and signals when they should be flushed through
// InsertTextAtomic instead of one-by-one through the normal per-char
// Handler path. It generalizes the coalescing rule spec.md §4.2 states
// for EventLog undo-entry merging (same cursor, contiguous offsets, gap
// under threshold) one level up: instead of merging undo entries after
// the fact, it withholds dispatch until a run looks like a paste, so
// the whole run lands as one atomic insert and never triggers
// character-granular side effects such as auto-close of delimiters.
type BurstCoalescer struct {
	clock     clock.Source
	maxGap    time.Duration
	minLength int

	active   bool
	start    piecetree.ByteOffset
	buf      []byte
	lastAt   time.Time
	lastByte piecetree.ByteOffset
}

// NewBurstCoalescer creates a coalescer that flushes a run once it has
// gone minLength bytes without a gap larger than maxGap, measured by
// src (substitute a clock.Fake in tests to avoid real sleeps).
func NewBurstCoalescer(src clock.Source, maxGap time.Duration, minLength int) *BurstCoalescer {
	return &BurstCoalescer{clock: src, maxGap: maxGap, minLength: minLength}
}

// Feed records one character insertion at offset `at` and always
// returns consumed=true: the character joins the pending run. A
// character that does not continue the run (a different offset, or a
// gap longer than maxGap) discards the pending run and starts a new one
// with itself. The run's accumulated text is emitted by Flush.
func (b *BurstCoalescer) Feed(at piecetree.ByteOffset, ch rune) (consumed bool) {
	now := b.clock.Now()
	if b.active && at == b.lastByte && now.Sub(b.lastAt) <= b.maxGap {
		b.buf = append(b.buf, string(ch)...)
		b.lastByte = at + piecetree.ByteOffset(len(string(ch)))
		b.lastAt = now
		return true
	}
	b.reset()
	b.active = true
	b.start = at
	b.buf = append(b.buf, string(ch)...)
	b.lastByte = at + piecetree.ByteOffset(len(string(ch)))
	b.lastAt = now
	return true
}

// ShouldFlush reports whether the pending run has crossed minLength and
// is therefore treated as a burst (paste-like) rather than ordinary
// typed characters.
func (b *BurstCoalescer) ShouldFlush() bool {
	return b.active && len(b.buf) >= b.minLength
}

// Expired reports whether the pending run has gone quiet (no Feed
// within maxGap of now) and should be abandoned without forcing an
// atomic flush — ordinary slow typing falls through this path and
// continues to dispatch one character at a time.
func (b *BurstCoalescer) Expired() bool {
	return b.active && b.clock.Now().Sub(b.lastAt) > b.maxGap
}

// Flush returns the accumulated run's start offset and text, clearing
// the pending state. Callers pass the text to InsertTextAtomic.
func (b *BurstCoalescer) Flush() (piecetree.ByteOffset, string) {
	start, text := b.start, string(b.buf)
	b.reset()
	return start, text
}

func (b *BurstCoalescer) reset() {
	b.active = false
	b.buf = b.buf[:0]
	b.start = 0
	b.lastByte = 0
}
