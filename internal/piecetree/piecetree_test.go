package piecetree

import (
	"math/rand"
	"strings"
	"testing"
)

func TestInsertDeleteBasic(t *testing.T) {
	s := FromString("hello world")
	s2, err := s.Insert(5, ",")
	if err != nil {
		t.Fatal(err)
	}
	if got := s2.String(); got != "hello, world" {
		t.Fatalf("got %q", got)
	}
	if s.String() != "hello world" {
		t.Fatal("original mutated")
	}

	s3, err := s2.Delete(Range{Start: 0, End: 6})
	if err != nil {
		t.Fatal(err)
	}
	if got := s3.String(); got != " world" {
		t.Fatalf("got %q", got)
	}
}

func TestInsertOutOfRange(t *testing.T) {
	s := FromString("abc")
	if _, err := s.Insert(10, "x"); err != ErrOutOfRange {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestDeleteOutOfRange(t *testing.T) {
	s := FromString("abc")
	if _, err := s.Delete(Range{Start: 0, End: 10}); err != ErrOutOfRange {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestApplyBulkEditsMatchesSequentialApplication(t *testing.T) {
	s := FromString("ABC\nABC\nABC\n")
	edits := []Edit{
		{Range: Range{Start: 0, End: 0}, Text: "X"},
		{Range: Range{Start: 4, End: 4}, Text: "X"},
		{Range: Range{Start: 8, End: 8}, Text: "X"},
	}
	got, err := s.ApplyBulkEdits(edits)
	if err != nil {
		t.Fatal(err)
	}

	// Sequential composition: apply in reverse order (highest offset
	// first) with individual Insert/Delete calls.
	want := s
	for i := len(edits) - 1; i >= 0; i-- {
		var err error
		want, err = want.Replace(edits[i].Range, edits[i].Text)
		if err != nil {
			t.Fatal(err)
		}
	}
	if got.String() != want.String() {
		t.Fatalf("bulk edit mismatch: got %q want %q", got.String(), want.String())
	}
	if got.String() != "XABC\nXABC\nXABC\n" {
		t.Fatalf("unexpected result: %q", got.String())
	}
}

func TestApplyBulkEditsRejectsUnsorted(t *testing.T) {
	s := FromString("abcdef")
	edits := []Edit{
		{Range: Range{Start: 4, End: 5}},
		{Range: Range{Start: 0, End: 1}},
	}
	if _, err := s.ApplyBulkEdits(edits); err != ErrOverlappingEdits {
		t.Fatalf("expected ErrOverlappingEdits, got %v", err)
	}
}

func TestApplyBulkEditsRejectsOverlap(t *testing.T) {
	s := FromString("abcdef")
	edits := []Edit{
		{Range: Range{Start: 0, End: 3}},
		{Range: Range{Start: 2, End: 4}},
	}
	if _, err := s.ApplyBulkEdits(edits); err != ErrOverlappingEdits {
		t.Fatalf("expected ErrOverlappingEdits, got %v", err)
	}
}

func TestLineOperations(t *testing.T) {
	s := FromString("line 1\nline 2\nline 3")
	if s.LineCount() != 3 {
		t.Fatalf("LineCount = %d, want 3", s.LineCount())
	}
	if got := s.LineText(1); got != "line 2" {
		t.Fatalf("LineText(1) = %q", got)
	}
	if start := s.LineStartOffset(1); start != 7 {
		t.Fatalf("LineStartOffset(1) = %d, want 7", start)
	}
}

func TestOffsetPointRoundTrip(t *testing.T) {
	s := FromString("hello\nworld\nfoo")
	for _, off := range []ByteOffset{0, 3, 6, 11, 12, 15} {
		p := s.OffsetToPoint(off)
		back := s.PointToOffset(p)
		if back != off {
			t.Fatalf("round trip offset %d -> %v -> %d", off, p, back)
		}
	}
}

func TestSliceAgainstNaiveString(t *testing.T) {
	text := "the quick brown fox\njumps over\nthe lazy dog\n"
	s := FromString(text)
	for i := 0; i < len(text); i += 3 {
		for j := i; j <= len(text); j += 5 {
			if got, want := s.Slice(ByteOffset(i), ByteOffset(j)), text[i:j]; got != want {
				t.Fatalf("Slice(%d,%d) = %q, want %q", i, j, got, want)
			}
		}
	}
}

func TestChunkIteratorRestartable(t *testing.T) {
	s := FromString(strings.Repeat("0123456789", 500))
	it := s.Chunks(10, 2500)
	var first strings.Builder
	for it.Next() {
		first.WriteString(it.Chunk())
	}
	it.Reset()
	var second strings.Builder
	for it.Next() {
		second.WriteString(it.Chunk())
	}
	if first.String() != second.String() {
		t.Fatal("restart produced different content")
	}
	if want := s.Slice(10, 2500); first.String() != want {
		t.Fatalf("iterator content mismatch: got %d bytes want %d bytes", first.Len(), len(want))
	}
}

// TestRandomizedEditsMatchNaiveString exercises the core invariant from
// spec §8: for every sequence of edits applied to a PieceTree, the
// resulting content equals the content of the naive string obtained by
// applying the same edits.
func TestRandomizedEditsMatchNaiveString(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	naive := "hello world\nsecond line\nthird line of text\n"
	s := FromString(naive)

	for i := 0; i < 300; i++ {
		op := rng.Intn(3)
		switch op {
		case 0: // insert
			at := rng.Intn(len(naive) + 1)
			text := randomText(rng)
			var err error
			s, err = s.Insert(ByteOffset(at), text)
			if err != nil {
				t.Fatal(err)
			}
			naive = naive[:at] + text + naive[at:]
		case 1: // delete
			if len(naive) == 0 {
				continue
			}
			a := rng.Intn(len(naive))
			b := a + rng.Intn(len(naive)-a)
			var err error
			s, err = s.Delete(Range{Start: ByteOffset(a), End: ByteOffset(b)})
			if err != nil {
				t.Fatal(err)
			}
			naive = naive[:a] + naive[b:]
		case 2: // replace
			if len(naive) == 0 {
				continue
			}
			a := rng.Intn(len(naive))
			b := a + rng.Intn(len(naive)-a)
			text := randomText(rng)
			var err error
			s, err = s.Replace(Range{Start: ByteOffset(a), End: ByteOffset(b)}, text)
			if err != nil {
				t.Fatal(err)
			}
			naive = naive[:a] + text + naive[b:]
		}
		if got := s.String(); got != naive {
			t.Fatalf("iteration %d: got %q want %q", i, got, naive)
		}
		if s.Len() != ByteOffset(len(naive)) {
			t.Fatalf("iteration %d: Len() = %d want %d", i, s.Len(), len(naive))
		}
	}
}

func randomText(rng *rand.Rand) string {
	choices := []string{"x", "yz", "\n", "hello", "", "ab\ncd"}
	return choices[rng.Intn(len(choices))]
}
