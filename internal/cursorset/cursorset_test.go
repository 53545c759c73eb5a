package cursorset

import "testing"

func TestNormalizeMergesOverlaps(t *testing.T) {
	s := NewFromSlice([]Selection{
		NewSelection(0, 5),
		NewSelection(3, 8),
		NewCursor(20),
	})
	all := s.All()
	if len(all) != 2 {
		t.Fatalf("got %d selections, want 2: %v", len(all), all)
	}
	if all[0].Start() != 0 || all[0].End() != 8 {
		t.Fatalf("merged selection wrong: %v", all[0])
	}
}

func TestPrimaryIsLowestStart(t *testing.T) {
	s := NewFromSlice([]Selection{NewCursor(10), NewCursor(2), NewCursor(5)})
	if s.Primary().Head != 2 {
		t.Fatalf("primary = %v, want offset 2", s.Primary())
	}
}

func TestTransformInsertBeforeShiftsLater(t *testing.T) {
	s := NewFromSlice([]Selection{NewCursor(2), NewCursor(8)})
	s.Transform(Edit{Range: Range{Start: 0, End: 0}, NewText: "XX"})
	all := s.All()
	if all[0].Head != 4 || all[1].Head != 10 {
		t.Fatalf("got %v", all)
	}
}

func TestMultiCursorInsertMatchesHistoryScenario(t *testing.T) {
	// Mirrors the three-cursor "aa bb cc" -> "aa! bb! cc!" scenario: each
	// cursor gets the same text inserted at its own (already-shifted)
	// position when edits are applied left-to-right one at a time.
	s := NewFromSlice([]Selection{NewCursor(2), NewCursor(5), NewCursor(8)})
	edits := []Edit{
		{Range: Range{Start: 2, End: 2}, NewText: "!"},
		{Range: Range{Start: 6, End: 6}, NewText: "!"}, // shifted by first insert
		{Range: Range{Start: 10, End: 10}, NewText: "!"},
	}
	s.TransformMulti(edits)
	all := s.All()
	want := []ByteOffset{3, 7, 11}
	for i, sel := range all {
		if sel.Head != want[i] {
			t.Fatalf("cursor %d = %d, want %d", i, sel.Head, want[i])
		}
	}
}

func TestCollapseAll(t *testing.T) {
	s := NewFromSlice([]Selection{NewSelection(0, 5)})
	s.CollapseAll()
	if !s.Primary().IsEmpty() || s.Primary().Head != 5 {
		t.Fatalf("got %v", s.Primary())
	}
}

func TestClampShrinksOutOfRangeSelections(t *testing.T) {
	s := NewFromSlice([]Selection{NewCursor(100)})
	s.Clamp(10)
	if s.Primary().Head != 10 {
		t.Fatalf("got %v", s.Primary())
	}
}
