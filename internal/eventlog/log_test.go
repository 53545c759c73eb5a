package eventlog

import (
	"testing"
	"time"

	"github.com/freshkit/fresh/internal/clock"
	"github.com/freshkit/fresh/internal/cursorset"
	"github.com/freshkit/fresh/internal/piecetree"
)

func applyEvent(t *testing.T, snap piecetree.Snapshot, cursors *cursorset.Set, ev Event) piecetree.Snapshot {
	t.Helper()
	next, _, err := ev.Apply(snap, cursors)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	return next
}

func TestInsertDeleteInvertRoundTrip(t *testing.T) {
	snap := piecetree.FromString("hello world")
	cursors := cursorset.NewAt(5)

	ins := &Insert{At: 5, Text: ", there", CursorsBefore: cursors.All(), CursorsAfter: []cursorset.Selection{cursorset.NewCursor(12)}}
	snap = applyEvent(t, snap, cursors, ins)
	if snap.String() != "hello, there world" {
		t.Fatalf("got %q", snap.String())
	}

	undone := applyEvent(t, snap, cursors, ins.Invert())
	if undone.String() != "hello world" {
		t.Fatalf("undo got %q", undone.String())
	}
}

func TestCoalescingMergesConsecutiveSingleCharInserts(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	log := New(fake, 100, 700*time.Millisecond)

	snap := piecetree.FromString("")
	cursors := cursorset.NewAt(0)

	for i, ch := range []string{"a", "b", "c"} {
		ins := &Insert{At: piecetree.ByteOffset(i), Text: ch, CursorsAfter: []cursorset.Selection{cursorset.NewCursor(piecetree.ByteOffset(i + 1))}}
		snap = applyEvent(t, snap, cursors, ins)
		log.Push(ins, 0)
		fake.Advance(10 * time.Millisecond)
	}

	if snap.String() != "abc" {
		t.Fatalf("got %q", snap.String())
	}
	if log.UndoCount() != 1 {
		t.Fatalf("undo count = %d, want 1 (coalesced)", log.UndoCount())
	}

	ev, err := log.PopUndo()
	if err != nil {
		t.Fatal(err)
	}
	back := applyEvent(t, snap, cursors, ev.Invert())
	if back.String() != "" {
		t.Fatalf("undo got %q, want empty", back.String())
	}
}

func TestCoalescingBreaksAfterTimeWindow(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	log := New(fake, 100, 50*time.Millisecond)

	snap := piecetree.FromString("")
	cursors := cursorset.NewAt(0)

	ins1 := &Insert{At: 0, Text: "a", CursorsAfter: []cursorset.Selection{cursorset.NewCursor(1)}}
	snap = applyEvent(t, snap, cursors, ins1)
	log.Push(ins1, 0)

	fake.Advance(100 * time.Millisecond) // exceeds window

	ins2 := &Insert{At: 1, Text: "b", CursorsAfter: []cursorset.Selection{cursorset.NewCursor(2)}}
	snap = applyEvent(t, snap, cursors, ins2)
	log.Push(ins2, 0)

	if log.UndoCount() != 2 {
		t.Fatalf("undo count = %d, want 2 (not coalesced)", log.UndoCount())
	}
}

func TestPasteAlwaysPushesOneEntryEvenIfSingleChar(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	log := New(fake, 100, 700*time.Millisecond)

	snap := piecetree.FromString("")
	cursors := cursorset.NewAt(0)

	// A one-character "paste" must not be coalesced with a later plain
	// typed character, because it is pushed via a distinct path
	// (BulkEdit/Batch), not the single-char Insert coalescing key.
	pasted := snap
	pasted, _ = pasted.Insert(0, "x")
	bulk := &BulkEdit{OldSnapshot: snap, NewSnapshot: pasted, NewCursors: []cursorset.Selection{cursorset.NewCursor(1)}, Label: "Paste"}
	snap = applyEvent(t, snap, cursors, bulk)
	log.Push(bulk, 0)

	typed := &Insert{At: 1, Text: "y", CursorsAfter: []cursorset.Selection{cursorset.NewCursor(2)}}
	snap = applyEvent(t, snap, cursors, typed)
	log.Push(typed, 0)

	if log.UndoCount() != 2 {
		t.Fatalf("undo count = %d, want 2", log.UndoCount())
	}
	if snap.String() != "xy" {
		t.Fatalf("got %q", snap.String())
	}
}

func TestGroupingProducesSingleUndoEntry(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	log := New(fake, 100, 700*time.Millisecond)

	snap := piecetree.FromString("hello")
	cursors := cursorset.NewAt(5)

	log.BeginGroup("Find and Replace")
	ins1 := &Insert{At: 5, Text: " ", CursorsAfter: []cursorset.Selection{cursorset.NewCursor(6)}}
	snap = applyEvent(t, snap, cursors, ins1)
	log.Push(ins1, 0)
	ins2 := &Insert{At: 6, Text: "world", CursorsAfter: []cursorset.Selection{cursorset.NewCursor(11)}}
	snap = applyEvent(t, snap, cursors, ins2)
	log.Push(ins2, 0)
	log.EndGroup()

	if snap.String() != "hello world" {
		t.Fatalf("got %q", snap.String())
	}
	if log.UndoCount() != 1 {
		t.Fatalf("undo count = %d, want 1", log.UndoCount())
	}

	ev, err := log.PopUndo()
	if err != nil {
		t.Fatal(err)
	}
	back := applyEvent(t, snap, cursors, ev.Invert())
	if back.String() != "hello" {
		t.Fatalf("undo got %q, want %q", back.String(), "hello")
	}
}

func TestRedoClearedOnNewPush(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	log := New(fake, 100, 0)

	ins := &Insert{At: 0, Text: "x"}
	log.Push(ins, 0)
	if _, err := log.PopUndo(); err != nil {
		t.Fatal(err)
	}
	if !log.CanRedo() {
		t.Fatal("expected redo available")
	}

	log.Push(&Insert{At: 0, Text: "z"}, 1)
	if log.CanRedo() {
		t.Fatal("redo should be cleared after new push")
	}
}

func TestMaxEntriesEviction(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	log := New(fake, 3, 0)
	for i := 0; i < 5; i++ {
		fake.Advance(time.Second)
		log.Push(&Insert{At: 0, Text: "x"}, i) // distinct cursorID: never coalesces
	}
	if log.UndoCount() != 3 {
		t.Fatalf("undo count = %d, want 3", log.UndoCount())
	}
}

func TestBulkEditUndoRedoIsSnapshotSwap(t *testing.T) {
	fake := clock.NewFake(time.Unix(0, 0))
	log := New(fake, 100, 0)

	old := piecetree.FromString("ABC\nABC\nABC\n")
	edits := []piecetree.Edit{
		{Range: piecetree.Range{Start: 0, End: 0}, Text: "X"},
		{Range: piecetree.Range{Start: 4, End: 4}, Text: "X"},
		{Range: piecetree.Range{Start: 8, End: 8}, Text: "X"},
	}
	next, err := old.ApplyBulkEdits(edits)
	if err != nil {
		t.Fatal(err)
	}

	bulk := &BulkEdit{OldSnapshot: old, NewSnapshot: next, Label: "Multi-cursor insert"}
	cursors := cursorset.New()
	snap := applyEvent(t, old, cursors, bulk)
	if snap.String() != "XABC\nXABC\nXABC\n" {
		t.Fatalf("got %q", snap.String())
	}
	log.Push(bulk, -1)

	ev, err := log.PopUndo()
	if err != nil {
		t.Fatal(err)
	}
	back := applyEvent(t, snap, cursors, ev.Invert())
	if back.String() != old.String() {
		t.Fatalf("undo got %q, want %q", back.String(), old.String())
	}
}
