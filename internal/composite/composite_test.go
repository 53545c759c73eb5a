package composite

import (
	"testing"
	"time"

	"github.com/freshkit/fresh/internal/align"
	"github.com/freshkit/fresh/internal/clock"
	"github.com/freshkit/fresh/internal/editorstate"
	"github.com/freshkit/fresh/internal/piecetree"
)

func stateWith(t *testing.T, text string) *editorstate.State {
	t.Helper()
	return editorstate.New("test.txt", piecetree.FromString(text), clock.NewFake(time.Unix(0, 0)))
}

func TestNewComputesInitialAlignment(t *testing.T) {
	old := stateWith(t, "A\nB\nC")
	new := stateWith(t, "A\nX\nB\nC")

	b := New(old, new, align.DefaultContextThreshold)
	if len(b.Alignment.Chunks) != 3 {
		t.Fatalf("got %d chunks, want 3: %+v", len(b.Alignment.Chunks), b.Alignment.Chunks)
	}
	if b.Alignment.Chunks[1].Kind != align.KindHunk {
		t.Fatalf("chunk1 = %+v, want Hunk", b.Alignment.Chunks[1])
	}
}

func TestFocusPaneIgnoresOutOfRange(t *testing.T) {
	b := New(stateWith(t, "A\n"), stateWith(t, "A\n"), align.DefaultContextThreshold)
	b.FocusPane(1)
	if b.FocusedPane != 1 {
		t.Fatalf("got %d, want 1", b.FocusedPane)
	}
	b.FocusPane(7)
	if b.FocusedPane != 1 {
		t.Fatalf("out-of-range FocusPane changed focus to %d", b.FocusedPane)
	}
}

func TestOnBufferEditMarksChunkDirtyAndResyncClearsIt(t *testing.T) {
	old := stateWith(t, "A\nB\nC")
	new := stateWith(t, "A\nX\nB\nC")
	b := New(old, new, align.DefaultContextThreshold)

	hunkIdx := -1
	for i, c := range b.Alignment.Chunks {
		if c.Kind == align.KindHunk {
			hunkIdx = i
		}
	}
	if hunkIdx < 0 {
		t.Fatal("expected a hunk chunk")
	}

	b.OnBufferEdit(1, b.Alignment.Chunks[hunkIdx].NewStart, 0)
	if !b.Alignment.Chunks[hunkIdx].Dirty {
		t.Fatal("expected hunk chunk to be marked dirty")
	}

	b.Resync()
	for _, c := range b.Alignment.Chunks {
		if c.Dirty {
			t.Fatalf("expected Resync to clear dirty chunks, still dirty: %+v", c)
		}
	}
}

func TestResyncIsNoOpWhenNothingDirty(t *testing.T) {
	old := stateWith(t, "A\nB\n")
	new := stateWith(t, "A\nB\n")
	b := New(old, new, align.DefaultContextThreshold)

	before := len(b.Alignment.Chunks)
	b.Resync()
	if len(b.Alignment.Chunks) != before {
		t.Fatalf("Resync changed chunk count with nothing dirty: got %d, want %d", len(b.Alignment.Chunks), before)
	}
}

func TestScrollDisplayRowFindsMatchingRow(t *testing.T) {
	old := stateWith(t, "A\nB\nC")
	new := stateWith(t, "A\nX\nB\nC")
	b := New(old, new, align.DefaultContextThreshold)

	row, ok := b.ScrollDisplayRow(1, 1) // new-side line 1 is "X", the inserted line
	if !ok {
		t.Fatal("expected to find a row for new-side line 1")
	}
	if row != 1 {
		t.Fatalf("got row %d, want 1", row)
	}

	row, ok = b.ScrollDisplayRow(0, 1) // old-side line 1 is "B", one row after the insertion
	if !ok {
		t.Fatal("expected to find a row for old-side line 1")
	}
	if row != 2 {
		t.Fatalf("got row %d, want 2", row)
	}
}
