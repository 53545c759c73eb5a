package editorstate

import (
	"testing"
	"time"

	"github.com/freshkit/fresh/internal/clock"
	"github.com/freshkit/fresh/internal/eventlog"
	"github.com/freshkit/fresh/internal/piecetree"
)

func newTestState(text string) *State {
	fake := clock.NewFake(time.Unix(0, 0))
	return New("test.txt", piecetree.FromString(text), fake)
}

func TestExecuteInsertAndUndo(t *testing.T) {
	s := newTestState("hello world")
	ins := &eventlog.Insert{At: 5, Text: ",", CursorsAfter: s.Cursors().All()}

	out := s.Execute(ins, 0)
	if !out.Applied {
		t.Fatalf("execute failed: %v", out.Err)
	}
	if s.Snapshot().String() != "hello, world" {
		t.Fatalf("got %q", s.Snapshot().String())
	}

	if err := s.Undo(); err != nil {
		t.Fatal(err)
	}
	if s.Snapshot().String() != "hello world" {
		t.Fatalf("after undo got %q", s.Snapshot().String())
	}
}

func TestExecuteMarksDirty(t *testing.T) {
	s := newTestState("abc")
	s.ClearDirty()
	if s.Dirty() != (DirtyFlags{}) {
		t.Fatal("expected clean state after ClearDirty")
	}
	s.Execute(&eventlog.Insert{At: 0, Text: "x"}, 0)
	if !s.Dirty().Content {
		t.Fatal("expected content dirty after edit")
	}
}

func TestOverlaySwallowedByDeletionIsRemoved(t *testing.T) {
	s := newTestState("hello world")
	s.AddOverlay(piecetree.Range{Start: 0, End: 5}, "diagnostic", nil)

	s.Execute(&eventlog.Delete{Range: piecetree.Range{Start: 0, End: 11}, DeletedText: "hello world"}, -1)

	view := s.ReadViewport(Viewport{Rows: 5})
	if len(view.Overlays) != 0 {
		t.Fatalf("expected overlay removed, got %v", view.Overlays)
	}
}

func TestOverlayShiftsWithEditBeforeIt(t *testing.T) {
	s := newTestState("hello world")
	s.AddOverlay(piecetree.Range{Start: 6, End: 11}, "search", nil)

	s.Execute(&eventlog.Insert{At: 0, Text: "XX"}, -1)

	view := s.ReadViewport(Viewport{Rows: 5})
	if len(view.Overlays) != 1 {
		t.Fatalf("expected 1 overlay, got %d", len(view.Overlays))
	}
	if view.Overlays[0].Range.Start != 8 || view.Overlays[0].Range.End != 13 {
		t.Fatalf("overlay not shifted: %+v", view.Overlays[0])
	}
}

func TestReadViewportReturnsVisibleLines(t *testing.T) {
	s := newTestState("line1\nline2\nline3\nline4\n")
	view := s.ReadViewport(Viewport{TopByte: 6, Rows: 2})
	if len(view.Lines) != 2 || view.Lines[0] != "line2" || view.Lines[1] != "line3" {
		t.Fatalf("got %v", view.Lines)
	}
}
