package dispatch

import (
	"testing"
	"time"

	"github.com/freshkit/fresh/internal/clock"
	"github.com/freshkit/fresh/internal/editorstate"
	"github.com/freshkit/fresh/internal/keyinput"
	"github.com/freshkit/fresh/internal/piecetree"
)

func newState(t *testing.T) *editorstate.State {
	t.Helper()
	return editorstate.New("test.txt", piecetree.Empty(), clock.NewFake(time.Unix(0, 0)))
}

func TestDispatchRoutesToTopContextHandler(t *testing.T) {
	state := newState(t)
	d := New(state, nil)

	var handled string
	d.Register(keyinput.Normal, HandlerFunc(func(a Action, s *editorstate.State) (editorstate.Outcome, error) {
		handled = a.Name
		return editorstate.Outcome{Applied: true}, nil
	}))

	out, err := d.Dispatch(Action{Name: "move_right"})
	if err != nil || !out.Applied || handled != "move_right" {
		t.Fatalf("got %+v, %v, handled=%q", out, err, handled)
	}
}

func TestDispatchWithNoHandlerReturnsErrNoHandler(t *testing.T) {
	state := newState(t)
	d := New(state, nil)
	if _, err := d.Dispatch(Action{Name: "x"}); err != ErrNoHandler {
		t.Fatalf("got %v, want ErrNoHandler", err)
	}
}

func TestPushPopContextRouting(t *testing.T) {
	state := newState(t)
	d := New(state, nil)

	d.Register(keyinput.Normal, HandlerFunc(func(a Action, s *editorstate.State) (editorstate.Outcome, error) {
		return editorstate.Outcome{Applied: true}, nil
	}))
	d.Register(keyinput.Prompt, HandlerFunc(func(a Action, s *editorstate.State) (editorstate.Outcome, error) {
		return editorstate.Outcome{Applied: true}, nil
	}))

	if d.TopContext().Kind != keyinput.Normal {
		t.Fatalf("expected Normal at start")
	}
	d.PushContext(keyinput.NewContext(keyinput.Prompt))
	if d.TopContext().Kind != keyinput.Prompt {
		t.Fatalf("expected Prompt after push")
	}
	d.PopContext()
	if d.TopContext().Kind != keyinput.Normal {
		t.Fatalf("expected Normal after pop")
	}
	d.PopContext()
	if d.TopContext().Kind != keyinput.Normal {
		t.Fatalf("popping last context should be a no-op")
	}
}

func TestInsertTextAtomicSingleCursor(t *testing.T) {
	state := newState(t)
	d := New(state, nil)

	out := d.InsertTextAtomic("hello\nworld\n", "paste", "clipboard")
	if !out.Applied {
		t.Fatalf("insert failed: %+v", out)
	}
	if got := state.Snapshot().String(); got != "hello\nworld\n" {
		t.Fatalf("got %q", got)
	}

	if err := state.Undo(); err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if got := state.Snapshot().String(); got != "" {
		t.Fatalf("expected empty buffer after one undo, got %q", got)
	}
}

func TestBurstCoalescerFlushesOnceMinLengthReached(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	b := NewBurstCoalescer(clk, 50*time.Millisecond, 3)

	b.Feed(0, 'a')
	if b.ShouldFlush() {
		t.Fatal("should not flush after one char")
	}
	clk.Advance(10 * time.Millisecond)
	b.Feed(1, 'b')
	clk.Advance(10 * time.Millisecond)
	b.Feed(2, 'c')
	if !b.ShouldFlush() {
		t.Fatal("expected flush once minLength reached")
	}

	start, text := b.Flush()
	if start != 0 || text != "abc" {
		t.Fatalf("got start=%v text=%q", start, text)
	}
	if b.ShouldFlush() {
		t.Fatal("flush should clear pending state")
	}
}

func TestBurstCoalescerBreaksOnGap(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	b := NewBurstCoalescer(clk, 20*time.Millisecond, 5)

	b.Feed(0, 'a')
	clk.Advance(100 * time.Millisecond)
	if !b.Expired() {
		t.Fatal("expected pending run to expire after long gap")
	}

	b.Feed(0, 'z')
	_, text := b.Flush()
	if text != "z" {
		t.Fatalf("expired run should have been discarded, got %q", text)
	}
}
