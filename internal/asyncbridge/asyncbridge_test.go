package asyncbridge

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestPostDrainFIFO(t *testing.T) {
	b := New()
	b.Post(Message{Kind: "a"})
	b.Post(Message{Kind: "b"})
	b.Post(Message{Kind: "c"})

	drained := b.Drain(0)
	if len(drained) != 3 || drained[0].Kind != "a" || drained[2].Kind != "c" {
		t.Fatalf("got %+v", drained)
	}
	if b.Pending() != 0 {
		t.Fatalf("expected empty inbox after full drain")
	}
}

func TestDrainRespectsPerFrameBudget(t *testing.T) {
	b := New()
	for i := 0; i < 10; i++ {
		b.Post(Message{Kind: "msg"})
	}

	first := b.Drain(4)
	if len(first) != 4 || b.Pending() != 6 {
		t.Fatalf("got %d drained, %d pending", len(first), b.Pending())
	}
	second := b.Drain(100)
	if len(second) != 6 || b.Pending() != 0 {
		t.Fatalf("got %d drained, %d pending", len(second), b.Pending())
	}
}

func TestPostIsSafeForConcurrentProducers(t *testing.T) {
	b := New()
	var wg sync.WaitGroup
	const producers, perProducer = 20, 50
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				b.Post(Message{Kind: "msg"})
			}
		}()
	}
	wg.Wait()
	if got := b.Pending(); got != producers*perProducer {
		t.Fatalf("got %d pending, want %d", got, producers*perProducer)
	}
}

func TestCancelPostsCancelledMessage(t *testing.T) {
	b := New()
	reqs := NewRequests(b)

	id, ctx := reqs.Begin(context.Background())
	reqs.Cancel(id)

	if ctx.Err() == nil {
		t.Fatal("expected worker context to be cancelled")
	}
	msgs := b.Drain(0)
	if len(msgs) != 1 || msgs[0].Kind != KindCancelled || msgs[0].RequestID != id {
		t.Fatalf("got %+v", msgs)
	}
}

func TestCompleteReleasesWithoutPostingCancelled(t *testing.T) {
	b := New()
	reqs := NewRequests(b)

	id, _ := reqs.Begin(context.Background())
	b.Post(Message{RequestID: id, Kind: "result"})
	reqs.Complete(id)

	msgs := b.Drain(0)
	if len(msgs) != 1 || msgs[0].Kind != "result" {
		t.Fatalf("got %+v", msgs)
	}
}

func TestSupervisorPropagatesFirstError(t *testing.T) {
	wantErr := errors.New("lsp transport failed")
	sup := NewSupervisor(context.Background())

	sup.Go("ok-worker", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
	sup.Go("failing-worker", func(ctx context.Context) error {
		return wantErr
	})

	if err := sup.Wait(); err != wantErr {
		t.Fatalf("got %v, want %v", err, wantErr)
	}
}

func TestSupervisorCancelsSiblingsOnFailure(t *testing.T) {
	sup := NewSupervisor(context.Background())

	sup.Go("failing-worker", func(ctx context.Context) error {
		return errors.New("boom")
	})
	sibling := make(chan error, 1)
	sup.Go("sibling-worker", func(ctx context.Context) error {
		<-ctx.Done()
		sibling <- ctx.Err()
		return ctx.Err()
	})

	sup.Wait()
	if err := <-sibling; err == nil {
		t.Fatal("expected sibling worker's context to be cancelled")
	}
}
