package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRunMovesEverything(t *testing.T) {
	const total = 1000
	var next int64
	var mu sync.Mutex
	source := func(ctx context.Context) (int64, bool) {
		mu.Lock()
		defer mu.Unlock()
		if next >= total {
			return 0, false
		}
		next++
		return next, true
	}

	var got sync.Map
	p := New(4, source, func(ctx context.Context, item int64) error {
		if _, dup := got.LoadOrStore(item, true); dup {
			return errors.New("duplicate delivery")
		}
		return nil
	}, WithProducers(3), WithConsumers(2))

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if p.Produced() != total || p.Consumed() != total {
		t.Fatalf("expected %d/%d got %d/%d", total, total, p.Produced(), p.Consumed())
	}
	count := 0
	got.Range(func(_, _ any) bool { count++; return true })
	if count != total {
		t.Fatalf("expected %d distinct items got %d", total, count)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	// An endless source with no consumer progress: Run must end promptly
	// once the context is cancelled, unparking producers blocked on Put.
	source := func(ctx context.Context) (int, bool) { return 1, true }
	block := make(chan struct{})
	p := New(1, source, func(ctx context.Context, item int) error {
		<-block
		return nil
	})

	ctx, cancelCtx := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- p.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancelCtx()
	close(block)
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline did not stop after context cancellation")
	}
}

func TestRunPropagatesDrainError(t *testing.T) {
	boom := errors.New("boom")
	var next int
	var mu sync.Mutex
	source := func(ctx context.Context) (int, bool) {
		mu.Lock()
		defer mu.Unlock()
		next++
		return next, next <= 100
	}
	p := New(2, source, func(ctx context.Context, item int) error {
		if item == 5 {
			return boom
		}
		return nil
	})
	if err := p.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected boom got %v", err)
	}
}
