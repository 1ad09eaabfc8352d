package monitor

import (
	"context"
	"sync"
)

// Feed fans progress events out to observers. Delivery is best effort: a
// subscriber that is not keeping up is skipped rather than blocking the
// publisher, so the concurrency core never stalls on observation.
type Feed struct {
	mu   sync.Mutex
	subs []chan []byte
}

// NewFeed creates an empty Feed.
func NewFeed() *Feed {
	return &Feed{}
}

// Publish sends data to every current subscriber.
func (f *Feed) Publish(ctx context.Context, data []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	// Sends happen under the mutex so Unsubscribe cannot close a channel
	// mid-publish. They never block, so holding it here is cheap.
	f.mu.Lock()
	for _, ch := range f.subs {
		select {
		case ch <- data:
		default:
		}
	}
	f.mu.Unlock()
	return nil
}

// Subscribe registers an observer. The returned channel receives event
// payloads until the context is canceled or Unsubscribe is called.
func (f *Feed) Subscribe(ctx context.Context) (chan []byte, error) {
	ch := make(chan []byte, 16)
	f.mu.Lock()
	f.subs = append(f.subs, ch)
	f.mu.Unlock()
	go func() {
		<-ctx.Done()
		_ = f.Unsubscribe(context.Background(), ch)
	}()
	return ch, nil
}

// Unsubscribe stops delivering events to ch and closes it.
func (f *Feed) Unsubscribe(ctx context.Context, ch chan []byte) error {
	f.mu.Lock()
	for i, c := range f.subs {
		if c == ch {
			f.subs[i] = f.subs[len(f.subs)-1]
			f.subs = f.subs[:len(f.subs)-1]
			close(c)
			break
		}
	}
	f.mu.Unlock()
	return nil
}

// Subscribers returns the current number of observers.
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
