package channel

import (
	"fmt"
	"sync"

	"github.com/mirkobrombin/go-strand/v1/cancel"
	stranderrors "github.com/mirkobrombin/go-strand/v1/errors"
	"github.com/mirkobrombin/go-strand/v1/metrics"
)

// Phase describes where a channel is in its lifecycle.
type Phase int

const (
	// Open accepts both Put and Take.
	Open Phase = iota
	// Draining is closed with items still buffered; Take keeps working.
	Draining
	// Done is closed and empty; Take reports end-of-channel.
	Done
)

// Bounded is a thread-safe bounded FIFO channel. The buffer is mutated only
// while holding mu; notFull and notEmpty are the monitor's condition
// variables. Waits re-check their predicate in a loop, so spurious or
// broadcast wakeups are harmless.
type Bounded[T any] struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond
	items    []T
	capacity int
	closed   bool
}

// New returns an open channel with the given capacity. It panics if capacity
// is less than one; a zero-capacity rendezvous is not supported.
func New[T any](capacity int) *Bounded[T] {
	if capacity < 1 {
		panic(fmt.Sprintf("channel: capacity must be >= 1, got %d", capacity))
	}
	b := &Bounded[T]{
		items:    make([]T, 0, capacity),
		capacity: capacity,
	}
	b.notFull = sync.NewCond(&b.mu)
	b.notEmpty = sync.NewCond(&b.mu)
	return b
}

// attach registers a waker broadcasting both condition variables for the
// duration of one blocking call, so that sig.RequestCancel unparks it. The
// waker takes the monitor mutex first: a broadcast between a waiter's
// predicate check and its Wait would otherwise be lost, leaving the waiter
// parked past its cancellation.
func (b *Bounded[T]) attach(sig *cancel.Signal) (detach func()) {
	return sig.AddWaker(func() {
		b.mu.Lock()
		b.notFull.Broadcast()
		b.notEmpty.Broadcast()
		b.mu.Unlock()
	})
}

// Put appends item at the tail, blocking while the channel is full. It
// returns ErrClosed once the channel is closed and ErrCancelled when sig is
// raised; in both cases the buffer is left untouched.
func (b *Bounded[T]) Put(sig *cancel.Signal, item T) error {
	detach := b.attach(sig)
	defer detach()

	b.mu.Lock()
	defer b.mu.Unlock()
	for {
		if sig.Cancelled() {
			metrics.CancelCounter.Inc()
			return stranderrors.ErrCancelled
		}
		if b.closed {
			return stranderrors.ErrClosed
		}
		if len(b.items) < b.capacity {
			break
		}
		metrics.BlockedProducers.Inc()
		b.notFull.Wait()
		metrics.BlockedProducers.Dec()
	}
	b.items = append(b.items, item)
	metrics.PutCounter.Inc()
	b.notEmpty.Broadcast()
	return nil
}

// Take removes and returns the head item, blocking while the channel is open
// and empty. The boolean is false exactly when the channel is closed and
// fully drained; the error is ErrCancelled when sig is raised during entry or
// a wait.
func (b *Bounded[T]) Take(sig *cancel.Signal) (T, bool, error) {
	var zero T

	detach := b.attach(sig)
	defer detach()

	b.mu.Lock()
	defer b.mu.Unlock()
	for len(b.items) == 0 {
		if sig.Cancelled() {
			metrics.CancelCounter.Inc()
			return zero, false, stranderrors.ErrCancelled
		}
		if b.closed {
			return zero, false, nil
		}
		metrics.BlockedConsumers.Inc()
		b.notEmpty.Wait()
		metrics.BlockedConsumers.Dec()
	}
	item := b.items[0]
	b.items = b.items[1:]
	metrics.TakeCounter.Inc()
	b.notFull.Broadcast()
	return item, true, nil
}

// Close moves the channel out of Open. Blocked producers are released with
// ErrClosed; blocked consumers wake to drain the remaining items or observe
// end-of-channel. Buffered items are never dropped; see CloseDiscard for
// that. Close is idempotent.
func (b *Bounded[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.notFull.Broadcast()
	b.notEmpty.Broadcast()
}

// CloseDiscard closes the channel and empties the buffer, returning whatever
// was still queued. This is the explicit close-then-discard variant; plain
// Close keeps buffered items takeable.
func (b *Bounded[T]) CloseDiscard() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	dropped := b.items
	b.items = nil
	b.closed = true
	b.notFull.Broadcast()
	b.notEmpty.Broadcast()
	return dropped
}

// Len returns the number of buffered items.
func (b *Bounded[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Cap returns the channel capacity.
func (b *Bounded[T]) Cap() int {
	return b.capacity
}

// Closed reports whether Close or CloseDiscard has been called. Buffered
// items may still be pending; see Phase for the full lifecycle.
func (b *Bounded[T]) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

// Phase returns the current lifecycle phase.
func (b *Bounded[T]) Phase() Phase {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case !b.closed:
		return Open
	case len(b.items) > 0:
		return Draining
	default:
		return Done
	}
}
