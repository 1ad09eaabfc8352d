package lockset

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mirkobrombin/go-strand/v1/cancel"
	stranderrors "github.com/mirkobrombin/go-strand/v1/errors"
	"github.com/mirkobrombin/go-strand/v1/metrics"
)

// LockSet is a family of named locks with a fixed total order. The order is
// assigned at construction and never changes for the set's lifetime.
type LockSet struct {
	handles  []*Handle
	byName   map[string]*Handle
	validate atomic.Bool

	heldMu sync.Mutex
	held   map[int64][]int // goroutine id -> ranks currently held, ascending
}

// Handle is one lock of a LockSet. The lock itself is a one-slot channel so
// that a blocked acquisition can also wait on cancellation or a deadline.
// Handle implements sync.Locker for single-lock call sites.
type Handle struct {
	set  *LockSet
	name string
	rank int
	ch   chan struct{}
}

// New builds a LockSet from the given lock names. Rank follows argument
// order: the first name gets the lowest rank. It panics on duplicate names,
// which indicate a programming error in the resource family declaration.
func New(names ...string) *LockSet {
	s := &LockSet{
		byName: make(map[string]*Handle, len(names)),
		held:   make(map[int64][]int),
	}
	for i, name := range names {
		if _, dup := s.byName[name]; dup {
			panic(fmt.Sprintf("lockset: duplicate lock name %q", name))
		}
		h := &Handle{set: s, name: name, rank: i, ch: make(chan struct{}, 1)}
		s.handles = append(s.handles, h)
		s.byName[name] = h
	}
	return s
}

// Handle returns the named lock, or nil if the set does not contain it.
func (s *LockSet) Handle(name string) *Handle {
	return s.byName[name]
}

// Handles returns every lock of the set in rank order.
func (s *LockSet) Handles() []*Handle {
	out := make([]*Handle, len(s.handles))
	copy(out, s.handles)
	return out
}

// SetValidate toggles the debug acquisition-order validator. When enabled,
// every acquisition is checked against the ranks the calling goroutine
// already holds, and an out-of-order acquisition panics. Intended for tests
// and debug builds; it costs a runtime.Stack parse per lock operation.
func (s *LockSet) SetValidate(on bool) {
	s.validate.Store(on)
}

// Name returns the lock's name.
func (h *Handle) Name() string { return h.name }

// Rank returns the lock's position in the set's total order.
func (h *Handle) Rank() int { return h.rank }

// Lock acquires the single lock, blocking until it is free. Under the debug
// validator it panics if the calling goroutine already holds a lock of equal
// or higher rank from the same set.
func (h *Handle) Lock() {
	h.ch <- struct{}{}
	h.set.recordAcquire(h)
}

// Unlock releases the lock.
func (h *Handle) Unlock() {
	h.set.recordRelease(h)
	select {
	case <-h.ch:
	default:
		panic(fmt.Sprintf("lockset: unlock of unlocked lock %q", h.name))
	}
}

// acquire takes the lock while also watching sig. The buffer/lock state is
// untouched when it returns ErrCancelled.
func (h *Handle) acquire(sig *cancel.Signal) error {
	if sig.Cancelled() {
		return stranderrors.ErrCancelled
	}
	select {
	case h.ch <- struct{}{}:
	case <-sig.Done():
		return stranderrors.ErrCancelled
	}
	// Done and the lock slot can become ready together; prefer cancellation
	// so a cancelled caller never walks away holding locks.
	if sig.Cancelled() {
		<-h.ch
		return stranderrors.ErrCancelled
	}
	h.set.recordAcquire(h)
	return nil
}

// acquireDeadline takes the lock or gives up at deadline.
func (h *Handle) acquireDeadline(deadline time.Time) error {
	select {
	case h.ch <- struct{}{}:
		h.set.recordAcquire(h)
		return nil
	default:
	}
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return stranderrors.ErrTimeout
	}
	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case h.ch <- struct{}{}:
		h.set.recordAcquire(h)
		return nil
	case <-timer.C:
		return stranderrors.ErrTimeout
	}
}

// Guard holds a set of acquired locks and releases them in descending rank
// order. Release is idempotent; the zero Guard is not valid.
type Guard struct {
	locks    []*Handle // ascending rank
	released atomic.Bool
}

// Release frees every lock of the guard in reverse acquisition order. Calling
// it more than once is a no-op.
func (g *Guard) Release() {
	if !g.released.CompareAndSwap(false, true) {
		return
	}
	for i := len(g.locks) - 1; i >= 0; i-- {
		g.locks[i].Unlock()
	}
}

// ordered returns the requested locks sorted by ascending rank, panicking on
// duplicates: acquiring the same lock twice in one call would self-deadlock.
func ordered(hs []*Handle) []*Handle {
	sorted := make([]*Handle, len(hs))
	copy(sorted, hs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].rank < sorted[j].rank })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].set != sorted[0].set {
			panic(fmt.Sprintf("lockset: lock %q belongs to a different set; ranks are only ordered within one set", sorted[i].name))
		}
		if sorted[i].rank == sorted[i-1].rank {
			panic(fmt.Sprintf("lockset: lock %q requested twice", sorted[i].name))
		}
	}
	return sorted
}

// Acquire takes the requested locks in ascending rank order, regardless of
// the order they were passed in, and returns a Guard releasing them in the
// reverse order. It blocks until every lock is held; if sig is raised while
// waiting, the already-acquired prefix is released and ErrCancelled returned.
func (s *LockSet) Acquire(sig *cancel.Signal, hs ...*Handle) (*Guard, error) {
	sorted := ordered(hs)
	for i, h := range sorted {
		if err := h.acquire(sig); err != nil {
			for j := i - 1; j >= 0; j-- {
				sorted[j].Unlock()
			}
			metrics.CancelCounter.Inc()
			return nil, err
		}
	}
	metrics.AcquireCounter.Inc()
	return &Guard{locks: sorted}, nil
}

// TryAcquire is the bounded-wait variant of Acquire. The timeout covers the
// whole acquisition, not each lock; on expiry the acquired prefix is released
// in reverse order and ErrTimeout returned, leaving every lock as if the call
// had never been attempted. The bound is best effort, not a real-time
// guarantee.
func (s *LockSet) TryAcquire(timeout time.Duration, hs ...*Handle) (*Guard, error) {
	sorted := ordered(hs)
	deadline := time.Now().Add(timeout)
	for i, h := range sorted {
		if err := h.acquireDeadline(deadline); err != nil {
			for j := i - 1; j >= 0; j-- {
				sorted[j].Unlock()
			}
			metrics.AcquireTimeoutCounter.Inc()
			return nil, err
		}
	}
	metrics.AcquireCounter.Inc()
	return &Guard{locks: sorted}, nil
}
