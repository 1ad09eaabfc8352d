package counter

import (
	"sync"
	"sync/atomic"
)

// Counter is a shared integer accumulator. Add applies a delta and returns
// the new value; Value returns the current value without modifying it. A
// Value read concurrent with in-flight Adds may be momentarily stale but
// never torn.
type Counter interface {
	// Add atomically applies delta and returns the resulting value.
	Add(delta int64) int64
	// Inc is shorthand for Add(1).
	Inc() int64
	// Value returns the current value.
	Value() int64
}

// Strategy selects the synchronization discipline used by New.
type Strategy int

const (
	// AtomicStrategy uses a single atomic fetch-and-add per operation.
	AtomicStrategy Strategy = iota
	// MutexStrategy guards the value with a mutex.
	MutexStrategy
	// UnsafeStrategy performs plain reads and writes with no
	// synchronization. It loses updates under concurrency and exists only
	// as a reference for demonstrating the race; never use it as a shared
	// tally.
	UnsafeStrategy
)

// Option configures counter.New.
type Option func(*factoryConfig)

type factoryConfig struct {
	strategy Strategy
	initial  int64
}

// WithStrategy selects the synchronization strategy. The default is
// AtomicStrategy.
func WithStrategy(s Strategy) Option {
	return func(cfg *factoryConfig) {
		cfg.strategy = s
	}
}

// WithInitial sets the starting value. The default is zero.
func WithInitial(v int64) Option {
	return func(cfg *factoryConfig) {
		cfg.initial = v
	}
}

// New returns a Counter using the selected strategy.
//
// By default a lock-free atomic counter is created. The mutex and unsafe
// strategies can be requested via WithStrategy.
func New(opts ...Option) Counter {
	cfg := factoryConfig{strategy: AtomicStrategy}
	for _, opt := range opts {
		opt(&cfg)
	}
	switch cfg.strategy {
	case MutexStrategy:
		return &mutexCounter{value: cfg.initial}
	case UnsafeStrategy:
		return &unsafeCounter{value: cfg.initial}
	default:
		c := &atomicCounter{}
		c.value.Store(cfg.initial)
		return c
	}
}

// atomicCounter is the lock-free realization: every operation is a single
// atomic instruction, so it never suspends the calling goroutine.
type atomicCounter struct {
	value atomic.Int64
}

func (c *atomicCounter) Add(delta int64) int64 {
	return c.value.Add(delta)
}

func (c *atomicCounter) Inc() int64 {
	return c.value.Add(1)
}

func (c *atomicCounter) Value() int64 {
	return c.value.Load()
}

// mutexCounter guards the value with a mutex. Reads lock too; an unguarded
// read would not be guaranteed to observe the latest write.
type mutexCounter struct {
	mu    sync.Mutex
	value int64
}

func (c *mutexCounter) Add(delta int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value += delta
	return c.value
}

func (c *mutexCounter) Inc() int64 {
	return c.Add(1)
}

func (c *mutexCounter) Value() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// unsafeCounter is the documented-incorrect realization. The read-modify-write
// in Add is not atomic: two goroutines can read the same value and both write
// back value+delta, losing one update.
type unsafeCounter struct {
	value int64
}

func (c *unsafeCounter) Add(delta int64) int64 {
	c.value += delta
	return c.value
}

func (c *unsafeCounter) Inc() int64 {
	return c.Add(1)
}

func (c *unsafeCounter) Value() int64 {
	return c.value
}
