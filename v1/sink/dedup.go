package sink

import (
	"context"
	"sync/atomic"

	"github.com/dgraph-io/ristretto"
)

// DedupSink decorates another sink, suppressing payloads that were emitted
// recently. Recency is tracked in a ristretto cache, so suppression is best
// effort: an evicted entry lets a duplicate through, never the other way
// around.
type DedupSink struct {
	next       Sink
	cache      *ristretto.Cache
	suppressed atomic.Uint64
}

// DedupOption configures the underlying ristretto cache.
type DedupOption func(*ristretto.Config)

// WithDedupConfig applies a custom ristretto configuration.
//
// If cfg is nil, defaults are used.
func WithDedupConfig(cfg *ristretto.Config) DedupOption {
	return func(c *ristretto.Config) {
		if cfg == nil {
			return
		}
		*c = *cfg
	}
}

// NewDedup wraps next with recent-payload suppression.
func NewDedup(next Sink, opts ...DedupOption) *DedupSink {
	cfg := &ristretto.Config{
		NumCounters: 1e4,     // number of payloads to track frequency of (10k).
		MaxCost:     1 << 20, // maximum cost of cache (1MB by default).
		BufferItems: 64,      // number of keys per Get buffer.
	}
	for _, opt := range opts {
		opt(cfg)
	}
	c, err := ristretto.NewCache(cfg)
	if err != nil {
		panic(err)
	}
	return &DedupSink{next: next, cache: c}
}

// Emit implements Sink.Emit, dropping payloads already seen recently.
func (s *DedupSink) Emit(ctx context.Context, msg Message) error {
	key := string(msg.Payload)
	if _, seen := s.cache.Get(key); seen {
		s.suppressed.Add(1)
		return nil
	}
	if err := s.next.Emit(ctx, msg); err != nil {
		return err
	}
	s.cache.Set(key, struct{}{}, int64(len(msg.Payload))+1)
	s.cache.Wait()
	return nil
}

// Suppressed returns how many duplicate payloads were dropped.
func (s *DedupSink) Suppressed() uint64 {
	return s.suppressed.Load()
}

// Close implements Sink.Close, releasing the cache and closing the wrapped
// sink.
func (s *DedupSink) Close() error {
	s.cache.Close()
	return s.next.Close()
}
