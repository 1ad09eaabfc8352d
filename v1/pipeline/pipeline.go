package pipeline

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mirkobrombin/go-strand/v1/cancel"
	"github.com/mirkobrombin/go-strand/v1/channel"
	"github.com/mirkobrombin/go-strand/v1/counter"
	stranderrors "github.com/mirkobrombin/go-strand/v1/errors"
)

// Source yields the next item for one producer. Returning false stops that
// producer; the channel is closed once every producer has stopped.
type Source[T any] func(ctx context.Context) (T, bool)

// Drain receives one item on a consumer goroutine.
type Drain[T any] func(ctx context.Context, item T) error

// Pipeline moves items from producer goroutines to consumer goroutines
// through a bounded channel, counting both sides.
type Pipeline[T any] struct {
	ch        *channel.Bounded[T]
	source    Source[T]
	drain     Drain[T]
	producers int
	consumers int
	produced  counter.Counter
	consumed  counter.Counter
}

// Option configures pipeline.New.
type Option func(*config)

type config struct {
	producers int
	consumers int
}

// WithProducers sets the number of producer goroutines. The default is one.
func WithProducers(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.producers = n
		}
	}
}

// WithConsumers sets the number of consumer goroutines. The default is one.
func WithConsumers(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.consumers = n
		}
	}
}

// New returns a Pipeline over a channel of the given capacity.
func New[T any](capacity int, source Source[T], drain Drain[T], opts ...Option) *Pipeline[T] {
	cfg := config{producers: 1, consumers: 1}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Pipeline[T]{
		ch:        channel.New[T](capacity),
		source:    source,
		drain:     drain,
		producers: cfg.producers,
		consumers: cfg.consumers,
		produced:  counter.New(),
		consumed:  counter.New(),
	}
}

// Run executes the pipeline until every source is exhausted and the channel
// is drained, or until ctx ends. On context cancellation every blocked
// goroutine is unparked through its signal and Run returns the context's
// error.
func (p *Pipeline[T]) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	var prodWG sync.WaitGroup
	prodWG.Add(p.producers)
	for i := 0; i < p.producers; i++ {
		g.Go(func() error {
			defer prodWG.Done()
			sig := cancel.New()
			stop := sig.Bind(ctx)
			defer stop()
			defer sig.AcknowledgeTerminated()
			for {
				item, ok := p.source(ctx)
				if !ok {
					return nil
				}
				if err := p.ch.Put(sig, item); err != nil {
					if errors.Is(err, stranderrors.ErrCancelled) && ctx.Err() != nil {
						return ctx.Err()
					}
					return err
				}
				p.produced.Inc()
			}
		})
	}
	// Close once all producers are done so consumers observe end-of-channel.
	go func() {
		prodWG.Wait()
		p.ch.Close()
	}()

	for i := 0; i < p.consumers; i++ {
		g.Go(func() error {
			sig := cancel.New()
			stop := sig.Bind(ctx)
			defer stop()
			defer sig.AcknowledgeTerminated()
			for {
				item, ok, err := p.ch.Take(sig)
				if err != nil {
					if errors.Is(err, stranderrors.ErrCancelled) && ctx.Err() != nil {
						return ctx.Err()
					}
					return err
				}
				if !ok {
					return nil
				}
				if err := p.drain(ctx, item); err != nil {
					return err
				}
				p.consumed.Inc()
			}
		})
	}

	return g.Wait()
}

// Produced returns the number of items successfully enqueued so far.
func (p *Pipeline[T]) Produced() int64 {
	return p.produced.Value()
}

// Consumed returns the number of items successfully drained so far.
func (p *Pipeline[T]) Consumed() int64 {
	return p.consumed.Value()
}

// Channel exposes the underlying bounded channel, e.g. to inspect its phase
// or feed it from outside the configured sources.
func (p *Pipeline[T]) Channel() *channel.Bounded[T] {
	return p.ch
}
