package pipeline

import (
	"errors"
	"sync"

	"github.com/mirkobrombin/go-strand/v1/cancel"
)

// Worker is a supervised background task. It owns a cancellation signal and
// is always joined: there is no detached "daemon" mode that gets killed
// abruptly at process exit.
type Worker struct {
	name string
	sig  *cancel.Signal
	done chan struct{}

	mu  sync.Mutex
	err error
}

// Name returns the worker's name.
func (w *Worker) Name() string { return w.name }

// Signal returns the worker's cancellation signal, e.g. to hand to blocking
// calls outside the worker function.
func (w *Worker) Signal() *cancel.Signal { return w.sig }

// Wait blocks until the worker function has returned and reports its error.
func (w *Worker) Wait() error {
	<-w.done
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Cancel requests cancellation and joins the worker.
func (w *Worker) Cancel() error {
	w.sig.RequestCancel()
	return w.Wait()
}

// Supervisor starts and tracks background workers. Shutdown cancels and
// joins every worker before returning, replacing reliance on abrupt
// process-exit termination.
type Supervisor struct {
	mu      sync.Mutex
	workers []*Worker
}

// NewSupervisor returns an empty Supervisor.
func NewSupervisor() *Supervisor {
	return &Supervisor{}
}

// Go starts fn on its own goroutine under a fresh cancellation signal. The
// signal is marked Terminated when fn returns, whether it observed
// cancellation or finished naturally.
func (s *Supervisor) Go(name string, fn func(sig *cancel.Signal) error) *Worker {
	w := &Worker{
		name: name,
		sig:  cancel.New(),
		done: make(chan struct{}),
	}
	s.mu.Lock()
	s.workers = append(s.workers, w)
	s.mu.Unlock()

	go func() {
		err := fn(w.sig)
		w.sig.AcknowledgeTerminated()
		w.mu.Lock()
		w.err = err
		w.mu.Unlock()
		close(w.done)
	}()
	return w
}

// Workers returns the workers started so far.
func (s *Supervisor) Workers() []*Worker {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Worker, len(s.workers))
	copy(out, s.workers)
	return out
}

// Shutdown cancels every worker, joins them all and returns their combined
// errors.
func (s *Supervisor) Shutdown() error {
	var errs []error
	for _, w := range s.Workers() {
		if err := w.Cancel(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
