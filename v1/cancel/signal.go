package cancel

import (
	"context"
	"sync"

	uuid "github.com/hashicorp/go-uuid"

	stranderrors "github.com/mirkobrombin/go-strand/v1/errors"
)

// State describes the lifecycle position of a Signal.
type State int

const (
	// Running is the initial state: no cancellation has been requested.
	Running State = iota
	// CancelRequested means a supervisor asked the worker to stop.
	CancelRequested
	// Terminated means the worker acknowledged cancellation and unwound.
	Terminated
)

// ErrCancelled is re-exported for call sites that only import cancel.
var ErrCancelled = stranderrors.ErrCancelled

// Signal is a cooperative cancellation flag with a waker registry. Blocking
// primitives register a waker for the duration of each wait so that
// RequestCancel can unpark them promptly. All methods are safe for concurrent
// use; Cancelled and AddWaker tolerate a nil receiver so that blocking calls
// can be used without a signal.
type Signal struct {
	mu     sync.Mutex
	state  State
	id     string
	done   chan struct{}
	wakers map[int]func()
	nextID int
}

// New returns a Signal in the Running state with a unique task id.
func New() *Signal {
	id, err := uuid.GenerateUUID()
	if err != nil {
		// GenerateUUID only fails when the system entropy source does;
		// a degraded id is preferable to failing task construction.
		id = "signal"
	}
	return &Signal{
		id:     id,
		done:   make(chan struct{}),
		wakers: make(map[int]func()),
	}
}

// ID returns the task id assigned at construction.
func (s *Signal) ID() string {
	if s == nil {
		return ""
	}
	return s.id
}

// State returns the current lifecycle state.
func (s *Signal) State() State {
	if s == nil {
		return Running
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Cancelled reports whether cancellation has been requested. It stays true
// once the signal reaches Terminated.
func (s *Signal) Cancelled() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != Running
}

// Done returns a channel closed on the first RequestCancel, for select-based
// waits.
func (s *Signal) Done() <-chan struct{} {
	if s == nil {
		return nil
	}
	return s.done
}

// RequestCancel transitions Running to CancelRequested and fires every
// registered waker. It is idempotent and a no-op after Terminated.
func (s *Signal) RequestCancel() {
	if s == nil {
		return
	}
	s.mu.Lock()
	if s.state != Running {
		s.mu.Unlock()
		return
	}
	s.state = CancelRequested
	close(s.done)
	wakers := make([]func(), 0, len(s.wakers))
	for _, w := range s.wakers {
		wakers = append(wakers, w)
	}
	s.mu.Unlock()
	for _, w := range wakers {
		w()
	}
}

// AcknowledgeTerminated marks the signal Terminated. It is called by the
// worker once it has unwound its own state; the signal cannot be reused.
func (s *Signal) AcknowledgeTerminated() {
	if s == nil {
		return
	}
	s.mu.Lock()
	if s.state == Running {
		// Termination without a prior request still closes Done so that
		// Wait-style observers are released.
		close(s.done)
	}
	s.state = Terminated
	s.mu.Unlock()
}

// AddWaker registers fn to run when cancellation is requested and returns a
// function removing the registration. If cancellation was already requested,
// fn runs immediately and the returned remove is a no-op.
func (s *Signal) AddWaker(fn func()) (remove func()) {
	if s == nil {
		return func() {}
	}
	s.mu.Lock()
	if s.state != Running {
		s.mu.Unlock()
		fn()
		return func() {}
	}
	id := s.nextID
	s.nextID++
	s.wakers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.wakers, id)
		s.mu.Unlock()
	}
}

// Bind requests cancellation when ctx ends. It returns a stop function that
// detaches the signal from the context without cancelling it.
func (s *Signal) Bind(ctx context.Context) (stop func()) {
	if s == nil {
		return func() {}
	}
	// The detached flag, not the stop channel, is authoritative: when stop
	// and the context race, the select below may still pick the Done case,
	// and must not cancel a signal the caller already detached.
	var mu sync.Mutex
	detached := false
	stopCh := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			mu.Lock()
			if !detached {
				s.RequestCancel()
			}
			mu.Unlock()
		case <-stopCh:
		case <-s.done:
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			mu.Lock()
			detached = true
			mu.Unlock()
			close(stopCh)
		})
	}
}
