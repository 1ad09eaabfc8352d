package errors

import "errors"

var (
	// ErrClosed is returned by Put on a channel that has been closed.
	ErrClosed = errors.New("channel closed")
	// ErrCancelled is returned when a blocking call is abandoned because the
	// associated cancellation signal was raised.
	ErrCancelled = errors.New("cancelled")
	// ErrTimeout is returned by bounded-wait lock acquisition when the
	// deadline expires before every lock could be taken.
	ErrTimeout = errors.New("timeout")
)
