// Package cancel implements cooperative cancellation for blocking primitives.
// A Signal is a small state machine shared between a supervisor and a worker:
// the supervisor requests cancellation, every blocking call the worker is
// parked in wakes up and returns ErrCancelled, and the worker acknowledges
// termination once it has unwound. Cancellation is never forced; a worker that
// ignores its signal keeps running.
package cancel
