// Package counter provides a shared integer accumulator safe for concurrent
// use. Three realizations sit behind the same interface: a mutex-protected
// counter, a lock-free atomic counter, and an intentionally unsynchronized
// counter kept as a negative reference demonstrating lost updates. The
// atomic strategy is the default; the unsafe strategy must be requested
// explicitly and is never correct under concurrency.
package counter
