// Package pipeline drives producer and consumer goroutines over a bounded
// channel, tallying throughput with shared counters. It also provides a
// Supervisor for long-lived background workers: each worker gets its own
// cancellation signal, and shutdown always requests cancellation and joins
// the worker instead of abandoning it at process exit.
package pipeline
