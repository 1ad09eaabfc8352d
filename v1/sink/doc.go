// Package sink forwards items drained from a bounded channel to external
// collaborators. The concurrency core itself does no I/O; a sink is the
// boundary where drained items leave process memory, with Redis, NATS and
// Kafka backends behind one interface. Drain runs the pull loop, tagging
// every message with a unique id and an OpenTelemetry span.
package sink
