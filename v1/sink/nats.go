package sink

import (
	"context"

	nats "github.com/nats-io/nats.go"
)

// NATSSink publishes drained payloads on a NATS subject. The connection is
// owned by the caller.
type NATSSink struct {
	conn    *nats.Conn
	subject string
}

// NewNATSSink returns a sink publishing on subject.
func NewNATSSink(conn *nats.Conn, subject string) *NATSSink {
	return &NATSSink{conn: conn, subject: subject}
}

// Emit implements Sink.Emit.
func (s *NATSSink) Emit(ctx context.Context, msg Message) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return s.conn.Publish(s.subject, msg.Payload)
}

// Close implements Sink.Close. The connection stays open.
func (s *NATSSink) Close() error {
	return nil
}
