package sink

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mirkobrombin/go-strand/v1/cancel"
	"github.com/mirkobrombin/go-strand/v1/channel"
)

var tracer = otel.Tracer("github.com/mirkobrombin/go-strand/v1/sink")

// Message is one drained item on its way out of the process.
type Message struct {
	ID      string
	Payload []byte
}

// Sink delivers drained messages to an external collaborator.
type Sink interface {
	// Emit delivers one message. Implementations must be safe for
	// concurrent use.
	Emit(ctx context.Context, msg Message) error
	// Close releases resources owned by the sink. Connections supplied by
	// the caller stay open.
	Close() error
}

// Drain pulls items from ch and emits each through s until end-of-channel,
// cancellation or an emit failure. It returns the number of messages emitted.
// On cancellation the in-flight item, if any, was already emitted; nothing is
// silently dropped.
func Drain(ctx context.Context, ch *channel.Bounded[[]byte], s Sink, sig *cancel.Signal) (int64, error) {
	var emitted int64
	for {
		payload, ok, err := ch.Take(sig)
		if err != nil {
			return emitted, err
		}
		if !ok {
			return emitted, nil
		}
		msg := Message{ID: uuid.NewString(), Payload: payload}
		spanCtx, span := tracer.Start(ctx, "Sink.Emit")
		span.SetAttributes(
			attribute.String("message.id", msg.ID),
			attribute.Int("message.bytes", len(msg.Payload)),
		)
		err = s.Emit(spanCtx, msg)
		span.End()
		if err != nil {
			return emitted, err
		}
		emitted++
	}
}
