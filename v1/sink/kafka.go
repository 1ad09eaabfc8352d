package sink

import (
	"context"

	sarama "github.com/IBM/sarama"
)

// KafkaSink produces drained payloads to a Kafka topic.
type KafkaSink struct {
	producer sarama.SyncProducer
	topic    string
	owned    bool
}

// NewKafkaSink connects to the given brokers and returns a sink producing to
// topic. The sink owns the producer; Close shuts it down.
func NewKafkaSink(brokers []string, topic string, cfg *sarama.Config) (*KafkaSink, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	if !cfg.Producer.Return.Successes {
		cfg.Producer.Return.Successes = true
	}
	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return &KafkaSink{producer: producer, topic: topic, owned: true}, nil
}

// NewKafkaSinkFromProducer wraps an existing producer; the caller keeps
// ownership and Close becomes a no-op.
func NewKafkaSinkFromProducer(producer sarama.SyncProducer, topic string) *KafkaSink {
	return &KafkaSink{producer: producer, topic: topic}
}

// Emit implements Sink.Emit. The message id is carried as the Kafka key so
// downstream consumers can deduplicate redeliveries.
func (s *KafkaSink) Emit(ctx context.Context, msg Message) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	_, _, err := s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: s.topic,
		Key:   sarama.StringEncoder(msg.ID),
		Value: sarama.ByteEncoder(msg.Payload),
	})
	return err
}

// Close implements Sink.Close. Only a producer created by NewKafkaSink is
// shut down.
func (s *KafkaSink) Close() error {
	if !s.owned || s.producer == nil {
		return nil
	}
	return s.producer.Close()
}
