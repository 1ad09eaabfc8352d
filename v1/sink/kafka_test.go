package sink

import (
	"context"
	"os"
	"testing"

	sarama "github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"
)

func TestKafkaSinkEmitWithMockProducer(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	producer.ExpectSendMessageAndSucceed()

	s := NewKafkaSinkFromProducer(producer, "drained")
	if err := s.Emit(context.Background(), Message{ID: "1", Payload: []byte("hello")}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	// Close of a wrapped producer is a no-op; the mock detects unexpected
	// shutdown itself.
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := producer.Close(); err != nil {
		t.Fatalf("producer close: %v", err)
	}
}

func TestKafkaSinkEmitFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, mocks.NewTestConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	defer func() { _ = producer.Close() }()

	s := NewKafkaSinkFromProducer(producer, "drained")
	if err := s.Emit(context.Background(), Message{ID: "1", Payload: []byte("x")}); err == nil {
		t.Fatal("expected emit failure")
	}
}

func TestKafkaSinkRealBroker(t *testing.T) {
	addr := os.Getenv("STRAND_TEST_KAFKA_ADDR")
	if addr == "" {
		t.Skip("STRAND_TEST_KAFKA_ADDR not set, skipping Kafka integration test")
	}
	t.Logf("TestKafkaSink: using real Kafka at %s", addr)

	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	s, err := NewKafkaSink([]string{addr}, "strand-test-"+uuid.NewString(), cfg)
	if err != nil {
		t.Fatalf("NewKafkaSink: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if err := s.Emit(context.Background(), Message{ID: uuid.NewString(), Payload: []byte("hello")}); err != nil {
		t.Fatalf("emit: %v", err)
	}
}
