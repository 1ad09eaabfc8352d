package sink

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	natsserver "github.com/nats-io/nats-server/v2/test"
	nats "github.com/nats-io/nats.go"
)

func newNATSSink(t *testing.T) (*NATSSink, *nats.Conn) {
	t.Helper()
	addr := os.Getenv("STRAND_TEST_NATS_ADDR")

	var conn *nats.Conn
	var s *server.Server
	var err error

	if addr != "" {
		t.Logf("TestNATSSink: using real NATS at %s", addr)
		conn, err = nats.Connect(addr)
	} else {
		t.Log("TestNATSSink: using embedded NATS server")
		s = natsserver.RunRandClientPortServer()
		conn, err = nats.Connect(s.ClientURL())
	}
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		conn.Close()
		if s != nil {
			s.Shutdown()
		}
	})
	return NewNATSSink(conn, "strand.drained"), conn
}

func TestNATSSinkEmit(t *testing.T) {
	snk, conn := newNATSSink(t)
	ctx := context.Background()

	got := make(chan []byte, 1)
	sub, err := conn.Subscribe("strand.drained", func(m *nats.Msg) {
		got <- m.Data
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer func() { _ = sub.Unsubscribe() }()

	if err := snk.Emit(ctx, Message{ID: "1", Payload: []byte("hello")}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	select {
	case data := <-got:
		if string(data) != "hello" {
			t.Fatalf("expected hello got %q", data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for delivery")
	}
}

func TestNATSSinkEmitCancelledContext(t *testing.T) {
	snk, _ := newNATSSink(t)
	ctx, cancelCtx := context.WithCancel(context.Background())
	cancelCtx()
	if err := snk.Emit(ctx, Message{ID: "1", Payload: []byte("x")}); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
