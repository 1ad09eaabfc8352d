package sink

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"

	"github.com/mirkobrombin/go-strand/v1/channel"
)

func newRedisSink(t *testing.T) (*RedisSink, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return NewRedisSink(client, "drained"), client
}

func TestRedisSinkEmit(t *testing.T) {
	s, client := newRedisSink(t)
	ctx := context.Background()
	if err := s.Emit(ctx, Message{ID: "1", Payload: []byte("hello")}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	got, err := client.LRange(ctx, "drained", 0, -1).Result()
	if err != nil {
		t.Fatalf("lrange: %v", err)
	}
	if len(got) != 1 || got[0] != "hello" {
		t.Fatalf("expected [hello] got %v", got)
	}
}

func TestRedisSinkPreservesDrainOrder(t *testing.T) {
	s, client := newRedisSink(t)
	ctx := context.Background()

	ch := channel.New[[]byte](2)
	go func() {
		for _, v := range []string{"a", "b", "c", "d", "e"} {
			_ = ch.Put(nil, []byte(v))
		}
		ch.Close()
	}()

	n, err := Drain(ctx, ch, s, nil)
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected 5 emitted got %d", n)
	}
	got, err := client.LRange(ctx, "drained", 0, -1).Result()
	if err != nil {
		t.Fatalf("lrange: %v", err)
	}
	want := []string{"a", "b", "c", "d", "e"}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: expected %q got %q", i, want[i], got[i])
		}
	}
}
