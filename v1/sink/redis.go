package sink

import (
	"context"

	redis "github.com/redis/go-redis/v9"
)

// RedisSink appends drained payloads to a Redis list. The client is owned by
// the caller.
type RedisSink struct {
	client *redis.Client
	list   string
}

// NewRedisSink returns a sink pushing onto the given list.
func NewRedisSink(client *redis.Client, list string) *RedisSink {
	return &RedisSink{client: client, list: list}
}

// Emit implements Sink.Emit with a single RPUSH, preserving drain order.
func (s *RedisSink) Emit(ctx context.Context, msg Message) error {
	return s.client.RPush(ctx, s.list, msg.Payload).Err()
}

// Close implements Sink.Close. The Redis client stays open.
func (s *RedisSink) Close() error {
	return nil
}
