package notifier

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	trackererr "sjsage522/pricetracker/pkg/errors"
)

// RedisNotifier publishes alerts to a Redis stream so downstream consumers
// (dashboards, bots) can pick them up. The stream is capped at maxLength
// entries using approximate trimming.
type RedisNotifier struct {
	client    *redis.Client
	stream    string
	maxLength int64
}

var _ Notifier = (*RedisNotifier)(nil)

// NewRedisNotifier creates a new Redis stream notifier.
func NewRedisNotifier(addr string, db int, stream string, maxLength int64) *RedisNotifier {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	return &RedisNotifier{
		client:    client,
		stream:    stream,
		maxLength: maxLength,
	}
}

// Notify appends the JSON-encoded alert to the stream.
func (n *RedisNotifier) Notify(ctx context.Context, alert Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return trackererr.NewNotification(alert.URL, "failed to encode alert", err)
	}

	err = n.client.XAdd(ctx, &redis.XAddArgs{
		Stream: n.stream,
		MaxLen: n.maxLength,
		Approx: true,
		Values: map[string]interface{}{
			"alert": payload,
		},
	}).Err()
	if err != nil {
		return trackererr.NewNotification(alert.URL, "failed to publish alert to stream", err)
	}
	return nil
}

// Close closes the Redis connection.
func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
