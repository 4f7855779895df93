package event

import (
	"context"
	"encoding/json"
	"fmt"

	"weather-api/internal/domain/model"
	"weather-api/pkg/redis"
)

// RedisSubscriber follows the background work events published by RedisPublisher
type RedisSubscriber struct {
	client *redis.Client
}

func NewRedisSubscriber(client *redis.Client) *RedisSubscriber {
	return &RedisSubscriber{client: client}
}

// Listen calls handle for every event until ctx is done. Payloads that are not events are reported to the logger and skipped.
func (s *RedisSubscriber) Listen(ctx context.Context, handle func(model.BackgroundWorkEvent)) error {
	subscriber := redis.NewSubscriber(s.client, redis.HandlerFunc(func(_ context.Context, channel string, message string) error {
		var event model.BackgroundWorkEvent
		if err := json.Unmarshal([]byte(message), &event); err != nil {
			return fmt.Errorf("invalid background work event on %s: %w", channel, err)
		}
		handle(event)
		return nil
	}))
	defer subscriber.Close()

	if err := subscriber.Subscribe(ctx, BackgroundWorkChannel); err != nil {
		return err
	}
	return subscriber.Listen(ctx)
}
