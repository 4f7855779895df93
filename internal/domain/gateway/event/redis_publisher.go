package event

import (
	"context"
	"fmt"
	"time"

	"weather-api/internal/domain/model"
	"weather-api/pkg/redis"
)

// BackgroundWorkChannel is the pub/sub channel, before namespacing, carrying background work events
const BackgroundWorkChannel = "background-work"

const publishTimeout = 500 * time.Millisecond

type RedisPublisher struct {
	publisher *redis.Publisher
}

var _ Publisher = (*RedisPublisher)(nil)

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{publisher: redis.NewPublisher(client)}
}

// Publish gives up after publishTimeout so a slow server cannot hold up the next run
func (p *RedisPublisher) Publish(ctx context.Context, event model.BackgroundWorkEvent) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if _, err := p.publisher.PublishJSON(ctx, BackgroundWorkChannel, event); err != nil {
		return fmt.Errorf("failed to publish %s event on %s: %w", event.Type, p.publisher.Channel(BackgroundWorkChannel), err)
	}
	return nil
}
