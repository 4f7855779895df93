package event

import (
	"context"

	"weather-api/internal/domain/model"
)

type Publisher interface {
	Publish(ctx context.Context, event model.BackgroundWorkEvent) error
}

// NoopPublisher discards events, used when no broker is configured
type NoopPublisher struct{}

var _ Publisher = NoopPublisher{}

func (NoopPublisher) Publish(context.Context, model.BackgroundWorkEvent) error {
	return nil
}
