package metrics

import (
	"context"

	"weather-api/internal/domain/model"
)

// Recorder counts domain operations
type Recorder interface {
	RecordForecastRequest(ctx context.Context)
	RecordBackgroundWork(ctx context.Context, eventType model.BackgroundWorkEventType)
}

type NoopRecorder struct{}

var _ Recorder = NoopRecorder{}

func (NoopRecorder) RecordForecastRequest(context.Context) {}

func (NoopRecorder) RecordBackgroundWork(context.Context, model.BackgroundWorkEventType) {}
