package backgroundwork

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"weather-api/internal/domain/gateway/console"
	"weather-api/internal/domain/gateway/event"
	"weather-api/internal/domain/gateway/metrics"
	"weather-api/internal/domain/model"
	"weather-api/pkg/log"
	"weather-api/pkg/msg"
	"weather-api/pkg/util/clock"
)

// TimeLayout renders the wall clock as hour:minute:second
const TimeLayout = "15:04:05"

type backgroundWorkUseCase struct {
	clock     clock.Clock
	console   console.Gateway
	publisher event.Publisher
	recorder  metrics.Recorder
}

func NewBackgroundWorkUseCase(clk clock.Clock, consoleGateway console.Gateway, publisher event.Publisher, recorder metrics.Recorder) UseCase {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if publisher == nil {
		publisher = event.NoopPublisher{}
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}

	return &backgroundWorkUseCase{
		clock:     clk,
		console:   consoleGateway,
		publisher: publisher,
		recorder:  recorder,
	}
}

func (uc *backgroundWorkUseCase) StartBackgroundWork(ctx context.Context) {
	uc.emit(ctx, model.BackgroundWorkStart, msg.GetMessage("background-work.start"))
}

func (uc *backgroundWorkUseCase) StopBackgroundWork(ctx context.Context) {
	uc.emit(ctx, model.BackgroundWorkStop, msg.GetMessage("background-work.stop"))
}

func (uc *backgroundWorkUseCase) emit(ctx context.Context, eventType model.BackgroundWorkEventType, text string) {
	now := uc.clock.Now()
	line := now.Format(TimeLayout) + " - " + text
	runID := uuid.New().String()

	uc.console.WriteLine(line)
	uc.recorder.RecordBackgroundWork(ctx, eventType)

	err := uc.publisher.Publish(ctx, model.BackgroundWorkEvent{
		Type:    eventType,
		Time:    now,
		RunID:   runID,
		Message: line,
	})
	if err != nil {
		log.Error(msg.GetMessage("background-work.error.publish-failed", err),
			zap.String("run_id", runID),
			zap.String("type", string(eventType)),
			zap.Error(err),
		)
	}
}
