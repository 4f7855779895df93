package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"weather-api/internal/domain/model"
	"weather-api/internal/domain/usecase/backgroundwork"
	"weather-api/pkg/log"
	"weather-api/pkg/msg"
)

const backgroundWorkJobName = "background-work"

// MinInterval is the shortest interval accepted, shorter ones are raised to it
const MinInterval = 10 * time.Millisecond

var (
	ErrSchedulerStarted = errors.New("background work scheduler already started")
	ErrSchedulerStopped = errors.New("background work scheduler is stopped")
)

type schedulerState int

const (
	stateCreated schedulerState = iota
	stateRunning
	stateStopped
)

// BackgroundWorkSchedulerConfig holds configuration for the background work scheduler
type BackgroundWorkSchedulerConfig struct {
	Interval    time.Duration
	StopTimeout time.Duration
}

// BackgroundWorkScheduler owns the recurring timer driving the background work.
// Its lifetime is the service lifetime: created at start, released by Stop.
type BackgroundWorkScheduler struct {
	scheduler gocron.Scheduler
	job       gocron.Job
	useCase   backgroundwork.UseCase
	config    *BackgroundWorkSchedulerConfig
	ctx       context.Context
	cancel    context.CancelFunc

	// mutex serializes runs with the stop transition so no run writes after the stop line
	mutex sync.Mutex
	state schedulerState
}

// NewBackgroundWorkScheduler creates a stopped scheduler, call Start to run it
func NewBackgroundWorkScheduler(useCase backgroundwork.UseCase, config *BackgroundWorkSchedulerConfig) (*BackgroundWorkScheduler, error) {
	if config == nil {
		config = &BackgroundWorkSchedulerConfig{}
	}
	if config.Interval <= 0 {
		config.Interval = time.Second
	} else if config.Interval < MinInterval {
		config.Interval = MinInterval
	}
	if config.StopTimeout <= 0 {
		config.StopTimeout = 5 * time.Second
	}

	scheduler, err := gocron.NewScheduler(
		gocron.WithLogger(log.SchedulerLogger{}),
		gocron.WithStopTimeout(config.StopTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &BackgroundWorkScheduler{
		scheduler: scheduler,
		useCase:   useCase,
		config:    config,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Start runs the background work once, synchronously, then
// schedules it every configured interval. The lock is held until the
// scheduler runs so a concurrent Stop always shuts down a started scheduler.
func (s *BackgroundWorkScheduler) Start() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	switch s.state {
	case stateRunning:
		return ErrSchedulerStarted
	case stateStopped:
		return ErrSchedulerStopped
	}

	job, err := s.scheduler.NewJob(
		gocron.DurationJob(s.config.Interval),
		gocron.NewTask(s.DoBackgroundWork),
		gocron.WithName(backgroundWorkJobName),
		gocron.WithStartAt(gocron.WithStartDateTime(time.Now().Add(s.config.Interval))),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule %s: %w", backgroundWorkJobName, err)
	}

	s.job = job
	s.state = stateRunning

	s.useCase.StartBackgroundWork(s.ctx)
	s.scheduler.Start()

	log.Info(msg.GetMessage("background-work.scheduler.started", s.config.Interval),
		zap.String("job", backgroundWorkJobName),
		zap.Duration("interval", s.config.Interval),
	)
	return nil
}

// DoBackgroundWork executes one run. Runs triggered after Stop are dropped.
func (s *BackgroundWorkScheduler) DoBackgroundWork() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.state != stateRunning {
		return
	}

	s.useCase.StartBackgroundWork(s.ctx)
}

// Stop writes the stop line, disarms the timer and waits for a run already in progress.
// Calling Stop more than once has no further effect.
func (s *BackgroundWorkScheduler) Stop() error {
	s.mutex.Lock()
	if s.state == stateStopped {
		s.mutex.Unlock()
		return nil
	}

	wasRunning := s.state == stateRunning
	s.state = stateStopped
	if wasRunning {
		s.useCase.StopBackgroundWork(s.ctx)
	}
	s.mutex.Unlock()

	err := s.scheduler.Shutdown()
	s.cancel()
	if err != nil {
		return fmt.Errorf("failed to shutdown %s scheduler: %w", backgroundWorkJobName, err)
	}

	log.Info(msg.GetMessage("background-work.scheduler.stopped"), zap.String("job", backgroundWorkJobName))
	return nil
}

// Status reports UP while the background work is scheduled
func (s *BackgroundWorkScheduler) Status() model.ComponentHealthStatus {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	details := map[string]string{
		"job":      backgroundWorkJobName,
		"interval": s.config.Interval.String(),
	}

	switch s.state {
	case stateRunning:
		details["message"] = "running"
		if nextRun, err := s.job.NextRun(); err == nil && !nextRun.IsZero() {
			details["next_run"] = nextRun.Format(time.RFC3339)
		}
		return model.ComponentHealthStatus{Status: model.StatusUp, Details: details}
	case stateStopped:
		details["message"] = "stopped"
		return model.ComponentHealthStatus{Status: model.StatusDown, Details: details}
	default:
		details["message"] = "not started"
		return model.ComponentHealthStatus{Status: model.StatusUnknown, Details: details}
	}
}

// Health exposes Status to the health use case
func (s *BackgroundWorkScheduler) Health(context.Context) model.ComponentHealthStatus {
	return s.Status()
}
