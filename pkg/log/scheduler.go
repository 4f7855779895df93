package log

// SchedulerLogger forwards scheduler library logs to the package logger.
// It satisfies gocron's Logger interface.
type SchedulerLogger struct{}

func (SchedulerLogger) Debug(message string, args ...any) {
	Debugw(message, args...)
}

func (SchedulerLogger) Info(message string, args ...any) {
	Infow(message, args...)
}

func (SchedulerLogger) Warn(message string, args ...any) {
	Warnw(message, args...)
}

func (SchedulerLogger) Error(message string, args ...any) {
	Errorw(message, args...)
}
