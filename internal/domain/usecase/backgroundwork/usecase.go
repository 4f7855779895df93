package backgroundwork

import "context"

type UseCase interface {
	// StartBackgroundWork writes the heartbeat line for one scheduler run
	StartBackgroundWork(ctx context.Context)

	// StopBackgroundWork writes the shutdown line
	StopBackgroundWork(ctx context.Context)
}
