package health

import (
	"context"

	"weather-api/internal/domain/model"
)

type Gateway interface {
	Health(ctx context.Context) model.ComponentHealthStatus
}

// DisabledHealthGateway reports a component that is not configured
type DisabledHealthGateway struct{}

var _ Gateway = DisabledHealthGateway{}

func (DisabledHealthGateway) Health(context.Context) model.ComponentHealthStatus {
	return model.ComponentHealthStatus{
		Status: model.StatusUnknown,
		Details: map[string]string{
			"message": "disabled",
		},
	}
}
