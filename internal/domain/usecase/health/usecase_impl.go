package health

import (
	"context"

	healthgateway "weather-api/internal/domain/gateway/health"
	"weather-api/internal/domain/model"
)

type healthUseCase struct {
	backgroundWorkGateway healthgateway.Gateway
	redisGateway          healthgateway.Gateway
}

func NewHealthUseCase(backgroundWorkGateway healthgateway.Gateway, redisGateway healthgateway.Gateway) UseCase {
	if redisGateway == nil {
		redisGateway = healthgateway.DisabledHealthGateway{}
	}

	return &healthUseCase{
		backgroundWorkGateway: backgroundWorkGateway,
		redisGateway:          redisGateway,
	}
}

// CheckHealth is UP when the background work runs and Redis is either up or not configured
func (useCase *healthUseCase) CheckHealth(ctx context.Context) model.HealthResponse {
	backgroundWorkHealth := useCase.backgroundWorkGateway.Health(ctx)
	redisHealth := useCase.redisGateway.Health(ctx)

	overallStatus := model.StatusUp
	if backgroundWorkHealth.Status != model.StatusUp || redisHealth.Status == model.StatusDown {
		overallStatus = model.StatusDown
	}

	return model.HealthResponse{
		Status:         overallStatus,
		BackgroundWork: backgroundWorkHealth,
		Redis:          redisHealth,
	}
}
