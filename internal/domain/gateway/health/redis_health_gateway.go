package health

import (
	"context"

	"weather-api/internal/domain/model"
	"weather-api/pkg/redis"
)

type RedisHealthGateway struct {
	checker *redis.HealthChecker
}

var _ Gateway = (*RedisHealthGateway)(nil)

func NewRedisHealthGateway(client *redis.Client) *RedisHealthGateway {
	return &RedisHealthGateway{checker: redis.NewHealthChecker(client)}
}

func (gateway *RedisHealthGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	result := gateway.checker.HealthCheck(ctx)

	status := model.StatusDown
	if result.Status == redis.StatusUp {
		status = model.StatusUp
	}

	return model.ComponentHealthStatus{
		Status:  status,
		Details: result.Details,
	}
}
