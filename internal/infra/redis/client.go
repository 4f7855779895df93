package redis

import (
	"context"
	"fmt"

	"weather-api/pkg/redis"
	"weather-api/pkg/resource"
)

// Enabled reports whether Redis backed features are configured
func Enabled() bool {
	return resource.GetBool("app.redis.enabled")
}

func NewConfigFromProperties() *redis.Config {
	return redis.NewRedisConfig().
		WithHost(resource.GetStringOrDefault("app.redis.host", "localhost")).
		WithPort(resource.GetInt("app.redis.port")).
		WithPassword(resource.GetString("app.redis.password")).
		WithDatabase(resource.GetInt("app.redis.database")).
		WithNamespace(resource.GetStringOrDefault("app.redis.namespace", "weather-api"))
}

// Connect creates the client from application properties and checks the server answers
func Connect(ctx context.Context) (*redis.Client, error) {
	config := NewConfigFromProperties()

	client, err := redis.NewClient(config)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping Redis at %s: %w", config.Addr(), err)
	}

	return client, nil
}
