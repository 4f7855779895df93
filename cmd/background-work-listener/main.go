package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"weather-api/internal/domain/gateway/event"
	"weather-api/internal/domain/model"
	redisinfra "weather-api/internal/infra/redis"
	"weather-api/pkg/log"
	"weather-api/pkg/msg"
)

// Follows the background work events of every weather-api instance sharing the Redis namespace.
func main() {
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	address := redisinfra.NewConfigFromProperties().Addr()
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	client, err := redisinfra.Connect(connectCtx)
	cancel()
	if err != nil {
		log.Fatal(msg.GetMessage("app.redis.connect-failed", address, err))
	}
	defer client.Close()
	log.Info(msg.GetMessage("app.redis.connected", address))

	err = event.NewRedisSubscriber(client).Listen(ctx, func(e model.BackgroundWorkEvent) {
		log.Info(e.Message,
			zap.String("type", string(e.Type)),
			zap.String("run_id", e.RunID),
			zap.Time("time", e.Time),
		)
	})
	if err != nil {
		log.Fatal(err.Error())
	}
}
