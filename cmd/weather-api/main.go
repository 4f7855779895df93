package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"weather-api/configs"
	"weather-api/internal/application/middleware"
	"weather-api/internal/application/schedule"
	"weather-api/internal/application/server"
	"weather-api/internal/domain/gateway/console"
	"weather-api/internal/domain/gateway/event"
	"weather-api/internal/domain/gateway/health"
	"weather-api/internal/domain/usecase/backgroundwork"
	healthusecase "weather-api/internal/domain/usecase/health"
	"weather-api/internal/domain/usecase/weather"
	redisinfra "weather-api/internal/infra/redis"
	"weather-api/internal/infra/telemetry"
	"weather-api/pkg/log"
	"weather-api/pkg/msg"
	"weather-api/pkg/redis"
	"weather-api/pkg/resource"
	"weather-api/pkg/util/clock"
)

// @title weather-api
// @version 1.0
// @description Random weather forecast service with a periodic background heartbeat.
// @BasePath /
func main() {
	defer log.Sync()
	log.Info(msg.GetMessage("app.start"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init infra
	metrics, err := telemetry.NewMetrics(telemetry.Config{
		ServiceName: configs.Env.ApplicationName,
		Environment: configs.Env.Environment,
	})
	if err != nil {
		log.Fatal(msg.GetMessage("app.telemetry.failed", err))
	}

	redisClient := connectRedis(ctx)

	// Init Gateways
	consoleGateway := console.NewZapConsoleGateway(os.Stdout)
	var publisher event.Publisher = event.NoopPublisher{}
	var redisHealthGateway health.Gateway = health.DisabledHealthGateway{}
	if redisClient != nil {
		publisher = event.NewRedisPublisher(redisClient)
		redisHealthGateway = health.NewRedisHealthGateway(redisClient)
	}

	// Init UseCase
	realClock := clock.RealClock{}
	weatherUseCase := weather.NewWeatherUseCase(realClock, nil)
	backgroundWorkUseCase := backgroundwork.NewBackgroundWorkUseCase(realClock, consoleGateway, publisher, metrics)

	// Init Schedule
	backgroundWorkScheduler, err := schedule.NewBackgroundWorkScheduler(backgroundWorkUseCase, &schedule.BackgroundWorkSchedulerConfig{
		Interval:    resource.GetDurationOrDefault("app.background-work.interval", time.Second),
		StopTimeout: resource.GetDurationOrDefault("app.background-work.stop-timeout", 5*time.Second),
	})
	if err != nil {
		log.Fatal(msg.GetMessage("background-work.scheduler.failed", err))
	}
	healthUseCase := healthusecase.NewHealthUseCase(backgroundWorkScheduler, redisHealthGateway)

	// Init Server
	serverConfig := server.NewConfigFromProperties()
	httpServer := server.NewServer(serverConfig, server.Dependencies{
		WeatherUseCase: weatherUseCase,
		HealthUseCase:  healthUseCase,
		Recorder:       metrics,
		MetricsHandler: metrics.Handler(),
		RateLimitStore: newRateLimitStore(redisClient),
	})

	if err := backgroundWorkScheduler.Start(); err != nil {
		log.Fatal(msg.GetMessage("background-work.scheduler.failed", err))
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpServer.Start()
	}()
	log.Info(msg.GetMessage("app.started", serverConfig.Port))

	select {
	case <-ctx.Done():
		log.Info(msg.GetMessage("app.stopping"))
	case err := <-serverErr:
		if err != nil {
			log.Error(msg.GetMessage("app.server.failed", err))
		}
	}

	// Stop the background work before draining requests so the stop line is written once
	if err := backgroundWorkScheduler.Stop(); err != nil {
		log.Error(msg.GetMessage("background-work.scheduler.failed", err))
	}

	shutdownCtx := context.Background()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error(msg.GetMessage("app.server.shutdown-failed", err))
	}
	if err := metrics.Shutdown(shutdownCtx); err != nil {
		log.Error(msg.GetMessage("app.telemetry.failed", err))
	}
	closeRedis(redisClient)

	log.Info(msg.GetMessage("app.stopped"))
}

// connectRedis returns nil when Redis is disabled or unreachable, Redis backed features are optional
func connectRedis(ctx context.Context) *redis.Client {
	if !redisinfra.Enabled() {
		log.Info(msg.GetMessage("app.redis.disabled"))
		return nil
	}

	address := redisinfra.NewConfigFromProperties().Addr()
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := redisinfra.Connect(connectCtx)
	if err != nil {
		log.Error(msg.GetMessage("app.redis.connect-failed", address, err))
		return nil
	}

	log.Info(msg.GetMessage("app.redis.connected", address))
	return client
}

func closeRedis(client *redis.Client) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		log.Error(msg.GetMessage("app.redis.close-failed", err), zap.Error(err))
	}
}

func newRateLimitStore(redisClient *redis.Client) middleware.RateLimitStore {
	if !resource.GetBool("app.rate-limit.enabled") {
		return nil
	}

	requestsPerSecond := resource.GetFloat64("app.rate-limit.requests-per-second")
	if redisClient != nil {
		limiter, err := redis.NewRateLimiter(redisClient, "weatherforecast",
			redis.NewRateLimiterOptions().WithMaxTransactionsPerSecond(int(requestsPerSecond)))
		if err == nil {
			return middleware.NewRedisStore(limiter)
		}
		log.Error(msg.GetMessage("app.rate-limit.redis-failed", err), zap.Error(err))
	}

	return middleware.NewMemoryStore(middleware.RateLimitConfig{
		RequestsPerSecond: requestsPerSecond,
		Burst:             resource.GetInt("app.rate-limit.burst"),
		ExpiresIn:         3 * time.Minute,
	})
}
