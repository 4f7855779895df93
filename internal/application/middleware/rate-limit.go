package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"weather-api/pkg/log"
	"weather-api/pkg/msg"
	"weather-api/pkg/redis"
)

const redisStoreTimeout = 500 * time.Millisecond

// RateLimitStore decides per client identifier whether a request may proceed
type RateLimitStore = echomw.RateLimiterStore

// RateLimitConfig holds the per client limits
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	ExpiresIn         time.Duration
}

// RedisStore shares the per client limit between instances through a Redis sliding window.
// Requests are let through while Redis is unreachable.
type RedisStore struct {
	limiter *redis.RateLimiter
	timeout time.Duration
}

var _ RateLimitStore = (*RedisStore)(nil)

func NewRedisStore(limiter *redis.RateLimiter) *RedisStore {
	return &RedisStore{limiter: limiter, timeout: redisStoreTimeout}
}

func (store *RedisStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), store.timeout)
	defer cancel()

	allowed, err := store.limiter.Allow(ctx, identifier)
	if err != nil {
		log.Warn(msg.GetMessage("app.rate-limit.store-failed", identifier, err),
			zap.String("identifier", identifier),
			zap.Error(err),
		)
		return true, nil
	}
	return allowed, nil
}

// NewMemoryStore keeps one token bucket per client in process memory
func NewMemoryStore(config RateLimitConfig) RateLimitStore {
	return echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(config.RequestsPerSecond),
		Burst:     config.Burst,
		ExpiresIn: config.ExpiresIn,
	})
}

// RateLimit builds a route middleware rejecting clients over the limit with 429
func RateLimit(store RateLimitStore) echo.MiddlewareFunc {
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, map[string]string{"error": err.Error()})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": msg.GetMessage("weather.error.rate-limited")})
		},
	})
}
