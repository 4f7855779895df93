package redis

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"weather-api/pkg/log"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	port, err := strconv.Atoi(server.Port())
	require.NoError(t, err)

	client, err := NewClient(NewRedisConfig().
		WithHost(server.Host()).
		WithPort(port).
		WithNamespace("weather-api"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client, server
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{name: "defaults", config: NewRedisConfig()},
		{name: "empty host", config: NewRedisConfig().WithHost(""), wantErr: true},
		{name: "port out of range", config: NewRedisConfig().WithPort(70000), wantErr: true},
		{name: "database out of range", config: NewRedisConfig().WithDatabase(16), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewClientRejectsInvalidConfig(t *testing.T) {
	_, err := NewClient(NewRedisConfig().WithPort(0))
	assert.Error(t, err)
}

func TestClientKeyUsesNamespace(t *testing.T) {
	client, _ := newTestClient(t)
	assert.Equal(t, "weather-api::background-work", client.Key("background-work"))
}

func TestPublisherPublishJSON(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	subscription := client.GetClient().Subscribe(ctx, "weather-api::background-work")
	defer subscription.Close()
	_, err := subscription.Receive(ctx)
	require.NoError(t, err)

	publisher := NewPublisher(client)
	receivers, err := publisher.PublishJSON(ctx, "background-work", map[string]string{"type": "start"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), receivers)

	message, err := subscription.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"start"}`, message.Payload)
}

func TestRateLimiterAllow(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	limiter, err := NewRateLimiter(client, "weatherforecast", NewRateLimiterOptions().WithMaxTransactionsPerSecond(2))
	require.NoError(t, err)

	instant := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return instant }

	for i := 0; i < 2; i++ {
		allowed, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, allowed, "third request within the same second must be rejected")

	allowed, err = limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, allowed, "limits are tracked per identifier")

	instant = instant.Add(1100 * time.Millisecond)
	allowed, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed, "window slides after one second")
}

func TestRateLimiterRequiresALimit(t *testing.T) {
	client, _ := newTestClient(t)
	_, err := NewRateLimiter(client, "weatherforecast", NewRateLimiterOptions())
	assert.Error(t, err)
}

func TestHealthChecker(t *testing.T) {
	client, server := newTestClient(t)
	checker := NewHealthChecker(client)

	health := checker.HealthCheck(context.Background())
	assert.Equal(t, StatusUp, health.Status)
	assert.Equal(t, client.GetConfig().Addr(), health.Details["address"])

	server.Close()
	health = checker.HealthCheck(context.Background())
	assert.Equal(t, StatusDown, health.Status)
	assert.NotEmpty(t, health.Details["message"])
}

func TestSubscriberListen(t *testing.T) {
	client, _ := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan string, 1)
	subscriber := NewSubscriber(client, HandlerFunc(func(_ context.Context, channel string, message string) error {
		received <- channel + " " + message
		return nil
	}))
	require.NoError(t, subscriber.Subscribe(ctx, "background-work"))
	t.Cleanup(func() { _ = subscriber.Close() })

	done := make(chan error, 1)
	go func() { done <- subscriber.Listen(ctx) }()

	_, err := NewPublisher(client).Publish(ctx, "background-work", "ping")
	require.NoError(t, err)

	select {
	case message := <-received:
		assert.Equal(t, "weather-api::background-work ping", message)
	case <-time.After(2 * time.Second):
		t.Fatal("message not received")
	}

	cancel()
	assert.NoError(t, <-done)
}

func TestSubscriberListenRequiresSubscription(t *testing.T) {
	client, _ := newTestClient(t)
	subscriber := NewSubscriber(client, HandlerFunc(func(context.Context, string, string) error { return nil }))

	assert.Error(t, subscriber.Listen(context.Background()))
}

func TestSubscriberLogsHandlerErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	t.Cleanup(log.ReplaceLogger(zap.New(core)))

	client, _ := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handled := make(chan struct{}, 1)
	subscriber := NewSubscriber(client, HandlerFunc(func(context.Context, string, string) error {
		handled <- struct{}{}
		return errors.New("bad payload")
	}))
	require.NoError(t, subscriber.Subscribe(ctx, "background-work"))
	t.Cleanup(func() { _ = subscriber.Close() })

	done := make(chan error, 1)
	go func() { done <- subscriber.Listen(ctx) }()

	_, err := NewPublisher(client).Publish(ctx, "background-work", "ping")
	require.NoError(t, err)

	select {
	case <-handled:
	case <-time.After(2 * time.Second):
		t.Fatal("message not handled")
	}

	require.Eventually(t, func() bool {
		return logs.FilterLevelExact(zapcore.WarnLevel).Len() == 1
	}, time.Second, 5*time.Millisecond)
	entry := logs.FilterLevelExact(zapcore.WarnLevel).All()[0]
	assert.Equal(t, "Failed to handle pub/sub message on weather-api::background-work: bad payload", entry.Message)

	cancel()
	assert.NoError(t, <-done)
}
