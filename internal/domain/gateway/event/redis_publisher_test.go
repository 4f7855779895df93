package event

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-api/internal/domain/model"
	"weather-api/pkg/redis"
)

func TestRedisPublisherPublish(t *testing.T) {
	server := miniredis.RunT(t)
	port, err := strconv.Atoi(server.Port())
	require.NoError(t, err)

	client, err := redis.NewClient(redis.NewRedisConfig().WithHost(server.Host()).WithPort(port).WithNamespace("weather-api"))
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	subscription := client.GetClient().Subscribe(ctx, "weather-api::background-work")
	defer subscription.Close()
	_, err = subscription.Receive(ctx)
	require.NoError(t, err)

	event := model.BackgroundWorkEvent{
		Type:    model.BackgroundWorkStart,
		Time:    time.Date(2024, 1, 1, 10, 15, 0, 0, time.UTC),
		RunID:   "run-1",
		Message: "10:15:00 - Start Background Work",
	}
	require.NoError(t, NewRedisPublisher(client).Publish(ctx, event))

	message, err := subscription.ReceiveMessage(ctx)
	require.NoError(t, err)

	var received model.BackgroundWorkEvent
	require.NoError(t, json.Unmarshal([]byte(message.Payload), &received))
	assert.Equal(t, event, received)
}

func TestRedisPublisherReportsBrokerFailure(t *testing.T) {
	server := miniredis.RunT(t)
	port, err := strconv.Atoi(server.Port())
	require.NoError(t, err)

	client, err := redis.NewClient(redis.NewRedisConfig().WithHost(server.Host()).WithPort(port))
	require.NoError(t, err)
	defer client.Close()
	server.Close()

	err = NewRedisPublisher(client).Publish(context.Background(), model.BackgroundWorkEvent{Type: model.BackgroundWorkStop})
	assert.ErrorContains(t, err, "failed to publish stop event on background-work")
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), model.BackgroundWorkEvent{}))
}
