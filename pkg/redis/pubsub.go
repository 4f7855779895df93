package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"weather-api/pkg/log"
	"weather-api/pkg/msg"
)

// Publisher publishes messages on namespaced Redis pub/sub channels
type Publisher struct {
	client *Client
}

// NewPublisher creates a new publisher
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Channel returns the full channel name for channel
func (p *Publisher) Channel(channel string) string {
	return p.client.Key(channel)
}

// Publish publishes a message to a channel and returns the number of subscribers that received it
func (p *Publisher) Publish(ctx context.Context, channel string, message any) (int64, error) {
	return p.client.GetClient().Publish(ctx, p.Channel(channel), message).Result()
}

// PublishJSON publishes a JSON message to a channel
func (p *Publisher) PublishJSON(ctx context.Context, channel string, message any) (int64, error) {
	jsonData, err := json.Marshal(message)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal message to JSON: %w", err)
	}
	return p.Publish(ctx, channel, jsonData)
}

// MessageHandler processes messages received on a subscribed channel
type MessageHandler interface {
	HandleMessage(ctx context.Context, channel string, message string) error
}

// HandlerFunc adapts a function to MessageHandler
type HandlerFunc func(ctx context.Context, channel string, message string) error

func (f HandlerFunc) HandleMessage(ctx context.Context, channel string, message string) error {
	return f(ctx, channel, message)
}

// Subscriber receives messages from namespaced Redis pub/sub channels
type Subscriber struct {
	client  *Client
	handler MessageHandler
	sub     *redis.PubSub
	mu      sync.Mutex
}

// NewSubscriber creates a subscriber delivering every message to handler
func NewSubscriber(client *Client, handler MessageHandler) *Subscriber {
	return &Subscriber{client: client, handler: handler}
}

// Subscribe subscribes to channels and waits for the server to confirm
func (s *Subscriber) Subscribe(ctx context.Context, channels ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	namespacedChannels := make([]string, len(channels))
	for i, channel := range channels {
		namespacedChannels[i] = s.client.Key(channel)
	}

	if s.sub != nil {
		_ = s.sub.Close()
	}

	s.sub = s.client.GetClient().Subscribe(ctx, namespacedChannels...)
	if _, err := s.sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %v: %w", namespacedChannels, err)
	}
	return nil
}

// Listen hands messages to the handler one at a time until ctx is done or the subscriber is closed.
// Handler errors are logged and do not stop the loop.
func (s *Subscriber) Listen(ctx context.Context) error {
	s.mu.Lock()
	sub := s.sub
	s.mu.Unlock()

	if sub == nil {
		return fmt.Errorf("not subscribed to any channels")
	}

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case message, ok := <-messages:
			if !ok {
				return nil
			}
			if err := s.handler.HandleMessage(ctx, message.Channel, message.Payload); err != nil {
				log.Warn(msg.GetMessage("app.pubsub.handle-failed", message.Channel, err),
					zap.String("channel", message.Channel),
					zap.Error(err),
				)
			}
		}
	}
}

// Close unsubscribes and releases the connection
func (s *Subscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sub == nil {
		return nil
	}
	err := s.sub.Close()
	s.sub = nil
	return err
}
