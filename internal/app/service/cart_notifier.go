package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/vibeprint/storefront/pkg/logger"
)

// DefaultCartNotifyChannel is the name of the cart change event.
const DefaultCartNotifyChannel = "cartUpdated"

// CartNotifier broadcasts the zero-payload "cart changed" trigger.
// Handlers re-read the cart themselves; ordering between handlers is
// unspecified.
type CartNotifier interface {
	Publish(ctx context.Context)
	Subscribe(handler func()) (unsubscribe func())
}

// LocalCartNotifier delivers events synchronously to handlers in this process.
type LocalCartNotifier struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]func()
}

func NewLocalCartNotifier() *LocalCartNotifier {
	return &LocalCartNotifier{handlers: make(map[int]func())}
}

func (n *LocalCartNotifier) Publish(_ context.Context) {
	n.mu.RLock()
	handlers := make([]func(), 0, len(n.handlers))
	for _, h := range n.handlers {
		handlers = append(handlers, h)
	}
	n.mu.RUnlock()

	for _, h := range handlers {
		h()
	}
}

func (n *LocalCartNotifier) Subscribe(handler func()) func() {
	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.handlers[id] = handler
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.handlers, id)
			n.mu.Unlock()
		})
	}
}

// RedisCartNotifier fans out locally and also publishes the event on a Redis
// channel so other storefront instances sharing the cart record hear it.
// Each message carries the publishing instance's id; Start skips its own.
type RedisCartNotifier struct {
	local      *LocalCartNotifier
	client     *redis.Client
	channel    string
	instanceID string
}

func NewRedisCartNotifier(client *redis.Client, channel string) *RedisCartNotifier {
	if channel == "" {
		channel = DefaultCartNotifyChannel
	}
	return &RedisCartNotifier{
		local:      NewLocalCartNotifier(),
		client:     client,
		channel:    channel,
		instanceID: uuid.NewString(),
	}
}

func (n *RedisCartNotifier) InstanceID() string {
	return n.instanceID
}

func (n *RedisCartNotifier) Publish(ctx context.Context) {
	n.local.Publish(ctx)

	if err := n.client.Publish(ctx, n.channel, n.instanceID).Err(); err != nil {
		logger.Warn("Failed to publish cart event", map[string]interface{}{
			"channel": n.channel,
			"error":   err.Error(),
		})
	}
}

func (n *RedisCartNotifier) Subscribe(handler func()) func() {
	return n.local.Subscribe(handler)
}

// Start subscribes to the channel and relays events published by other
// instances to local handlers until ctx is cancelled. It returns once the
// subscription is confirmed.
func (n *RedisCartNotifier) Start(ctx context.Context) error {
	pubsub := n.client.Subscribe(ctx, n.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return fmt.Errorf("subscribe to %s: %w", n.channel, err)
	}

	logger.Info("Listening for cart events", map[string]interface{}{
		"channel":     n.channel,
		"instance_id": n.instanceID,
	})

	go func() {
		defer pubsub.Close()
		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				if msg.Payload == n.instanceID {
					continue
				}
				logger.Debug("Cart event received from another instance", map[string]interface{}{
					"source": msg.Payload,
				})
				n.local.Publish(ctx)
			}
		}
	}()

	return nil
}
