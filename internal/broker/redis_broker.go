package broker

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/sohwakmo/cucumbermarket-backend/pkg/logger"
)

// RedisBroker fans messages out across server instances with PUBLISH / PSUBSCRIBE.
type RedisBroker struct {
	client *redis.Client

	mu     sync.Mutex
	subs   []*redis.PubSub
	wg     sync.WaitGroup
	closed bool
}

func NewRedisBroker(client *redis.Client) *RedisBroker {
	return &RedisBroker{client: client}
}

func (b *RedisBroker) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := b.client.Publish(ctx, topic, payload).Err(); err != nil {
		logger.Error("Failed to publish to Redis", err, map[string]interface{}{
			"topic": topic,
		})
		return err
	}
	return nil
}

// Subscribe returns once Redis has confirmed the pattern subscription.
func (b *RedisBroker) Subscribe(ctx context.Context, prefix string, handler Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	pattern := prefix + "*"
	ps := b.client.PSubscribe(ctx, pattern)
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return fmt.Errorf("failed to subscribe %s: %w", pattern, err)
	}
	b.subs = append(b.subs, ps)

	logger.Info("Subscribed to Redis channel pattern", map[string]interface{}{
		"pattern": pattern,
	})

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for msg := range ps.Channel() {
			handler(msg.Channel, []byte(msg.Payload))
		}
	}()
	return nil
}

func (b *RedisBroker) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	var firstErr error
	for _, ps := range subs {
		if err := ps.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	b.wg.Wait()
	return firstErr
}
