package broker

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// RoomTopicPrefix prefixes every chat room topic ("room/<roomId>").
const RoomTopicPrefix = "room/"

var ErrClosed = errors.New("broker closed")

// Handler receives one published payload.
type Handler func(topic string, payload []byte)

// Broker is a topic based publish/subscribe channel.
type Broker interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	// Subscribe delivers every message whose topic starts with prefix.
	Subscribe(ctx context.Context, prefix string, handler Handler) error
	Close() error
}

func RoomTopic(roomID string) string {
	return RoomTopicPrefix + roomID
}

// RoomIDFromTopic returns the room id of a room topic.
func RoomIDFromTopic(topic string) (string, bool) {
	if !strings.HasPrefix(topic, RoomTopicPrefix) {
		return "", false
	}
	return strings.TrimPrefix(topic, RoomTopicPrefix), true
}

type subscription struct {
	prefix  string
	handler Handler
}

// MemoryBroker delivers synchronously within one process.
type MemoryBroker struct {
	mu     sync.RWMutex
	subs   []subscription
	closed bool
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{}
}

func (b *MemoryBroker) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrClosed
	}
	for _, s := range b.subs {
		if strings.HasPrefix(topic, s.prefix) {
			s.handler(topic, payload)
		}
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context, prefix string, handler Handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	b.subs = append(b.subs, subscription{prefix: prefix, handler: handler})
	return nil
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	b.subs = nil
	return nil
}
