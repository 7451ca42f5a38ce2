package broker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type received struct {
	topic   string
	payload string
}

type collector struct {
	mu   sync.Mutex
	msgs []received
}

func (c *collector) handle(topic string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, received{topic, string(payload)})
}

func (c *collector) snapshot() []received {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]received(nil), c.msgs...)
}

func TestRoomTopic(t *testing.T) {
	assert.Equal(t, "room/42", RoomTopic("42"))

	id, ok := RoomIDFromTopic("room/abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	_, ok = RoomIDFromTopic("product.deleted")
	assert.False(t, ok)
}

func TestMemoryBroker(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryBroker()

	rooms, all := &collector{}, &collector{}
	require.NoError(t, b.Subscribe(ctx, RoomTopicPrefix, rooms.handle))
	require.NoError(t, b.Subscribe(ctx, "", all.handle))

	require.NoError(t, b.Publish(ctx, RoomTopic("1"), []byte("hello")))
	require.NoError(t, b.Publish(ctx, "other", []byte("skip")))

	assert.Equal(t, []received{{"room/1", "hello"}}, rooms.snapshot())
	assert.Len(t, all.snapshot(), 2)

	require.NoError(t, b.Close())
	assert.ErrorIs(t, b.Publish(ctx, RoomTopic("1"), []byte("late")), ErrClosed)
	assert.ErrorIs(t, b.Subscribe(ctx, "", all.handle), ErrClosed)
}

func TestRedisBroker(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	newBroker := func() *RedisBroker {
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { client.Close() })
		return NewRedisBroker(client)
	}

	// 서로 다른 인스턴스 간 전달
	sub, pub := newBroker(), newBroker()
	got := &collector{}
	require.NoError(t, sub.Subscribe(ctx, RoomTopicPrefix, got.handle))

	require.NoError(t, pub.Publish(ctx, RoomTopic("7"), []byte(`{"type":"TALK"}`)))
	require.NoError(t, pub.Publish(ctx, "elsewhere", []byte("skip")))

	assert.Eventually(t, func() bool {
		return len(got.snapshot()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, received{"room/7", `{"type":"TALK"}`}, got.snapshot()[0])

	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())
	assert.ErrorIs(t, sub.Subscribe(ctx, RoomTopicPrefix, got.handle), ErrClosed)
}
