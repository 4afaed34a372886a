package realtime

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

// exerciseBus runs the behaviour every Bus implementation must satisfy.
func exerciseBus(t *testing.T, bus Bus) {
	t.Run("Delivers events on the subscribed topic", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events, err := bus.Subscribe(ctx, ChatsTopic("user-1"))
		require.NoError(t, err)

		require.NoError(t, bus.Publish(ctx, ChatsTopic("user-1"), Event{Kind: ChatsChanged, UserID: "user-1"}))

		ev := receive(t, events)
		assert.Equal(t, ChatsChanged, ev.Kind)
		assert.Equal(t, "user-1", ev.UserID)
		assert.False(t, ev.At.IsZero())
	})

	t.Run("Topics are isolated", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events, err := bus.Subscribe(ctx, MessagesTopic("chat-a"))
		require.NoError(t, err)

		require.NoError(t, bus.Publish(ctx, MessagesTopic("chat-b"), Event{Kind: MessagesChanged, ChatID: "chat-b"}))
		require.NoError(t, bus.Publish(ctx, MessagesTopic("chat-a"), Event{Kind: MessagesChanged, ChatID: "chat-a"}))

		ev := receive(t, events)
		assert.Equal(t, "chat-a", ev.ChatID)
	})

	t.Run("Cancelling the context closes the channel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		events, err := bus.Subscribe(ctx, ChatsTopic("user-2"))
		require.NoError(t, err)

		cancel()

		select {
		case _, ok := <-events:
			for ok {
				_, ok = <-events
			}
		case <-time.After(2 * time.Second):
			t.Fatal("channel was not closed after cancel")
		}
	})
}

func TestChannelBus(t *testing.T) {
	bus := NewChannelBus()
	defer func() { assert.NoError(t, bus.Close()) }()

	exerciseBus(t, bus)

	t.Run("Bursts coalesce for slow readers", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events, err := bus.Subscribe(ctx, ChatsTopic("burst"))
		require.NoError(t, err)

		for i := 0; i < 20; i++ {
			require.NoError(t, bus.Publish(ctx, ChatsTopic("burst"), Event{Kind: ChatsChanged, UserID: "burst"}))
		}

		receive(t, events)
		assert.LessOrEqual(t, len(events), cap(events))
	})
}

// TestRedisBus needs a reachable Redis server; set REDIS_TEST_ADDR to run it.
func TestRedisBus(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	bus, err := NewRedisBus(context.Background(), RedisOptions{Addr: addr, Prefix: "omnichat-test:"})
	require.NoError(t, err)
	defer func() { assert.NoError(t, bus.Close()) }()

	exerciseBus(t, bus)
}

func TestNewRedisBus_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := NewRedisBus(ctx, RedisOptions{Addr: "127.0.0.1:1"})
	assert.ErrorContains(t, err, "failed to connect to redis")
}
