package realtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisBus fans events out through Redis pub/sub so that several server
// instances sharing one database see each other's writes.
type RedisBus struct {
	client *redis.Client
	prefix string
}

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces channels; defaults to "omnichat:".
	Prefix string
}

// NewRedisBus connects to Redis and verifies the connection with PING.
func NewRedisBus(ctx context.Context, opts RedisOptions) (*RedisBus, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "omnichat:"
	}
	return &RedisBus{client: client, prefix: prefix}, nil
}

func (b *RedisBus) Publish(ctx context.Context, topic string, ev Event) error {
	payload, err := encode(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := b.client.Publish(ctx, b.prefix+topic, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, topic string) (<-chan Event, error) {
	ps := b.client.Subscribe(ctx, b.prefix+topic)
	// Receive blocks until the subscription is confirmed, so no publish that
	// happens after Subscribe returns can be missed.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	out := make(chan Event, 1)
	messages := ps.Channel()
	go func() {
		defer close(out)
		defer func() { _ = ps.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				ev, err := decode([]byte(msg.Payload))
				if err != nil {
					slog.Warn("Dropping malformed realtime event", "topic", topic, "error", err)
					continue
				}
				offer(out, ev)
			}
		}
	}()
	return out, nil
}

func (b *RedisBus) Close() error {
	return b.client.Close()
}
