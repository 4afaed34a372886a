package realtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// ChannelBus is an in-process Bus backed by watermill's Go channel pub/sub.
// It serves a single server instance.
type ChannelBus struct {
	pubsub *gochannel.GoChannel
}

func NewChannelBus() *ChannelBus {
	return &ChannelBus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			// Keeps events for one topic in publish order.
			BlockPublishUntilSubscriberAck: true,
		}, watermill.NopLogger{}),
	}
}

func (b *ChannelBus) Publish(_ context.Context, topic string, ev Event) error {
	payload, err := encode(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

func (b *ChannelBus) Subscribe(ctx context.Context, topic string) (<-chan Event, error) {
	messages, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	out := make(chan Event, 1)
	go func() {
		defer close(out)
		for msg := range messages {
			ev, err := decode(msg.Payload)
			msg.Ack()
			if err != nil {
				slog.Warn("Dropping malformed realtime event", "topic", topic, "error", err)
				continue
			}
			offer(out, ev)
		}
	}()
	return out, nil
}

func (b *ChannelBus) Close() error {
	return b.pubsub.Close()
}
