// Package realtime carries change notifications between the writers of chats
// and messages and the subscriptions that keep session views current.
package realtime

import (
	"context"
	"encoding/json"
	"time"
)

type EventKind string

const (
	ChatsChanged    EventKind = "chats_changed"
	MessagesChanged EventKind = "messages_changed"
)

// Event announces that the data behind a topic changed. Subscribers re-read
// the current state; events carry no payload beyond identifiers.
type Event struct {
	Kind   EventKind `json:"kind"`
	UserID string    `json:"user_id,omitempty"`
	ChatID string    `json:"chat_id,omitempty"`
	At     time.Time `json:"at"`
}

// ChatsTopic is the topic announcing changes to a user's chat list.
func ChatsTopic(userID string) string { return "chats." + userID }

// MessagesTopic is the topic announcing changes to one chat's messages.
func MessagesTopic(chatID string) string { return "messages." + chatID }

// Bus publishes and fans out change events.
//
// Subscribe returns a channel that is closed once ctx is cancelled or the bus
// is closed. Delivery is coalescing: a slow reader may miss intermediate
// events but always receives at least one event after the latest publish.
type Bus interface {
	Publish(ctx context.Context, topic string, ev Event) error
	Subscribe(ctx context.Context, topic string) (<-chan Event, error)
	Close() error
}

func encode(ev Event) ([]byte, error) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	return json.Marshal(ev)
}

func decode(b []byte) (Event, error) {
	var ev Event
	err := json.Unmarshal(b, &ev)
	return ev, err
}

// offer delivers ev unless an undelivered event is already buffered.
func offer(out chan Event, ev Event) {
	select {
	case out <- ev:
	default:
	}
}
