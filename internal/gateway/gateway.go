// Package gateway is the persistence gateway used by conversation sessions:
// chat and message mutations plus push subscriptions that re-deliver the
// current chat list or message list whenever it changes.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	app_errors "omnichat/backend/internal/errors"
	"omnichat/backend/internal/model"
	"omnichat/backend/internal/realtime"
	"omnichat/backend/internal/repository"
)

// Unsubscribe stops a subscription. It is idempotent. Once it returns no
// callback of that subscription is running and none will start. It must not
// be called from inside the subscription's own callback.
type Unsubscribe func()

type Gateway struct {
	repo repository.Repository
	bus  realtime.Bus

	now          func() time.Time
	newChatID    func() string
	newMessageID func() string
}

type Option func(*Gateway)

// WithClock overrides the time source used for chat and message timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// WithIDs overrides the chat and message id generators.
func WithIDs(chatID, messageID func() string) Option {
	return func(g *Gateway) {
		g.newChatID = chatID
		g.newMessageID = messageID
	}
}

func New(repo repository.Repository, bus realtime.Bus, opts ...Option) *Gateway {
	g := &Gateway{
		repo:         repo,
		bus:          bus,
		now:          func() time.Time { return time.Now().UTC() },
		newChatID:    uuid.NewString,
		newMessageID: func() string { return ulid.Make().String() },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CreateChat stores a new, empty chat owned by userID and returns its id.
func (g *Gateway) CreateChat(ctx context.Context, title string, provider model.Provider, userID string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", fmt.Errorf("%w: chat owner is required", app_errors.ErrValidation)
	}
	now := g.now()
	chat := &model.Chat{
		ID:        g.newChatID(),
		Title:     title,
		UserID:    userID,
		Provider:  provider,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := g.repo.CreateChat(ctx, chat); err != nil {
		return "", fmt.Errorf("failed to create chat: %w", err)
	}
	slog.Debug("Chat created", "chat_id", chat.ID, "user_id", userID, "provider", provider)

	g.publish(ctx, realtime.ChatsTopic(userID), realtime.Event{Kind: realtime.ChatsChanged, UserID: userID, ChatID: chat.ID})
	return chat.ID, nil
}

// AddMessage appends a message to an existing chat.
func (g *Gateway) AddMessage(ctx context.Context, chatID, text string, sender model.Sender, provider model.Provider, userID string) error {
	msg := &model.Message{
		ID:        g.newMessageID(),
		Text:      text,
		Sender:    sender,
		Timestamp: g.now(),
		Provider:  provider,
		ChatID:    chatID,
		UserID:    userID,
	}
	if err := g.repo.AddMessage(ctx, msg); err != nil {
		return fmt.Errorf("failed to add message to chat %s: %w", chatID, err)
	}

	g.publish(ctx, realtime.MessagesTopic(chatID), realtime.Event{Kind: realtime.MessagesChanged, UserID: userID, ChatID: chatID})
	g.publish(ctx, realtime.ChatsTopic(userID), realtime.Event{Kind: realtime.ChatsChanged, UserID: userID, ChatID: chatID})
	return nil
}

// DeleteChat removes a chat and all of its messages.
func (g *Gateway) DeleteChat(ctx context.Context, chatID string) error {
	chat, err := g.repo.GetChat(ctx, chatID)
	if err != nil {
		return fmt.Errorf("failed to load chat %s: %w", chatID, err)
	}
	if err := g.repo.DeleteChat(ctx, chatID); err != nil {
		return fmt.Errorf("failed to delete chat %s: %w", chatID, err)
	}
	slog.Debug("Chat deleted", "chat_id", chatID, "user_id", chat.UserID)

	g.publish(ctx, realtime.MessagesTopic(chatID), realtime.Event{Kind: realtime.MessagesChanged, UserID: chat.UserID, ChatID: chatID})
	g.publish(ctx, realtime.ChatsTopic(chat.UserID), realtime.Event{Kind: realtime.ChatsChanged, UserID: chat.UserID, ChatID: chatID})
	return nil
}

// TransferAnonymousChats moves everything owned by an anonymous user to the
// account it was upgraded to.
func (g *Gateway) TransferAnonymousChats(ctx context.Context, fromUserID, toUserID string) error {
	if fromUserID == "" || toUserID == "" {
		return fmt.Errorf("%w: both user ids are required", app_errors.ErrValidation)
	}
	if fromUserID == toUserID {
		return nil
	}
	moved, err := g.repo.TransferChats(ctx, fromUserID, toUserID)
	if err != nil {
		return fmt.Errorf("failed to transfer chats: %w", err)
	}
	slog.Info("Transferred anonymous chats", "from_user_id", fromUserID, "to_user_id", toUserID, "chats", moved)

	if moved > 0 {
		g.publish(ctx, realtime.ChatsTopic(fromUserID), realtime.Event{Kind: realtime.ChatsChanged, UserID: fromUserID})
		g.publish(ctx, realtime.ChatsTopic(toUserID), realtime.Event{Kind: realtime.ChatsChanged, UserID: toUserID})
	}
	return nil
}

// SubscribeToUserChats delivers the user's chats, most recently updated
// first, now and after every change.
func (g *Gateway) SubscribeToUserChats(userID string, onUpdate func([]model.Chat)) Unsubscribe {
	return g.subscribe(realtime.ChatsTopic(userID), func(ctx context.Context, sub *subscription) error {
		chats, err := g.repo.GetChats(ctx, userID)
		if err != nil {
			return err
		}
		sub.emit(func() { onUpdate(chats) })
		return nil
	})
}

// SubscribeToMessages delivers a chat's messages in timestamp order, now and
// after every change.
func (g *Gateway) SubscribeToMessages(chatID string, onUpdate func([]model.Message)) Unsubscribe {
	return g.subscribe(realtime.MessagesTopic(chatID), func(ctx context.Context, sub *subscription) error {
		msgs, err := g.repo.GetMessages(ctx, chatID)
		if err != nil {
			return err
		}
		sub.emit(func() { onUpdate(msgs) })
		return nil
	})
}

func (g *Gateway) publish(ctx context.Context, topic string, ev realtime.Event) {
	if ev.At.IsZero() {
		ev.At = g.now()
	}
	if err := g.bus.Publish(ctx, topic, ev); err != nil {
		slog.Warn("Failed to publish change event", "topic", topic, "error", err)
	}
}

type subscription struct {
	mu     sync.Mutex
	closed bool
	cancel context.CancelFunc
}

func (s *subscription) emit(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	fn()
}

func (s *subscription) close() {
	s.cancel()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (g *Gateway) subscribe(topic string, refresh func(ctx context.Context, sub *subscription) error) Unsubscribe {
	ctx, cancel := context.WithCancel(context.Background())
	sub := &subscription{cancel: cancel}

	// Subscribe before the first read so a write landing in between is not lost.
	events, err := g.bus.Subscribe(ctx, topic)
	if err != nil {
		slog.Error("Failed to subscribe to change events, delivering a single snapshot", "topic", topic, "error", err)
	}

	go func() {
		deliver := func() {
			if ctx.Err() != nil {
				return
			}
			if err := refresh(ctx, sub); err != nil && ctx.Err() == nil {
				slog.Error("Failed to refresh subscription snapshot", "topic", topic, "error", err)
			}
		}

		deliver()
		if events == nil {
			return
		}
		for range events {
			deliver()
		}
	}()

	var once sync.Once
	return func() { once.Do(sub.close) }
}
