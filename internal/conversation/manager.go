// Package conversation reconciles what a chat session shows: the anonymous
// in-memory conversation, or the signed-in user's persisted chat list and
// current chat, and orchestrates sending messages to the selected AI provider.
package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"omnichat/backend/internal/ai"
	app_errors "omnichat/backend/internal/errors"
	"omnichat/backend/internal/gateway"
	"omnichat/backend/internal/identity"
	"omnichat/backend/internal/model"
)

const (
	// ErrorReplyFormat renders a failed dispatch as the assistant's reply.
	ErrorReplyFormat = "Sorry, I encountered an error: %s"
	// GenericFallbackText is the assistant's reply when the send itself failed.
	GenericFallbackText = "Sorry, something went wrong. Please try again."
)

var (
	ErrEmptyMessage        = fmt.Errorf("%w: message text is empty", app_errors.ErrValidation)
	ErrSendInFlight        = fmt.Errorf("%w: a message is already being sent", app_errors.ErrConflict)
	ErrNoIdentity          = fmt.Errorf("%w: session has no identity yet", app_errors.ErrUnauthorized)
	ErrNotAuthenticated    = fmt.Errorf("%w: operation requires a signed-in user", app_errors.ErrPermission)
	ErrUnsupportedProvider = fmt.Errorf("%w: unsupported AI provider", app_errors.ErrValidation)
	ErrUnknownChat         = fmt.Errorf("%w: chat is not in this session", app_errors.ErrNotFound)
	ErrClosed              = fmt.Errorf("%w: session closed", app_errors.ErrConflict)
)

// Mode is the session's current state.
type Mode string

const (
	ModeUninitialized Mode = "uninitialized"
	ModeAnonymous     Mode = "anonymous"
	ModeAuthenticated Mode = "authenticated"
)

// View is a read-only snapshot of a session. Slices are copies.
type View struct {
	Mode             Mode            `json:"mode"`
	UserID           string          `json:"user_id,omitempty"`
	IsAnonymous      bool            `json:"is_anonymous"`
	Messages         []model.Message `json:"messages"`
	Chats            []model.Chat    `json:"chats"`
	CurrentChatID    string          `json:"current_chat_id,omitempty"`
	IsLoading        bool            `json:"is_loading"`
	SelectedProvider model.Provider  `json:"selected_provider"`
}

// Gateway is the persistence the manager needs for signed-in users.
type Gateway interface {
	CreateChat(ctx context.Context, title string, provider model.Provider, userID string) (string, error)
	AddMessage(ctx context.Context, chatID, text string, sender model.Sender, provider model.Provider, userID string) error
	DeleteChat(ctx context.Context, chatID string) error
	SubscribeToUserChats(userID string, onUpdate func([]model.Chat)) gateway.Unsubscribe
	SubscribeToMessages(chatID string, onUpdate func([]model.Message)) gateway.Unsubscribe
}

// IdentitySource supplies the session's user and reports transitions.
type IdentitySource interface {
	Current() *identity.User
	Watch(fn func(*identity.User)) (cancel func())
}

type Option func(*Manager)

// WithClock overrides the time source for locally created messages.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// Manager owns the state of one chat session. All methods are safe for
// concurrent use; at most one Send runs at a time.
type Manager struct {
	gateway    Gateway
	dispatcher ai.Dispatcher
	now        func() time.Time

	mu       sync.Mutex
	closed   bool
	user     *identity.User
	store    sessionStore
	loading  bool
	provider model.Provider
	watchers map[chan struct{}]struct{}

	done           chan struct{}
	cancelIdentity func()
}

// New creates a manager bound to an identity source. The manager applies the
// source's current user and follows every later transition until Close.
func New(ids IdentitySource, gw Gateway, dispatcher ai.Dispatcher, opts ...Option) *Manager {
	m := &Manager{
		gateway:    gw,
		dispatcher: dispatcher,
		now:        func() time.Time { return time.Now().UTC() },
		provider:   model.DefaultProvider,
		watchers:   make(map[chan struct{}]struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.cancelIdentity = ids.Watch(m.applyIdentity)
	m.applyIdentity(ids.Current())
	return m
}

// Close stops all subscriptions and change feeds. Later calls fail with ErrClosed.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	old := m.store
	m.store = nil
	m.mu.Unlock()

	m.cancelIdentity()
	stopStore(old)
	close(m.done)
}

func stopStore(s sessionStore) {
	rs, ok := s.(*remoteStore)
	if !ok {
		return
	}
	for _, unsub := range rs.teardown() {
		unsub()
	}
}

func (m *Manager) applyIdentity(u *identity.User) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	if identity.Same(m.user, u) && (u == nil) == (m.store == nil) {
		m.mu.Unlock()
		return
	}

	old := m.store
	m.user = u
	var rs *remoteStore
	switch {
	case u == nil:
		m.store = nil
	case u.IsAnonymous:
		m.store = &anonymousStore{}
	default:
		rs = &remoteStore{userID: u.UID}
		m.store = rs
	}
	m.mu.Unlock()

	stopStore(old)
	if u == nil {
		slog.Info("Session identity cleared")
	} else {
		slog.Info("Session identity changed", "user_id", u.UID, "anonymous", u.IsAnonymous)
	}

	if rs != nil {
		unsub := m.gateway.SubscribeToUserChats(rs.userID, func(chats []model.Chat) { m.onChats(rs, chats) })
		m.mu.Lock()
		if m.store == rs {
			rs.unsubChats = unsub
			unsub = nil
		}
		m.mu.Unlock()
		if unsub != nil {
			unsub()
		}
	}
	m.notify()
}

func (m *Manager) onChats(rs *remoteStore, chats []model.Chat) {
	m.mu.Lock()
	if m.store != rs {
		m.mu.Unlock()
		return
	}
	rs.chats = slices.Clone(chats)
	m.mu.Unlock()
	m.notify()
}

func (m *Manager) onMessages(rs *remoteStore, gen uint64, msgs []model.Message) {
	m.mu.Lock()
	if m.store != rs || rs.msgGen != gen {
		m.mu.Unlock()
		return
	}
	rs.reconcile(msgs)
	m.mu.Unlock()
	m.notify()
}

// openChat makes chatID current and subscribes to its messages. The previous
// subscription is stopped before the new one starts.
func (m *Manager) openChat(rs *remoteStore, chatID string) {
	m.mu.Lock()
	if m.store != rs {
		m.mu.Unlock()
		return
	}
	gen, old := rs.switchChat(chatID)
	m.mu.Unlock()

	if old != nil {
		old()
	}

	unsub := m.gateway.SubscribeToMessages(chatID, func(msgs []model.Message) { m.onMessages(rs, gen, msgs) })
	m.mu.Lock()
	if m.store == rs && rs.msgGen == gen {
		rs.unsubMessages = unsub
		unsub = nil
	}
	m.mu.Unlock()
	if unsub != nil {
		unsub()
	}
	m.notify()
}

// Snapshot returns the current view.
func (m *Manager) Snapshot() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := View{
		Mode:             ModeUninitialized,
		Messages:         []model.Message{},
		Chats:            []model.Chat{},
		IsLoading:        m.loading,
		SelectedProvider: m.provider,
	}
	if m.user != nil {
		v.UserID = m.user.UID
		v.IsAnonymous = m.user.IsAnonymous
	}
	switch s := m.store.(type) {
	case *anonymousStore:
		v.Mode = s.mode()
		v.Messages = append(v.Messages, s.messages...)
	case *remoteStore:
		v.Mode = s.mode()
		v.Messages = s.messages()
		v.Chats = append(v.Chats, s.chats...)
		v.CurrentChatID = s.chatID
	}
	return v
}

// Watch streams views, starting with the current one. Views are coalesced:
// a slow reader receives the latest state, not every intermediate one. The
// channel is closed when ctx ends or the manager is closed.
func (m *Manager) Watch(ctx context.Context) <-chan View {
	out := make(chan View)
	sig := make(chan struct{}, 1)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		close(out)
		return out
	}
	m.watchers[sig] = struct{}{}
	m.mu.Unlock()

	go func() {
		defer close(out)
		defer func() {
			m.mu.Lock()
			delete(m.watchers, sig)
			m.mu.Unlock()
		}()

		v := m.Snapshot()
		next := &v
		for {
			var send chan<- View
			var val View
			if next != nil {
				send, val = out, *next
			}
			select {
			case <-ctx.Done():
				return
			case <-m.done:
				return
			case <-sig:
				v := m.Snapshot()
				next = &v
			case send <- val:
				next = nil
			}
		}
	}()
	return out
}

func (m *Manager) notify() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for sig := range m.watchers {
		select {
		case sig <- struct{}{}:
		default:
		}
	}
}

// SetProvider selects the provider used by subsequent sends.
func (m *Manager) SetProvider(p model.Provider) error {
	if !p.Valid() {
		return ErrUnsupportedProvider
	}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.provider = p
	m.mu.Unlock()
	m.notify()
	return nil
}

// ClearAnonymous empties the anonymous conversation. It does nothing for
// signed-in sessions.
func (m *Manager) ClearAnonymous() {
	m.mu.Lock()
	if _, ok := m.store.(*anonymousStore); !ok {
		m.mu.Unlock()
		return
	}
	m.store = &anonymousStore{}
	m.mu.Unlock()
	m.notify()
}

// SelectChat makes one of the user's chats current. Selecting the chat that
// is already current does nothing.
func (m *Manager) SelectChat(chatID string) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	rs, ok := m.store.(*remoteStore)
	if !ok {
		m.mu.Unlock()
		return ErrNotAuthenticated
	}
	if chatID == rs.chatID {
		m.mu.Unlock()
		return nil
	}
	if chatID == "" || !rs.ownsChat(chatID) {
		m.mu.Unlock()
		return ErrUnknownChat
	}
	m.mu.Unlock()

	m.openChat(rs, chatID)
	return nil
}

// NewChat starts a fresh conversation. Anonymous sessions clear their buffer
// and get model.AnonymousChatID; signed-in sessions create and select an
// empty chat titled model.NewChatTitle.
func (m *Manager) NewChat(ctx context.Context) (string, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return "", ErrClosed
	}
	provider := m.provider
	switch s := m.store.(type) {
	case *anonymousStore:
		m.store = &anonymousStore{}
		m.mu.Unlock()
		m.notify()
		return model.AnonymousChatID, nil
	case *remoteStore:
		m.mu.Unlock()
		chatID, err := m.gateway.CreateChat(ctx, model.NewChatTitle, provider, s.userID)
		if err != nil {
			slog.Error("Failed to create new chat", "user_id", s.userID, "error", err)
			return "", err
		}
		m.openChat(s, chatID)
		return chatID, nil
	default:
		m.mu.Unlock()
		return "", ErrNoIdentity
	}
}

// DeleteChat deletes one of the user's chats. When it is the current chat,
// the selection and messages are cleared as soon as the deletion succeeds.
// A failed deletion is logged and leaves the state untouched.
func (m *Manager) DeleteChat(ctx context.Context, chatID string) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	rs, ok := m.store.(*remoteStore)
	if !ok {
		m.mu.Unlock()
		return ErrNotAuthenticated
	}
	if chatID == "" || !rs.ownsChat(chatID) {
		m.mu.Unlock()
		return ErrUnknownChat
	}
	m.mu.Unlock()

	if err := m.gateway.DeleteChat(ctx, chatID); err != nil {
		slog.Error("Failed to delete chat", "chat_id", chatID, "user_id", rs.userID, "error", err)
		return nil
	}

	var old gateway.Unsubscribe
	m.mu.Lock()
	if m.store == rs {
		if rs.chatID == chatID {
			_, old = rs.switchChat("")
		}
		rs.chats = slices.DeleteFunc(rs.chats, func(c model.Chat) bool { return c.ID == chatID })
	}
	m.mu.Unlock()

	if old != nil {
		old()
	}
	m.notify()
	return nil
}

func (m *Manager) newLocalMessage(text string, sender model.Sender, provider model.Provider, chatID, userID string) model.Message {
	return model.Message{
		ID:        "local-" + ulid.Make().String(),
		Text:      text,
		Sender:    sender,
		Timestamp: m.now(),
		Provider:  provider,
		ChatID:    chatID,
		UserID:    userID,
	}
}

func replyText(res ai.Result) string {
	if res.Succeeded {
		return res.Text
	}
	return fmt.Sprintf(ErrorReplyFormat, res.ErrorDetail)
}
