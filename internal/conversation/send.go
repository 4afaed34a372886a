package conversation

import (
	"context"
	"log/slog"
	"strings"

	"omnichat/backend/internal/identity"
	"omnichat/backend/internal/model"
)

// Send posts text to the selected provider and records both sides of the
// exchange. It returns an error only when the send is rejected up front:
// empty text, a send already in flight, or no identity. Every later failure
// ends up in the conversation as an assistant message, or in the log when
// chat creation fails.
//
// The exchange runs to completion even when ctx is cancelled, so a client
// that disconnects does not leave a question without an answer.
func (m *Manager) Send(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyMessage
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.loading {
		m.mu.Unlock()
		return ErrSendInFlight
	}
	if m.store == nil || m.user == nil {
		m.mu.Unlock()
		return ErrNoIdentity
	}
	m.loading = true
	store := m.store
	user := *m.user
	provider := m.provider
	var chatID string
	if rs, ok := store.(*remoteStore); ok {
		chatID = rs.chatID
	}
	m.mu.Unlock()
	m.notify()

	ctx = context.WithoutCancel(ctx)
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Send failed unexpectedly", "user_id", user.UID, "panic", r)
			m.appendFallback(store, "", provider, user.UID)
		}
		m.mu.Lock()
		m.loading = false
		m.mu.Unlock()
		m.notify()
	}()

	switch s := store.(type) {
	case *anonymousStore:
		m.sendAnonymous(ctx, s, user, text, provider)
	case *remoteStore:
		m.sendRemote(ctx, s, user, chatID, text, provider)
	}
	return nil
}

func (m *Manager) sendAnonymous(ctx context.Context, s *anonymousStore, user identity.User, text string, provider model.Provider) {
	userMsg := m.newLocalMessage(text, model.SenderUser, provider, model.AnonymousChatID, user.UID)
	if !m.appendAnonymous(s, userMsg) {
		return
	}

	res := m.dispatcher.Dispatch(ctx, text, provider, "")
	if !res.Succeeded {
		slog.Warn("AI dispatch failed", "provider", provider, "error", res.ErrorDetail)
	}

	reply := m.newLocalMessage(replyText(res), model.SenderAssistant, provider, model.AnonymousChatID, user.UID)
	m.appendAnonymous(s, reply)
}

// appendAnonymous adds msg unless s stopped being the session's store.
func (m *Manager) appendAnonymous(s *anonymousStore, msg model.Message) bool {
	m.mu.Lock()
	if m.store != s {
		m.mu.Unlock()
		return false
	}
	s.messages = append(s.messages, msg)
	m.mu.Unlock()
	m.notify()
	return true
}

// sendRemote runs the signed-in variant of Send. The exchange is written to
// chatID, or to a chat created from text when chatID is empty.
func (m *Manager) sendRemote(ctx context.Context, rs *remoteStore, user identity.User, chatID, text string, provider model.Provider) {
	if chatID == "" {
		created, err := m.gateway.CreateChat(ctx, model.ChatTitle(text), provider, user.UID)
		if err != nil || created == "" {
			slog.Error("Failed to create chat for first message, message not sent", "user_id", user.UID, "error", err)
			return
		}
		chatID = created
		m.adoptCreatedChat(rs, chatID)
	}

	userMsg := m.newLocalMessage(text, model.SenderUser, provider, chatID, user.UID)
	m.addPending(rs, chatID, userMsg)
	if err := m.gateway.AddMessage(ctx, chatID, text, model.SenderUser, provider, user.UID); err != nil {
		slog.Error("Failed to store user message", "chat_id", chatID, "user_id", user.UID, "error", err)
		m.appendFallback(rs, chatID, provider, user.UID)
		return
	}

	res := m.dispatcher.Dispatch(ctx, text, provider, "")
	if !res.Succeeded {
		slog.Warn("AI dispatch failed", "chat_id", chatID, "provider", provider, "error", res.ErrorDetail)
	}

	reply := m.newLocalMessage(replyText(res), model.SenderAssistant, provider, chatID, user.UID)
	m.addPending(rs, chatID, reply)
	if err := m.gateway.AddMessage(ctx, chatID, reply.Text, model.SenderAssistant, provider, user.UID); err != nil {
		slog.Error("Failed to store assistant message", "chat_id", chatID, "user_id", user.UID, "error", err)
		m.dropPending(rs, chatID, reply.ID)
		m.appendFallback(rs, chatID, provider, user.UID)
	}
}

// adoptCreatedChat selects a chat created by the first send, unless the user
// picked another chat in the meantime.
func (m *Manager) adoptCreatedChat(rs *remoteStore, chatID string) {
	m.mu.Lock()
	adopt := m.store == rs && rs.chatID == ""
	m.mu.Unlock()
	if adopt {
		m.openChat(rs, chatID)
	}
}

func (m *Manager) addPending(rs *remoteStore, chatID string, msg model.Message) {
	m.mu.Lock()
	if m.store != rs || rs.chatID != chatID {
		m.mu.Unlock()
		return
	}
	rs.pending = append(rs.pending, msg)
	m.mu.Unlock()
	m.notify()
}

func (m *Manager) dropPending(rs *remoteStore, chatID, id string) {
	m.mu.Lock()
	if m.store == rs && rs.chatID == chatID {
		rs.removePending(id)
	}
	m.mu.Unlock()
}

// appendFallback records the generic apology in whichever store the send
// targeted. In signed-in sessions it stays local and is not persisted; an
// empty chatID means the store's current chat.
func (m *Manager) appendFallback(store sessionStore, chatID string, provider model.Provider, userID string) {
	switch s := store.(type) {
	case *anonymousStore:
		m.appendAnonymous(s, m.newLocalMessage(GenericFallbackText, model.SenderAssistant, provider, model.AnonymousChatID, userID))
	case *remoteStore:
		if chatID == "" {
			m.mu.Lock()
			chatID = s.chatID
			m.mu.Unlock()
		}
		if chatID == "" {
			return
		}
		m.addPending(s, chatID, m.newLocalMessage(GenericFallbackText, model.SenderAssistant, provider, chatID, userID))
	}
}
