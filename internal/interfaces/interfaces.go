package interfaces

import (
	"context"

	"omnichat/backend/internal/conversation"
	"omnichat/backend/internal/identity"
	"omnichat/backend/internal/llm"
	"omnichat/backend/internal/model"
)

// The API layer depends on these contracts rather than on concrete types so
// handlers can be tested against mockery mocks.

// ConversationSession is one tab's conversation state, as served over HTTP.
type ConversationSession interface {
	Snapshot() conversation.View
	Watch(ctx context.Context) <-chan conversation.View
	Send(ctx context.Context, text string) error
	SelectChat(chatID string) error
	NewChat(ctx context.Context) (string, error)
	DeleteChat(ctx context.Context, chatID string) error
	SetProvider(p model.Provider) error
	ClearAnonymous()
}

// SessionRegistry hands out the conversation session of a caller.
type SessionRegistry interface {
	Acquire(sessionID string, user *identity.User) (ConversationSession, error)
	// Hold is Acquire for long-lived streams; the session is not swept
	// until release is called.
	Hold(sessionID string, user *identity.User) (s ConversationSession, release func(), err error)
	// Rebind moves a session from one identity to another after sign-in.
	Rebind(sessionID, fromUID string, to *identity.User) bool
}

// TokenService issues and verifies identity tokens.
type TokenService interface {
	IssueAnonymous() (identity.User, string, error)
	Verify(token string) (*identity.User, error)
}

// ChatTransferer moves an anonymous user's persisted chats to a signed-in user.
type ChatTransferer interface {
	TransferAnonymousChats(ctx context.Context, fromUserID, toUserID string) error
}

// CompleterRegistry resolves the upstream client of an AI provider.
type CompleterRegistry interface {
	Get(p model.Provider) (llm.Completer, error)
}
