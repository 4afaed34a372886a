package repository

import (
	"context"

	"omnichat/backend/internal/model"
)

// Repository defines the storage operations for chats and their messages.
type Repository interface {
	CreateChat(ctx context.Context, chat *model.Chat) error
	GetChat(ctx context.Context, chatID string) (*model.Chat, error)
	GetChats(ctx context.Context, userID string) ([]model.Chat, error)
	DeleteChat(ctx context.Context, chatID string) error

	// AddMessage stores msg and bumps the owning chat's message count,
	// last message and update time in the same transaction.
	AddMessage(ctx context.Context, msg *model.Message) error
	GetMessages(ctx context.Context, chatID string) ([]model.Message, error)

	// TransferChats re-owns every chat and message of fromUserID. It returns
	// the number of chats moved.
	TransferChats(ctx context.Context, fromUserID, toUserID string) (int64, error)
}
