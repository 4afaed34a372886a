package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"omnichat/backend/internal/model"
)

type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

const chatColumns = "id, user_id, title, provider, message_count, last_message, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChat(row rowScanner) (model.Chat, error) {
	var chat model.Chat
	var lastMessage sql.NullString
	err := row.Scan(&chat.ID, &chat.UserID, &chat.Title, &chat.Provider, &chat.MessageCount, &lastMessage, &chat.CreatedAt, &chat.UpdatedAt)
	if err != nil {
		return model.Chat{}, err
	}
	if lastMessage.Valid {
		chat.LastMessage = lastMessage.String
	}
	return chat, nil
}

func (r *sqliteRepository) CreateChat(ctx context.Context, chat *model.Chat) error {
	query := "INSERT INTO chats (" + chatColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?)"
	var lastMessage sql.NullString
	if chat.LastMessage != "" {
		lastMessage = sql.NullString{String: chat.LastMessage, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, query,
		chat.ID, chat.UserID, chat.Title, chat.Provider, chat.MessageCount, lastMessage,
		chat.CreatedAt.UTC(), chat.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("could not insert chat: %w", err)
	}
	return nil
}

func (r *sqliteRepository) GetChat(ctx context.Context, chatID string) (*model.Chat, error) {
	query := "SELECT " + chatColumns + " FROM chats WHERE id = ?"
	chat, err := scanChat(r.db.QueryRowContext(ctx, query, chatID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &chat, nil
}

func (r *sqliteRepository) GetChats(ctx context.Context, userID string) ([]model.Chat, error) {
	query := "SELECT " + chatColumns + " FROM chats WHERE user_id = ? ORDER BY updated_at DESC, id"
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chats := []model.Chat{}
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

func (r *sqliteRepository) DeleteChat(ctx context.Context, chatID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE chat_id = ?", chatID); err != nil {
		return fmt.Errorf("could not delete chat messages: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM chats WHERE id = ?", chatID)
	if err != nil {
		return fmt.Errorf("could not delete chat: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func (r *sqliteRepository) AddMessage(ctx context.Context, msg *model.Message) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	updateChatQuery := `
		UPDATE chats
		SET message_count = message_count + 1, last_message = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := tx.ExecContext(ctx, updateChatQuery, msg.Text, msg.Timestamp.UTC(), msg.ChatID)
	if err != nil {
		return fmt.Errorf("could not update chat: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	insertMsgQuery := `
		INSERT INTO messages (id, chat_id, user_id, sender, text, provider, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, insertMsgQuery,
		msg.ID, msg.ChatID, msg.UserID, msg.Sender, msg.Text, msg.Provider, msg.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("could not insert message: %w", err)
	}

	return tx.Commit()
}

func (r *sqliteRepository) GetMessages(ctx context.Context, chatID string) ([]model.Message, error) {
	query := `
		SELECT id, chat_id, user_id, sender, text, provider, timestamp
		FROM messages
		WHERE chat_id = ?
		ORDER BY timestamp ASC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		var msg model.Message
		if err := rows.Scan(&msg.ID, &msg.ChatID, &msg.UserID, &msg.Sender, &msg.Text, &msg.Provider, &msg.Timestamp); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *sqliteRepository) TransferChats(ctx context.Context, fromUserID, toUserID string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, "UPDATE chats SET user_id = ? WHERE user_id = ?", toUserID, fromUserID)
	if err != nil {
		return 0, fmt.Errorf("could not transfer chats: %w", err)
	}
	moved, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE messages SET user_id = ? WHERE user_id = ?", toUserID, fromUserID); err != nil {
		return 0, fmt.Errorf("could not transfer messages: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return moved, nil
}
