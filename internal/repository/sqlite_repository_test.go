package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omnichat/backend/internal/database"
	app_errors "omnichat/backend/internal/errors"
	"omnichat/backend/internal/model"
	"omnichat/backend/internal/repository"
)

func setupRepository(t *testing.T) (repository.Repository, *sql.DB) {
	t.Helper()
	db, err := database.InitDB(filepath.Join(t.TempDir(), "repo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repository.NewSQLiteRepository(db), db
}

func newChat(id, userID string, at time.Time) *model.Chat {
	return &model.Chat{
		ID:        id,
		UserID:    userID,
		Title:     "Title " + id,
		Provider:  model.ProviderChatGPT,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func TestSQLiteRepository_ChatLifecycle(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepository(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, repo.CreateChat(ctx, newChat("older", "user-1", base)))
	require.NoError(t, repo.CreateChat(ctx, newChat("newer", "user-1", base.Add(time.Minute))))
	require.NoError(t, repo.CreateChat(ctx, newChat("other", "user-2", base)))

	t.Run("GetChats orders by update time descending", func(t *testing.T) {
		chats, err := repo.GetChats(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, chats, 2)
		assert.Equal(t, "newer", chats[0].ID)
		assert.Equal(t, "older", chats[1].ID)
	})

	t.Run("GetChats for unknown user is empty not nil", func(t *testing.T) {
		chats, err := repo.GetChats(ctx, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, chats)
		assert.Empty(t, chats)
	})

	t.Run("AddMessage updates chat metadata", func(t *testing.T) {
		msgAt := base.Add(time.Hour)
		msg := &model.Message{
			ID: "m1", ChatID: "older", UserID: "user-1", Sender: model.SenderUser,
			Text: "hello", Provider: model.ProviderClaude, Timestamp: msgAt,
		}
		require.NoError(t, repo.AddMessage(ctx, msg))

		chat, err := repo.GetChat(ctx, "older")
		require.NoError(t, err)
		assert.Equal(t, 1, chat.MessageCount)
		assert.Equal(t, "hello", chat.LastMessage)
		assert.True(t, chat.UpdatedAt.Equal(msgAt))

		chats, err := repo.GetChats(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "older", chats[0].ID, "chat with the latest message comes first")
	})

	t.Run("GetMessages returns insertion order", func(t *testing.T) {
		at := base.Add(2 * time.Hour)
		require.NoError(t, repo.AddMessage(ctx, &model.Message{
			ID: "m2", ChatID: "older", UserID: "user-1", Sender: model.SenderAssistant,
			Text: "hi there", Provider: model.ProviderClaude, Timestamp: at,
		}))

		msgs, err := repo.GetMessages(ctx, "older")
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, model.SenderUser, msgs[0].Sender)
		assert.Equal(t, model.SenderAssistant, msgs[1].Sender)
		assert.Equal(t, model.ProviderClaude, msgs[1].Provider)
	})

	t.Run("AddMessage to missing chat", func(t *testing.T) {
		err := repo.AddMessage(ctx, &model.Message{
			ID: "m3", ChatID: "missing", UserID: "user-1", Sender: model.SenderUser,
			Text: "x", Provider: model.ProviderGrok, Timestamp: base,
		})
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.ErrorIs(t, err, app_errors.ErrNotFound)
	})

	t.Run("DeleteChat removes chat and messages", func(t *testing.T) {
		require.NoError(t, repo.DeleteChat(ctx, "older"))

		_, err := repo.GetChat(ctx, "older")
		assert.True(t, repository.IsNotFound(err))

		msgs, err := repo.GetMessages(ctx, "older")
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})

	t.Run("DeleteChat missing", func(t *testing.T) {
		assert.ErrorIs(t, repo.DeleteChat(ctx, "older"), repository.ErrNotFound)
	})
}

func TestSQLiteRepository_TransferChats(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepository(t)
	now := time.Now().UTC()

	require.NoError(t, repo.CreateChat(ctx, newChat("a", "anon-1", now)))
	require.NoError(t, repo.AddMessage(ctx, &model.Message{
		ID: "m1", ChatID: "a", UserID: "anon-1", Sender: model.SenderUser,
		Text: "hello", Provider: model.ProviderChatGPT, Timestamp: now,
	}))

	moved, err := repo.TransferChats(ctx, "anon-1", "user-9")
	require.NoError(t, err)
	assert.Equal(t, int64(1), moved)

	chats, err := repo.GetChats(ctx, "user-9")
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, "a", chats[0].ID)

	msgs, err := repo.GetMessages(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "user-9", msgs[0].UserID)

	moved, err = repo.TransferChats(ctx, "anon-1", "user-9")
	require.NoError(t, err)
	assert.Zero(t, moved)
}

func TestSQLiteRepository_AddMessage_RollsBackOnInsertFailure(t *testing.T) {
	db, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := repository.NewSQLiteRepository(db)
	msg := &model.Message{ID: "m1", ChatID: "c1", UserID: "u1", Sender: model.SenderUser, Text: "hi", Provider: model.ProviderGemini, Timestamp: time.Now()}

	mockDB.ExpectBegin()
	mockDB.ExpectExec("UPDATE chats").WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectExec("INSERT INTO messages").WillReturnError(errors.New("disk full"))
	mockDB.ExpectRollback()

	err = repo.AddMessage(context.Background(), msg)
	assert.ErrorContains(t, err, "could not insert message")
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestSQLiteRepository_DeleteChat_RollsBackWhenMissing(t *testing.T) {
	db, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	repo := repository.NewSQLiteRepository(db)

	mockDB.ExpectBegin()
	mockDB.ExpectExec("DELETE FROM messages").WithArgs("c1").WillReturnResult(sqlmock.NewResult(0, 0))
	mockDB.ExpectExec("DELETE FROM chats").WithArgs("c1").WillReturnResult(sqlmock.NewResult(0, 0))
	mockDB.ExpectRollback()

	err = repo.DeleteChat(context.Background(), "c1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}
