package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"omnichat/backend/internal/api"
	app_errors "omnichat/backend/internal/errors"
	"omnichat/backend/internal/identity"
	"omnichat/backend/internal/interfaces/mocks"
)

func TestRequireUser(t *testing.T) {
	reached := func(t *testing.T, want *identity.User) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := api.UserFromContext(r.Context())
			require.True(t, ok)
			assert.Equal(t, want, u)
			w.WriteHeader(http.StatusTeapot)
		})
	}

	t.Run("Bearer header", func(t *testing.T) {
		tokens := mocks.NewMockTokenService(t)
		tokens.On("Verify", "good").Return(testUser, nil).Once()

		rr := httptest.NewRecorder()
		api.RequireUser(tokens)(reached(t, testUser)).ServeHTTP(rr, withBearer(httptest.NewRequest(http.MethodGet, "/", nil), "good"))

		assert.Equal(t, http.StatusTeapot, rr.Code)
	})

	t.Run("Query parameter", func(t *testing.T) {
		tokens := mocks.NewMockTokenService(t)
		tokens.On("Verify", "good").Return(testUser, nil).Once()

		rr := httptest.NewRecorder()
		api.RequireUser(tokens)(reached(t, testUser)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/?access_token=good", nil))

		assert.Equal(t, http.StatusTeapot, rr.Code)
	})

	t.Run("Missing token", func(t *testing.T) {
		tokens := mocks.NewMockTokenService(t)

		rr := httptest.NewRecorder()
		api.RequireUser(tokens)(reached(t, nil)).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Invalid token", func(t *testing.T) {
		tokens := mocks.NewMockTokenService(t)
		tokens.On("Verify", "expired").Return(nil, fmt.Errorf("%w: token is expired", app_errors.ErrUnauthorized)).Once()

		rr := httptest.NewRecorder()
		api.RequireUser(tokens)(reached(t, nil)).ServeHTTP(rr, withBearer(httptest.NewRequest(http.MethodGet, "/", nil), "expired"))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func setupAuthHandler(t *testing.T) (*api.AuthHandler, *mocks.MockTokenService, *mocks.MockChatTransferer, *mocks.MockSessionRegistry) {
	tokens := mocks.NewMockTokenService(t)
	chats := mocks.NewMockChatTransferer(t)
	sessions := mocks.NewMockSessionRegistry(t)
	return api.NewAuthHandler(tokens, chats, sessions), tokens, chats, sessions
}

func TestAuthHandler_HandleAnonymous(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, tokens, _, _ := setupAuthHandler(t)
		tokens.On("IssueAnonymous").Return(identity.User{UID: "anon-1", IsAnonymous: true}, "tok", nil).Once()

		rr := httptest.NewRecorder()
		handler.HandleAnonymous(rr, httptest.NewRequest(http.MethodPost, "/api/v1/auth/anonymous", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"token":"tok","user":{"uid":"anon-1","is_anonymous":true}}`, rr.Body.String())
	})

	t.Run("Signing failure", func(t *testing.T) {
		handler, tokens, _, _ := setupAuthHandler(t)
		tokens.On("IssueAnonymous").Return(identity.User{}, "", errors.New("no key")).Once()

		rr := httptest.NewRecorder()
		handler.HandleAnonymous(rr, httptest.NewRequest(http.MethodPost, "/api/v1/auth/anonymous", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestAuthHandler_HandleUpgrade(t *testing.T) {
	anon := &identity.User{UID: "anon-1", IsAnonymous: true}
	upgrade := func(u *identity.User, body string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/upgrade", strings.NewReader(body))
		req.Header.Set(api.SessionHeader, "tab-1")
		return withUser(req, u)
	}

	t.Run("Success", func(t *testing.T) {
		handler, tokens, chats, sessions := setupAuthHandler(t)
		tokens.On("Verify", "anon-token").Return(anon, nil).Once()
		chats.On("TransferAnonymousChats", mock.Anything, "anon-1", "user-1").Return(nil).Once()
		sessions.On("Rebind", "tab-1", "anon-1", testUser).Return(true).Once()

		rr := httptest.NewRecorder()
		handler.HandleUpgrade(rr, upgrade(testUser, `{"anonymous_token":"anon-token"}`))

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("Caller is anonymous", func(t *testing.T) {
		handler, _, _, _ := setupAuthHandler(t)

		rr := httptest.NewRecorder()
		handler.HandleUpgrade(rr, upgrade(anon, `{"anonymous_token":"anon-token"}`))

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Missing anonymous token", func(t *testing.T) {
		handler, _, _, _ := setupAuthHandler(t)

		rr := httptest.NewRecorder()
		handler.HandleUpgrade(rr, upgrade(testUser, `{}`))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Token of a signed-in user", func(t *testing.T) {
		handler, tokens, _, _ := setupAuthHandler(t)
		tokens.On("Verify", "other").Return(&identity.User{UID: "user-2"}, nil).Once()

		rr := httptest.NewRecorder()
		handler.HandleUpgrade(rr, upgrade(testUser, `{"anonymous_token":"other"}`))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Transfer failure", func(t *testing.T) {
		handler, tokens, chats, _ := setupAuthHandler(t)
		tokens.On("Verify", "anon-token").Return(anon, nil).Once()
		chats.On("TransferAnonymousChats", mock.Anything, "anon-1", "user-1").Return(errors.New("db down")).Once()

		rr := httptest.NewRecorder()
		handler.HandleUpgrade(rr, upgrade(testUser, `{"anonymous_token":"anon-token"}`))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
