package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	app_errors "omnichat/backend/internal/errors"
	"omnichat/backend/internal/identity"
	"omnichat/backend/internal/interfaces"
)

// SessionHeader names the browser tab session a request belongs to. Requests
// without it share one session per user.
const SessionHeader = "X-Session-ID"

type ctxKey int

const userKey ctxKey = iota

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// RequireUser verifies the bearer token and stores the caller in the request
// context. SSE clients that cannot set headers may pass it as ?access_token=.
func RequireUser(tokens interfaces.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				token = r.URL.Query().Get("access_token")
			}
			if token == "" {
				respondWithError(w, fmt.Errorf("%w: missing bearer token", app_errors.ErrUnauthorized))
				return
			}
			user, err := tokens.Verify(token)
			if err != nil {
				respondWithError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
		})
	}
}

// UserFromContext returns the caller stored by RequireUser.
func UserFromContext(ctx context.Context) (*identity.User, bool) {
	u, ok := ctx.Value(userKey).(*identity.User)
	return u, ok && u != nil
}

// AnonymousSessionResponse carries a freshly issued anonymous identity.
type AnonymousSessionResponse struct {
	Token string        `json:"token"`
	User  identity.User `json:"user"`
}

// UpgradeRequest names the anonymous identity whose chats move to the caller.
type UpgradeRequest struct {
	AnonymousToken string `json:"anonymous_token" validate:"required"`
}

type AuthHandler struct {
	tokens   interfaces.TokenService
	chats    interfaces.ChatTransferer
	sessions interfaces.SessionRegistry
}

func NewAuthHandler(tokens interfaces.TokenService, chats interfaces.ChatTransferer, sessions interfaces.SessionRegistry) *AuthHandler {
	return &AuthHandler{tokens: tokens, chats: chats, sessions: sessions}
}

// HandleAnonymous godoc
// @Summary      Sign in anonymously
// @Description  Issues a token for a new anonymous identity. Its conversation is kept in memory only.
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  AnonymousSessionResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/auth/anonymous [post]
func (h *AuthHandler) HandleAnonymous(w http.ResponseWriter, r *http.Request) {
	user, token, err := h.tokens.IssueAnonymous()
	if err != nil {
		respondWithError(w, err)
		return
	}
	slog.Info("Issued anonymous identity", "user_id", user.UID)
	respondWithJSON(w, http.StatusOK, AnonymousSessionResponse{Token: token, User: user})
}

// HandleUpgrade godoc
// @Summary      Adopt an anonymous identity
// @Description  Moves the chats of the anonymous identity to the signed-in caller and hands the tab session over.
// @Tags         Auth
// @Accept       json
// @Param        Authorization  header  string          true  "Bearer token of the signed-in user"
// @Param        X-Session-ID   header  string          false "Tab session id"
// @Param        request        body    UpgradeRequest  true  "Anonymous token"
// @Success      204
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /v1/auth/upgrade [post]
func (h *AuthHandler) HandleUpgrade(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, app_errors.ErrUnauthorized)
		return
	}
	if user.IsAnonymous {
		respondWithError(w, fmt.Errorf("%w: upgrade requires a signed-in user", app_errors.ErrPermission))
		return
	}

	var req UpgradeRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	anon, err := h.tokens.Verify(req.AnonymousToken)
	if err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid anonymous token", app_errors.ErrValidation))
		return
	}
	if !anon.IsAnonymous {
		respondWithError(w, fmt.Errorf("%w: token is not anonymous", app_errors.ErrValidation))
		return
	}

	if err := h.chats.TransferAnonymousChats(r.Context(), anon.UID, user.UID); err != nil {
		respondWithError(w, err)
		return
	}
	h.sessions.Rebind(r.Header.Get(SessionHeader), anon.UID, user)
	w.WriteHeader(http.StatusNoContent)
}
