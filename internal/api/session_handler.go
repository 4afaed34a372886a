package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"omnichat/backend/internal/conversation"
	app_errors "omnichat/backend/internal/errors"
	"omnichat/backend/internal/interfaces"
	"omnichat/backend/internal/model"
)

// keepAliveInterval spaces the comment frames sent on an idle event stream.
const keepAliveInterval = 15 * time.Second

type SendMessageRequest struct {
	Text string `json:"text" validate:"required" example:"Explain goroutines in one sentence"`
}

type SelectChatRequest struct {
	ChatID string `json:"chat_id" validate:"required"`
}

type SetProviderRequest struct {
	Provider string `json:"provider" validate:"required" example:"claude"`
}

type NewChatResponse struct {
	ChatID string            `json:"chat_id"`
	State  conversation.View `json:"state"`
}

// SessionHandler exposes the caller's conversation session.
type SessionHandler struct {
	sessions interfaces.SessionRegistry
}

func NewSessionHandler(sessions interfaces.SessionRegistry) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (interfaces.ConversationSession, bool) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, app_errors.ErrUnauthorized)
		return nil, false
	}
	s, err := h.sessions.Acquire(r.Header.Get(SessionHeader), user)
	if err != nil {
		respondWithError(w, err)
		return nil, false
	}
	return s, true
}

// GetSession godoc
// @Summary      Current session state
// @Description  Returns the messages, chats, selected chat, loading flag and provider of the caller's session.
// @Tags         Session
// @Produce      json
// @Param        X-Session-ID  header  string  false  "Tab session id"
// @Success      200  {object}  conversation.View
// @Failure      401  {object}  ErrorResponse
// @Router       /v1/session [get]
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, s.Snapshot())
}

// SendMessage godoc
// @Summary      Send a message
// @Description  Sends the text to the selected provider and waits for the exchange to finish. AI failures appear as assistant messages, not as errors.
// @Tags         Session
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header  string              false  "Tab session id"
// @Param        request       body    SendMessageRequest  true   "Message"
// @Success      200  {object}  conversation.View
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse "A send is already in flight"
// @Router       /v1/session/messages [post]
func (h *SessionHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	if err := s.Send(r.Context(), req.Text); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, s.Snapshot())
}

// ClearMessages godoc
// @Summary      Clear the anonymous conversation
// @Tags         Session
// @Produce      json
// @Param        X-Session-ID  header  string  false  "Tab session id"
// @Success      200  {object}  conversation.View
// @Router       /v1/session/messages [delete]
func (h *SessionHandler) ClearMessages(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.ClearAnonymous()
	respondWithJSON(w, http.StatusOK, s.Snapshot())
}

// NewChat godoc
// @Summary      Start a new chat
// @Description  Anonymous sessions clear their conversation; signed-in sessions create and select an empty chat.
// @Tags         Session
// @Produce      json
// @Param        X-Session-ID  header  string  false  "Tab session id"
// @Success      201  {object}  NewChatResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/session/chats [post]
func (h *SessionHandler) NewChat(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	chatID, err := s.NewChat(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, NewChatResponse{ChatID: chatID, State: s.Snapshot()})
}

// SelectChat godoc
// @Summary      Select the current chat
// @Tags         Session
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header  string             false  "Tab session id"
// @Param        request       body    SelectChatRequest  true   "Chat to open"
// @Success      200  {object}  conversation.View
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/session/chats/current [put]
func (h *SessionHandler) SelectChat(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req SelectChatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	if err := s.SelectChat(req.ChatID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, s.Snapshot())
}

// DeleteChat godoc
// @Summary      Delete a chat
// @Description  A failed deletion is logged and leaves the session unchanged.
// @Tags         Session
// @Produce      json
// @Param        X-Session-ID  header  string  false  "Tab session id"
// @Param        chatID        path    string  true   "Chat ID"
// @Success      200  {object}  conversation.View
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/session/chats/{chatID} [delete]
func (h *SessionHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.DeleteChat(r.Context(), chi.URLParam(r, "chatID")); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, s.Snapshot())
}

// SetProvider godoc
// @Summary      Select the AI provider
// @Tags         Session
// @Accept       json
// @Produce      json
// @Param        X-Session-ID  header  string              false  "Tab session id"
// @Param        request       body    SetProviderRequest  true   "chatgpt, claude, gemini or grok"
// @Success      200  {object}  conversation.View
// @Failure      400  {object}  ErrorResponse
// @Router       /v1/session/provider [put]
func (h *SessionHandler) SetProvider(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req SetProviderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	p, err := model.ParseProvider(req.Provider)
	if err != nil {
		respondWithError(w, err)
		return
	}
	if err := s.SetProvider(p); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, s.Snapshot())
}

// StreamEvents godoc
// @Summary      Session state stream
// @Description  Server-Sent Events stream. Every change of the session is sent as `event: state` carrying the full view; slow readers only get the latest state.
// @Tags         Session
// @Produce      text/event-stream
// @Param        X-Session-ID  header  string  false  "Tab session id"
// @Success      200  {object}  conversation.View "Stream of state events"
// @Failure      401  {object}  ErrorResponse
// @Router       /v1/session/events [get]
func (h *SessionHandler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respondWithError(w, app_errors.ErrUnauthorized)
		return
	}
	sessionID := r.Header.Get(SessionHeader)
	if sessionID == "" {
		sessionID = r.URL.Query().Get("session_id")
	}
	s, release, err := h.sessions.Hold(sessionID, user)
	if err != nil {
		respondWithError(w, err)
		return
	}
	defer release()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ctx := r.Context()
	views := s.Watch(ctx)
	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Client disconnected from session stream", "user_id", user.UID)
			return
		case <-keepAlive.C:
			if err := writeStreamComment(w, "keep-alive"); err != nil {
				slog.Warn("Could not write to session stream, client likely disconnected", "error", err)
				return
			}
		case v, open := <-views:
			if !open {
				sendStreamError(w, "Session closed")
				return
			}
			if err := writeStreamEvent(w, "state", v); err != nil {
				slog.Warn("Could not write to session stream, client likely disconnected", "error", err)
				return
			}
		}
	}
}
