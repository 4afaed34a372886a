package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"omnichat/backend/internal/interfaces"
	"omnichat/backend/internal/llm"
	"omnichat/backend/internal/model"
)

// CompletionRequest is the uniform body accepted by every provider endpoint.
type CompletionRequest struct {
	Message string `json:"message" example:"Hello!"`
	Model   string `json:"model,omitempty" example:"gpt-3.5-turbo"`
}

type CompletionResponse struct {
	Text string `json:"text"`
}

// ProviderHandler serves the per-provider completion endpoints the
// dispatcher talks to.
type ProviderHandler struct {
	completers interfaces.CompleterRegistry
}

func NewProviderHandler(completers interfaces.CompleterRegistry) *ProviderHandler {
	return &ProviderHandler{completers: completers}
}

// HandleComplete godoc
// @Summary      Ask an AI provider
// @Description  Forwards a single message to ChatGPT, Claude, Gemini or Grok and returns the reply text.
// @Tags         AI
// @Accept       json
// @Produce      json
// @Param        provider  path  string             true  "chatgpt, claude, gemini or grok"
// @Param        request   body  CompletionRequest  true  "Message and optional model"
// @Success      200  {object}  CompletionResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /ai/{provider} [post]
func (h *ProviderHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	provider, err := model.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		respondWithMessage(w, http.StatusNotFound, "Unsupported AI provider")
		return
	}
	completer, err := h.completers.Get(provider)
	if err != nil {
		slog.Warn("No completer registered", "provider", provider, "error", err)
		respondWithMessage(w, http.StatusNotFound, "Unsupported AI provider")
		return
	}

	var req CompletionRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithMessage(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respondWithMessage(w, http.StatusBadRequest, "Message is required")
		return
	}

	text, err := completer.Complete(r.Context(), req.Message, req.Model)
	if err != nil {
		var upstream *llm.UpstreamError
		if errors.As(err, &upstream) {
			slog.Error("Upstream AI request failed", "provider", provider, "status_code", upstream.StatusCode, "error", err)
		} else {
			slog.Error("AI request failed", "provider", provider, "error", err)
		}
		respondWithMessage(w, http.StatusInternalServerError, err.Error())
		return
	}
	if text == "" {
		text = llm.NoResponseText
	}
	respondWithJSON(w, http.StatusOK, CompletionResponse{Text: text})
}
