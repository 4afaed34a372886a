package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	app_errors "omnichat/backend/internal/errors"
	"omnichat/backend/internal/model"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	c := NewClaude("key", "http://example.invalid", nil)
	r.Register(model.ProviderClaude, c)

	got, err := r.Get(model.ProviderClaude)
	require.NoError(t, err)
	assert.Same(t, c, got)

	_, err = r.Get(model.ProviderGemini)
	assert.ErrorIs(t, err, app_errors.ErrNotFound)
}

func TestOpenAICompatible(t *testing.T) {
	var captured map[string]any
	var capturedAuth, capturedPath string
	status := http.StatusOK
	reply := `{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"hi there"},"finish_reason":"stop"}]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		capturedAuth = r.Header.Get("Authorization")
		captured = map[string]any{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, err := w.Write([]byte(reply))
		assert.NoError(t, err)
	}))
	defer server.Close()
	ctx := context.Background()

	t.Run("ChatGPT success", func(t *testing.T) {
		c := NewChatGPT("sk-test", server.URL+"/v1", nil)
		text, err := c.Complete(ctx, "hello", "")
		require.NoError(t, err)

		assert.Equal(t, "hi there", text)
		assert.Equal(t, "/v1/chat/completions", capturedPath)
		assert.Equal(t, "Bearer sk-test", capturedAuth)
		assert.Equal(t, "gpt-3.5-turbo", captured["model"])
		assert.EqualValues(t, 1000, captured["max_tokens"])
		assert.InDelta(t, 0.7, captured["temperature"], 0.0001)
	})

	t.Run("Grok uses configured model", func(t *testing.T) {
		c := NewGrok("gsk-test", server.URL+"/openai/v1", "llama-test", nil)
		text, err := c.Complete(ctx, "hello", "")
		require.NoError(t, err)
		assert.Equal(t, "hi there", text)
		assert.Equal(t, "/openai/v1/chat/completions", capturedPath)
		assert.Equal(t, "llama-test", captured["model"])
		_, hasMaxTokens := captured["max_tokens"]
		assert.False(t, hasMaxTokens)
	})

	t.Run("Grok without key answers with placeholder", func(t *testing.T) {
		capturedPath = ""
		c := NewGrok("", server.URL, "llama-test", nil)
		text, err := c.Complete(ctx, "hello", "")
		require.NoError(t, err)
		assert.Equal(t, GrokPlaceholderText, text)
		assert.Empty(t, capturedPath)
	})

	t.Run("ChatGPT without key", func(t *testing.T) {
		_, err := NewChatGPT("", server.URL, nil).Complete(ctx, "hello", "")
		assert.ErrorIs(t, err, ErrNotConfigured)
		assert.EqualError(t, err, "ChatGPT API key not configured")
	})

	t.Run("Empty choices", func(t *testing.T) {
		reply = `{"id":"c2","object":"chat.completion","choices":[]}`
		defer func() {
			reply = `{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"hi there"},"finish_reason":"stop"}]}`
		}()
		text, err := NewChatGPT("sk-test", server.URL, nil).Complete(ctx, "hello", "")
		require.NoError(t, err)
		assert.Equal(t, NoResponseText, text)
	})

	t.Run("API error keeps status", func(t *testing.T) {
		status = http.StatusTooManyRequests
		reply = `{"error":{"message":"Rate limit reached","type":"requests"}}`
		defer func() { status = http.StatusOK }()

		_, err := NewChatGPT("sk-test", server.URL, nil).Complete(ctx, "hello", "")
		var upstream *UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
		assert.Equal(t, "Rate limit reached", upstream.Error())
	})
}

func TestClaude(t *testing.T) {
	var captured claudeRequest
	var headers http.Header
	status := http.StatusOK
	reply := `{"content":[{"type":"text","text":"hello from claude"}]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		headers = r.Header.Clone()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(status)
		_, err := w.Write([]byte(reply))
		assert.NoError(t, err)
	}))
	defer server.Close()
	ctx := context.Background()
	c := NewClaude("ant-key", server.URL+"/", nil)

	t.Run("Success", func(t *testing.T) {
		text, err := c.Complete(ctx, "hello", "")
		require.NoError(t, err)
		assert.Equal(t, "hello from claude", text)
		assert.Equal(t, "ant-key", headers.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", headers.Get("anthropic-version"))
		assert.Equal(t, "claude-3-sonnet-20240229", captured.Model)
		assert.Equal(t, 1000, captured.MaxTokens)
		require.Len(t, captured.Messages, 1)
		assert.Equal(t, claudeMessage{Role: "user", Content: "hello"}, captured.Messages[0])
	})

	t.Run("Non-text first block", func(t *testing.T) {
		reply = `{"content":[{"type":"tool_use"}]}`
		text, err := c.Complete(ctx, "hello", "claude-3-haiku")
		require.NoError(t, err)
		assert.Equal(t, NoResponseText, text)
		assert.Equal(t, "claude-3-haiku", captured.Model)
	})

	t.Run("Error response", func(t *testing.T) {
		status = http.StatusUnauthorized
		reply = `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`
		_, err := c.Complete(ctx, "hello", "")
		var upstream *UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, http.StatusUnauthorized, upstream.StatusCode)
		assert.Equal(t, "invalid x-api-key", upstream.Error())
	})

	t.Run("Missing key", func(t *testing.T) {
		_, err := NewClaude("", server.URL, nil).Complete(ctx, "hello", "")
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}

func TestGemini(t *testing.T) {
	var captured geminiRequest
	var capturedPath, capturedKey string
	status := http.StatusOK
	reply := `{"candidates":[{"content":{"role":"model","parts":[{"text":"olá"}]}}]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		capturedKey = r.URL.Query().Get("key")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(status)
		_, err := w.Write([]byte(reply))
		assert.NoError(t, err)
	}))
	defer server.Close()
	ctx := context.Background()

	t.Run("Success with preamble", func(t *testing.T) {
		g := NewGemini("g-key", server.URL+"/v1beta", "Be brief.", nil)
		text, err := g.Complete(ctx, "hello", "")
		require.NoError(t, err)

		assert.Equal(t, "olá", text)
		assert.Equal(t, "/v1beta/models/gemini-2.0-flash-001:generateContent", capturedPath)
		assert.Equal(t, "g-key", capturedKey)
		require.Len(t, captured.Contents, 1)
		assert.Equal(t, "Be brief.\n\nhello", captured.Contents[0].Parts[0].Text)
		assert.Equal(t, geminiGenerationConfig{Temperature: 0.9, TopK: 40, TopP: 0.95, MaxOutputTokens: 2048}, captured.GenerationConfig)
	})

	t.Run("No candidates", func(t *testing.T) {
		reply = `{"candidates":[]}`
		text, err := NewGemini("g-key", server.URL, "", nil).Complete(ctx, "hello", "")
		require.NoError(t, err)
		assert.Equal(t, NoResponseText, text)
		assert.Equal(t, "hello", captured.Contents[0].Parts[0].Text)
	})

	t.Run("Quota error", func(t *testing.T) {
		status = http.StatusTooManyRequests
		reply = `{"error":{"code":429,"message":"Quota exceeded","status":"RESOURCE_EXHAUSTED"}}`
		_, err := NewGemini("g-key", server.URL, "", nil).Complete(ctx, "hello", "")
		var upstream *UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, http.StatusTooManyRequests, upstream.StatusCode)
		assert.Equal(t, "Quota exceeded", upstream.Error())
	})

	t.Run("Transport error hides key", func(t *testing.T) {
		closed := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := closed.URL
		closed.Close()

		_, err := NewGemini("secret-key", url, "", nil).Complete(ctx, "hello", "")
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "secret-key")
	})
}

func TestUpstreamError_DefaultMessage(t *testing.T) {
	err := &UpstreamError{Provider: model.ProviderGrok, StatusCode: http.StatusServiceUnavailable}
	assert.Equal(t, "Grok API error: Service Unavailable", err.Error())
}
