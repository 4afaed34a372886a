// Package ai routes a chat message to the AI provider endpoint selected by the
// user and normalizes every outcome into a Result.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"omnichat/backend/internal/model"
)

const (
	// UnsupportedProviderDetail is the failure detail for an unknown provider.
	UnsupportedProviderDetail = "Unsupported AI provider"
	// NoResponseText replaces a successful reply that carried no text.
	NoResponseText = "No response received"
)

// maxErrorBody bounds how much of a failed response is read for its error field.
const maxErrorBody = 4 * 1024

// Result is the outcome of one dispatch. ErrorDetail is set only when
// Succeeded is false.
type Result struct {
	Text        string `json:"text"`
	Succeeded   bool   `json:"succeeded"`
	ErrorDetail string `json:"error_detail,omitempty"`
}

// Dispatcher sends a message to a provider. Implementations never return an
// error; every failure is reported through the Result.
type Dispatcher interface {
	Dispatch(ctx context.Context, text string, provider model.Provider, modelHint string) Result
}

type route struct {
	path         string
	defaultModel string
}

// routes has one entry per supported provider; dispatcher_test checks that it
// covers model.Providers().
var routes = map[model.Provider]route{
	model.ProviderChatGPT: {path: "chatgpt", defaultModel: model.ProviderChatGPT.DefaultModel()},
	model.ProviderClaude:  {path: "claude", defaultModel: model.ProviderClaude.DefaultModel()},
	model.ProviderGemini:  {path: "gemini", defaultModel: model.ProviderGemini.DefaultModel()},
	model.ProviderGrok:    {path: "grok"},
}

type endpointRequest struct {
	Message string `json:"message"`
	Model   string `json:"model,omitempty"`
}

type endpointResponse struct {
	Text  string `json:"text"`
	Error string `json:"error"`
}

// HTTPDispatcher posts {message, model} to <baseURL>/<provider> and expects
// {text} on success or {error} with a non-2xx status. It makes exactly one
// request per call and never retries.
type HTTPDispatcher struct {
	baseURL string
	client  *http.Client
}

type Option func(*HTTPDispatcher)

// WithHTTPClient replaces the default client. The default has no timeout so
// that the transport decides how long a call may take.
func WithHTTPClient(c *http.Client) Option {
	return func(d *HTTPDispatcher) { d.client = c }
}

func NewHTTPDispatcher(baseURL string, opts ...Option) *HTTPDispatcher {
	d := &HTTPDispatcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func failure(detail string) Result {
	return Result{Succeeded: false, ErrorDetail: detail}
}

func (d *HTTPDispatcher) Dispatch(ctx context.Context, text string, provider model.Provider, modelHint string) Result {
	rt, ok := routes[provider]
	if !ok {
		return failure(UnsupportedProviderDetail)
	}

	modelName := modelHint
	if modelName == "" {
		modelName = rt.defaultModel
	}

	body, err := json.Marshal(endpointRequest{Message: text, Model: modelName})
	if err != nil {
		return failure(fmt.Sprintf("failed to encode request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/"+rt.path, bytes.NewReader(body))
	if err != nil {
		return failure(fmt.Sprintf("failed to build request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return failure(err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var payload endpointResponse
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
			return failure(payload.Error)
		}
		return failure(fmt.Sprintf("%s API error: %s", provider.DisplayName(), http.StatusText(resp.StatusCode)))
	}

	var payload endpointResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return failure(fmt.Sprintf("%s API returned a malformed response: %v", provider.DisplayName(), err))
	}
	if payload.Text == "" {
		return Result{Text: NoResponseText, Succeeded: true}
	}
	return Result{Text: payload.Text, Succeeded: true}
}
