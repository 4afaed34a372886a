package llm

import (
	"context"
	"errors"
	"net/http"

	go_openai "github.com/sashabaranov/go-openai"

	"omnichat/backend/internal/model"
)

// GrokPlaceholderText answers Grok requests while no Grok API key is set.
const GrokPlaceholderText = "Grok integration is not configured on this server yet. For now, you can use ChatGPT, Claude, or Gemini."

// OpenAICompatible talks to any endpoint implementing the OpenAI chat
// completions API. It serves ChatGPT and Grok.
type OpenAICompatible struct {
	provider     model.Provider
	client       *go_openai.Client
	configured   bool
	defaultModel string
	maxTokens    int
	temperature  float32
	// placeholder, when set, is returned instead of ErrNotConfigured.
	placeholder string
}

func makeClient(apiKey, baseURL string, httpClient *http.Client) *go_openai.Client {
	config := go_openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if httpClient != nil {
		config.HTTPClient = httpClient
	}
	return go_openai.NewClientWithConfig(config)
}

// NewChatGPT returns the ChatGPT completer. It asks for at most 1000 tokens
// at temperature 0.7.
func NewChatGPT(apiKey, baseURL string, httpClient *http.Client) *OpenAICompatible {
	return &OpenAICompatible{
		provider:     model.ProviderChatGPT,
		client:       makeClient(apiKey, baseURL, httpClient),
		configured:   apiKey != "",
		defaultModel: model.ProviderChatGPT.DefaultModel(),
		maxTokens:    1000,
		temperature:  0.7,
	}
}

// NewGrok returns the Grok completer for an OpenAI-compatible endpoint.
func NewGrok(apiKey, baseURL, defaultModel string, httpClient *http.Client) *OpenAICompatible {
	return &OpenAICompatible{
		provider:     model.ProviderGrok,
		client:       makeClient(apiKey, baseURL, httpClient),
		configured:   apiKey != "",
		defaultModel: defaultModel,
		placeholder:  GrokPlaceholderText,
	}
}

func (c *OpenAICompatible) Complete(ctx context.Context, message, modelName string) (string, error) {
	if !c.configured {
		if c.placeholder != "" {
			return c.placeholder, nil
		}
		return "", notConfigured(c.provider)
	}
	if modelName == "" {
		modelName = c.defaultModel
	}

	resp, err := c.client.CreateChatCompletion(ctx, go_openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []go_openai.ChatCompletionMessage{
			{Role: go_openai.ChatMessageRoleUser, Content: message},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", c.translateError(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return NoResponseText, nil
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAICompatible) translateError(err error) error {
	var apiErr *go_openai.APIError
	if errors.As(err, &apiErr) {
		return &UpstreamError{Provider: c.provider, StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *go_openai.RequestError
	if errors.As(err, &reqErr) {
		return &UpstreamError{Provider: c.provider, StatusCode: reqErr.HTTPStatusCode}
	}
	return err
}
