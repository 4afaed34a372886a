package llm

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

const anthropicVersion = "2023-06-01"

// Claude calls the Anthropic messages API.
type Claude struct {
	client  *http.Client
	apiKey  string
	baseURL string
}

func NewClaude(apiKey, baseURL string, httpClient *http.Client) *Claude {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Claude{client: httpClient, apiKey: apiKey, baseURL: strings.TrimRight(baseURL, "/")}
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type claudeErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Claude) Complete(ctx context.Context, message, modelName string) (string, error) {
	if c.apiKey == "" {
		return "", notConfigured(model.ProviderClaude)
	}
	if modelName == "" {
		modelName = model.ProviderClaude.DefaultModel()
	}

	body, err := json.Marshal(claudeRequest{
		Model:     modelName,
		MaxTokens: 1000,
		Messages:  []claudeMessage{{Role: "user", Content: message}},
	})
	if err != nil {
		return "", fmt.Errorf("could not marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("could not create http request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("could not read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp claudeErrorResponse
		_ = json.Unmarshal(respBody, &errResp)
		return "", &UpstreamError{Provider: model.ProviderClaude, StatusCode: resp.StatusCode, Message: errResp.Error.Message}
	}

	var out claudeResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("could not decode claude response: %w", err)
	}
	if len(out.Content) == 0 || out.Content[0].Type != "text" || out.Content[0].Text == "" {
		return NoResponseText, nil
	}
	return out.Content[0].Text, nil
}
