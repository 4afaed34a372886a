package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"omnichat/backend/internal/model"
)

// Gemini calls the Generative Language generateContent endpoint.
type Gemini struct {
	client   *http.Client
	apiKey   string
	baseURL  string
	preamble string
}

// NewGemini returns the Gemini completer. A non-empty preamble is prepended
// to every user message, followed by a blank line.
func NewGemini(apiKey, baseURL, preamble string, httpClient *http.Client) *Gemini {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Gemini{client: httpClient, apiKey: apiKey, baseURL: strings.TrimRight(baseURL, "/"), preamble: preamble}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (g *Gemini) prompt(message string) string {
	if g.preamble == "" {
		return message
	}
	return g.preamble + "\n\n" + message
}

func (g *Gemini) Complete(ctx context.Context, message, modelName string) (string, error) {
	if g.apiKey == "" {
		return "", notConfigured(model.ProviderGemini)
	}
	if modelName == "" {
		modelName = model.ProviderGemini.DefaultModel()
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: g.prompt(message)}}}},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     0.9,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 2048,
		},
	})
	if err != nil {
		return "", fmt.Errorf("could not marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, url.PathEscape(modelName), url.QueryEscape(g.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("could not create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		// The URL carries the key; keep it out of the error text.
		return "", fmt.Errorf("http request to gemini failed: %w", unwrapURLError(err))
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("could not read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp geminiErrorResponse
		_ = json.Unmarshal(respBody, &errResp)
		return "", &UpstreamError{Provider: model.ProviderGemini, StatusCode: resp.StatusCode, Message: errResp.Error.Message}
	}

	var out geminiResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("could not decode gemini response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 || out.Candidates[0].Content.Parts[0].Text == "" {
		return NoResponseText, nil
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}

func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
