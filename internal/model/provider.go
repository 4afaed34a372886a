package model

import (
	"fmt"
	"strings"

	app_errors "omnichat/backend/internal/errors"
)

// Provider is one of the AI chat completion services the application can talk to.
type Provider string

const (
	ProviderChatGPT Provider = "chatgpt"
	ProviderClaude  Provider = "claude"
	ProviderGemini  Provider = "gemini"
	ProviderGrok    Provider = "grok"
)

// DefaultProvider is selected for every new session.
const DefaultProvider = ProviderChatGPT

// Providers lists every supported provider in display order.
func Providers() []Provider {
	return []Provider{ProviderChatGPT, ProviderClaude, ProviderGemini, ProviderGrok}
}

// Valid reports whether p is one of the supported providers.
func (p Provider) Valid() bool {
	switch p {
	case ProviderChatGPT, ProviderClaude, ProviderGemini, ProviderGrok:
		return true
	}
	return false
}

// DisplayName is the human-readable provider name used in error texts.
func (p Provider) DisplayName() string {
	switch p {
	case ProviderChatGPT:
		return "ChatGPT"
	case ProviderClaude:
		return "Claude"
	case ProviderGemini:
		return "Gemini"
	case ProviderGrok:
		return "Grok"
	}
	return string(p)
}

// DefaultModel is the model requested from the provider when the caller gives
// no hint. Grok has none; its endpoint picks the model.
func (p Provider) DefaultModel() string {
	switch p {
	case ProviderChatGPT:
		return "gpt-3.5-turbo"
	case ProviderClaude:
		return "claude-3-sonnet-20240229"
	case ProviderGemini:
		return "gemini-2.0-flash-001"
	}
	return ""
}

// ParseProvider converts a client-supplied identifier into a Provider.
// Matching is case-insensitive; unknown identifiers wrap ErrValidation.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: unsupported AI provider %q", app_errors.ErrValidation, s)
	}
	return p, nil
}
