// Package llm translates the uniform {message, model} request into each AI
// provider's own wire format.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	app_errors "omnichat/backend/internal/errors"
	"omnichat/backend/internal/model"
)

// NoResponseText is returned when the upstream answered without any text.
const NoResponseText = "No response received"

// ErrNotConfigured is returned by a completer whose API key is missing.
var ErrNotConfigured = errors.New("API key not configured")

// Completer produces a single reply for a single user message.
type Completer interface {
	Complete(ctx context.Context, message, modelName string) (string, error)
}

// UpstreamError is a failure reported by the provider's API.
type UpstreamError struct {
	Provider   model.Provider
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s API error: %s", e.Provider.DisplayName(), http.StatusText(e.StatusCode))
	}
	return e.Message
}

func notConfigured(p model.Provider) error {
	return fmt.Errorf("%s %w", p.DisplayName(), ErrNotConfigured)
}

// Registry maps providers to their completers.
type Registry struct {
	mu         sync.RWMutex
	completers map[model.Provider]Completer
}

func NewRegistry() *Registry {
	return &Registry{completers: make(map[model.Provider]Completer)}
}

func (r *Registry) Register(p model.Provider, c Completer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completers[p] = c
}

// Get returns the completer for p. Unknown or unregistered providers wrap
// app_errors.ErrNotFound.
func (r *Registry) Get(p model.Provider) (Completer, error) {
	r.mu.RLock()
	c, ok := r.completers[p]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: unknown ai provider: %s", app_errors.ErrNotFound, p)
	}
	return c, nil
}
