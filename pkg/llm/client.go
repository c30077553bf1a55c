// Package llm provides thin HTTP clients for the completion providers the
// platform supports. All clients expose the same Complete method so callers
// stay provider-agnostic.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Client produces a completion for a prompt.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config selects and parameterizes a provider.
type Config struct {
	// Provider is one of "ollama", "openai" or "anthropic".
	Provider    string
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float64
	Timeout     time.Duration
}

const defaultTimeout = 120 * time.Second

// New builds the client for cfg.Provider. An unknown provider is a
// configuration error.
func New(cfg Config) (Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Provider {
	case "ollama":
		return newOllamaClient(cfg, httpClient), nil
	case "openai":
		return newOpenAIClient(cfg, httpClient), nil
	case "anthropic":
		return newAnthropicClient(cfg, httpClient), nil
	default:
		return nil, fmt.Errorf("unsupported model provider %q", cfg.Provider)
	}
}
