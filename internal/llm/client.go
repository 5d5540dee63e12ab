package llm

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNotConfigured is returned by clients that have no credentials.
var ErrNotConfigured = errors.New("language model credentials are not configured")

type CompletionRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float64
}

// Client is a text completion backend. Implementations do not retry.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Options struct {
	Provider string
	APIKey   string
	Model    string
	// OpenAI only
	BaseURL string
	Timeout time.Duration
}

// New builds the client for opts.Provider. An empty key still yields a client, which
// answers every call with ErrNotConfigured.
func New(ctx context.Context, opts Options) (Client, error) {
	switch strings.ToLower(opts.Provider) {
	case "", ProviderOpenAI:
		return NewOpenAIClient(OpenAIConfig{
			APIKey:  opts.APIKey,
			BaseURL: opts.BaseURL,
			Model:   opts.Model,
			Timeout: opts.Timeout,
		}), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, GeminiConfig{
			APIKey: opts.APIKey,
			Model:  opts.Model,
		})
	default:
		return nil, errors.New("unknown language model provider: " + opts.Provider)
	}
}
