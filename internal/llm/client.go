package llm

import (
	"context"
	"fmt"
)

// CompletionRequest describes a single system + user prompt completion.
type CompletionRequest struct {
	Tier        ModelTier
	System      string
	User        string
	Temperature float32
	MaxTokens   int32
	// JSON asks the provider for a JSON reply when it supports doing so.
	JSON bool
}

// Client is an abstraction over LLM providers
type Client interface {
	// Complete runs a chat-style completion and returns the reply text.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	// Transcribe turns an audio clip into text following instruction.
	// Providers without audio support return ErrUnsupported.
	Transcribe(ctx context.Context, audio []byte, mimeType, instruction string) (string, error)
	// Provider returns the provider name, used for log fields.
	Provider() Provider
	// GetModel returns the provider model configured for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	case ProviderOpenRouter:
		return NewOpenRouterClient(config, apiKey)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", config.Provider)
	}
}
