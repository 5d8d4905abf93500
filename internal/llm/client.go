package llm

import (
	"context"
)

// Generator turns a prompt into generated text.
type Generator interface {
	// Generate submits prompt as a single user message and returns the
	// first choice, trimmed.
	Generate(ctx context.Context, prompt string) (string, error)
	// Close releases any resources held by the client
	Close() error
}

// NewGenerator creates a generator for the configured provider.
func NewGenerator(ctx context.Context, config *Config, apiKey string) (Generator, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return NewOpenAIClient(config, apiKey)
	}
}
