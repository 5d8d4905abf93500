// Package llm provides the generator clients that turn a composed prompt
// into cover letter source.
package llm

import (
	"fmt"
	"time"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderOpenAI is the OpenAI chat completions provider
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Default request parameters.
const (
	DefaultOpenAIModel = "gpt-4.1"
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultMaxTokens   = 2048
	DefaultTemperature = 0.7
	DefaultTimeout     = 2 * time.Minute
	DefaultMaxRetries  = 2
)

// Config holds the generation settings.
type Config struct {
	Provider    Provider
	Model       string
	MaxTokens   int
	Temperature float64
	// BaseURL overrides the provider endpoint (tests, proxies).
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// DefaultConfig returns the default configuration (OpenAI).
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderOpenAI,
		Model:       DefaultOpenAIModel,
		MaxTokens:   DefaultMaxTokens,
		Temperature: DefaultTemperature,
		Timeout:     DefaultTimeout,
		MaxRetries:  DefaultMaxRetries,
	}
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	cfg := DefaultConfig()
	cfg.Provider = ProviderGemini
	cfg.Model = DefaultGeminiModel
	return cfg
}

// WithModel returns a copy of the config using model.
func (c *Config) WithModel(model string) *Config {
	clone := *c
	clone.Model = model
	return &clone
}

// APIKeyEnv names the environment variable holding the provider credential.
func (p Provider) APIKeyEnv() string {
	if p == ProviderGemini {
		return "GEMINI_API_KEY"
	}
	return "OPENAI_API_KEY"
}

// ParseProvider validates a provider name.
func ParseProvider(s string) (Provider, error) {
	switch Provider(s) {
	case ProviderOpenAI, ProviderGemini:
		return Provider(s), nil
	case "":
		return ProviderOpenAI, nil
	default:
		return "", fmt.Errorf("unknown LLM provider %q (want openai or gemini)", s)
	}
}

func (c *Config) withDefaults() *Config {
	out := *c
	if out.Provider == "" {
		out.Provider = ProviderOpenAI
	}
	if out.Model == "" {
		out.Model = DefaultOpenAIModel
		if out.Provider == ProviderGemini {
			out.Model = DefaultGeminiModel
		}
	}
	if out.MaxTokens <= 0 {
		out.MaxTokens = DefaultMaxTokens
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	if out.MaxRetries < 0 {
		out.MaxRetries = 0
	}
	return &out
}
