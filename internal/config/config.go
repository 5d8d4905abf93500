// Package config provides configuration loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jonathan/cover-letter-bot/internal/llm"
)

// EnvPrefix prefixes every environment override, e.g. COVER_LETTER_BOT_OUTPUT_DIR.
const EnvPrefix = "COVER_LETTER_BOT"

// DefaultConfigName is looked up in the working directory when no file is given.
const DefaultConfigName = "cover_letter_bot"

// Scraper modes.
const (
	ScraperModeBrowser = "browser"
	ScraperModeHTTP    = "http"
)

// Config is the merged configuration: defaults, then the optional config
// file, then environment variables, then CLI flags.
type Config struct {
	// Paths
	TemplatesDir string `mapstructure:"templates_dir" validate:"required"`
	OutputDir    string `mapstructure:"output_dir" validate:"required"`

	// Typesetting
	Typesetter      string `mapstructure:"typesetter" validate:"required"`
	ExtendedCleanup bool   `mapstructure:"extended_cleanup"`

	// Scraping
	ScraperMode   string `mapstructure:"scraper_mode" validate:"oneof=browser http"`
	Headless      bool   `mapstructure:"headless"`
	ChromePath    string `mapstructure:"chrome_path"`
	SettleSeconds int    `mapstructure:"settle_seconds" validate:"gt=0,lte=120"`

	// Generation
	Provider    string  `mapstructure:"provider" validate:"oneof=openai gemini"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens" validate:"gt=0"`
	Temperature float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	APIKey      string  `mapstructure:"api_key"`

	// Behavior
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	Verbose  bool   `mapstructure:"verbose"`

	Defaults Defaults `mapstructure:"defaults"`
}

// Defaults are the answers offered at each interactive prompt.
type Defaults struct {
	JobURL           string `mapstructure:"job_url"`
	CVTemplate       string `mapstructure:"cv_template"`
	ExemplarTemplate string `mapstructure:"exemplar_template"`
	Limit            string `mapstructure:"limit"`
	Tone             string `mapstructure:"tone"`
	Focus            string `mapstructure:"focus"`
	OutputName       string `mapstructure:"output_name"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		TemplatesDir:    "templates",
		OutputDir:       "output",
		Typesetter:      "pdflatex",
		ExtendedCleanup: true,
		ScraperMode:     ScraperModeBrowser,
		Headless:        true,
		SettleSeconds:   5,
		Provider:        string(llm.ProviderOpenAI),
		MaxTokens:       llm.DefaultMaxTokens,
		Temperature:     llm.DefaultTemperature,
		LogLevel:        "info",
		Defaults: Defaults{
			CVTemplate: "example_cv.tex",
			Tone:       "formal",
			OutputName: "cover_letter.tex",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("templates_dir", d.TemplatesDir)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("typesetter", d.Typesetter)
	v.SetDefault("extended_cleanup", d.ExtendedCleanup)
	v.SetDefault("scraper_mode", d.ScraperMode)
	v.SetDefault("headless", d.Headless)
	v.SetDefault("chrome_path", d.ChromePath)
	v.SetDefault("settle_seconds", d.SettleSeconds)
	v.SetDefault("provider", d.Provider)
	v.SetDefault("model", d.Model)
	v.SetDefault("max_tokens", d.MaxTokens)
	v.SetDefault("temperature", d.Temperature)
	v.SetDefault("api_key", d.APIKey)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("defaults.job_url", d.Defaults.JobURL)
	v.SetDefault("defaults.cv_template", d.Defaults.CVTemplate)
	v.SetDefault("defaults.exemplar_template", d.Defaults.ExemplarTemplate)
	v.SetDefault("defaults.limit", d.Defaults.Limit)
	v.SetDefault("defaults.tone", d.Defaults.Tone)
	v.SetDefault("defaults.focus", d.Defaults.Focus)
	v.SetDefault("defaults.output_name", d.Defaults.OutputName)
}

// Load reads configuration. An empty path looks for cover_letter_bot.yaml
// in the working directory and tolerates its absence; an explicit path
// must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("config error: '%s' failed '%s' check (got %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// ResolveAPIKey returns the configured key, falling back to the provider's
// environment variable.
func (c *Config) ResolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return os.Getenv(llm.Provider(c.Provider).APIKeyEnv())
}

// LLMConfig converts the generation settings.
func (c *Config) LLMConfig() *llm.Config {
	cfg := llm.DefaultConfig()
	if c.Provider == string(llm.ProviderGemini) {
		cfg = llm.DefaultGeminiConfig()
	}
	if c.Model != "" {
		cfg.Model = c.Model
	}
	cfg.MaxTokens = c.MaxTokens
	cfg.Temperature = c.Temperature
	return cfg
}

// Settle returns the post-navigation wait.
func (c *Config) Settle() time.Duration {
	return time.Duration(c.SettleSeconds) * time.Second
}

// SlogLevel maps LogLevel to a slog level; unknown values map to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
