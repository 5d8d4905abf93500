package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/cover-letter-bot/internal/artifacts"
	"github.com/jonathan/cover-letter-bot/internal/config"
	"github.com/jonathan/cover-letter-bot/internal/fetch"
	"github.com/jonathan/cover-letter-bot/internal/interactive"
	"github.com/jonathan/cover-letter-bot/internal/llm"
	"github.com/jonathan/cover-letter-bot/internal/observability"
	"github.com/jonathan/cover-letter-bot/internal/pipeline"
	"github.com/jonathan/cover-letter-bot/internal/pipeline/steps"
)

var (
	runConfigPath   string
	runDebug        bool
	runVerbose      bool
	runAPIKey       string
	runProvider     string
	runModel        string
	runTemplatesDir string
	runOutputDir    string
	runTypesetter   string
	runScraperMode  string
	runHeadless     bool
	runChromePath   string
	runJobURL       string
	runLogLevel     string

	runCV             string
	runCoverLetter    string
	runLimit          string
	runTone           string
	runFocus          string
	runOutputLatex    string
	runNonInteractive bool
)

func init() {
	registerFlags(rootCmd)
}

func registerFlags(cmd *cobra.Command) {
	// Config file flag (processed first)
	cmd.Flags().StringVar(&runConfigPath, "config", "", "Path to a YAML config file (defaults to ./cover_letter_bot.yaml when present)")

	cmd.Flags().BoolVar(&runDebug, "debug", false, "Skip the generator and typeset a placeholder letter")
	cmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed progress and log to the console")
	cmd.Flags().StringVar(&runProvider, "provider", "", "Generator provider: openai or gemini")
	cmd.Flags().StringVar(&runModel, "model", "", "Model name (defaults to the provider default)")
	cmd.Flags().StringVar(&runTemplatesDir, "templates-dir", "", "Directory holding CV and cover letter templates")
	cmd.Flags().StringVar(&runOutputDir, "output-dir", "", "Directory for generated artifacts")
	cmd.Flags().StringVar(&runTypesetter, "typesetter", "", "Typesetter binary (pdflatex)")
	cmd.Flags().StringVar(&runScraperMode, "scraper", "", "Scraper mode: browser or http")
	cmd.Flags().BoolVar(&runHeadless, "headless", true, "Run the browser without a window")
	cmd.Flags().StringVar(&runChromePath, "chrome-path", "", "Path to the Chrome/Chromium executable")
	// Prompt defaults; with --non-interactive they are the answers
	cmd.Flags().StringVar(&runJobURL, "job-url", "", "URL of the job listing")
	cmd.Flags().StringVar(&runCV, "cv", "", "CV template name in the templates directory")
	cmd.Flags().StringVar(&runCoverLetter, "cover-letter", "", "Cover letter template to use as a style reference (None for no reference)")
	cmd.Flags().StringVar(&runLimit, "limit", "", "Word limit for the cover letter (None for no limit)")
	cmd.Flags().StringVar(&runTone, "tone", "", "Tone of the cover letter")
	cmd.Flags().StringVar(&runFocus, "focus", "", "CV section the cover letter should focus on")
	cmd.Flags().StringVar(&runOutputLatex, "output-latex", "", "Name of the generated LaTeX file")
	cmd.Flags().BoolVar(&runNonInteractive, "non-interactive", false, "Answer every prompt with its default instead of asking")
	cmd.Flags().StringVar(&runLogLevel, "log-level", "", "Session log level: debug, info, warn or error")

	// API key can be passed as a flag, or read from OPENAI_API_KEY / GEMINI_API_KEY
	cmd.Flags().StringVar(&runAPIKey, "api-key", "", "Generator API key (optional, defaults to the provider's env var)")
}

func runBot(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	consoleLevel := slog.LevelWarn
	if cfg.Verbose {
		consoleLevel = cfg.SlogLevel()
	}
	sessionLog := config.NewSessionLog(cmd.ErrOrStderr(), cfg.SlogLevel(), consoleLevel)
	defer func() { _ = sessionLog.Close() }()
	logger := sessionLog.Logger
	logger.Info("session started", "debug", runDebug, "provider", cfg.Provider, "scraper", cfg.ScraperMode)

	out := cmd.OutOrStdout()
	console := interactive.NewConsole(cmd.InOrStdin(), out, runDebug)
	var prompter interactive.Prompter = console
	if runNonInteractive {
		prompter = interactive.Unattended{}
	} else {
		console.Welcome()
	}

	opts := buildOptions(cfg, prompter, logger)
	opts.Debug = runDebug
	opts.OnProgress = func(e pipeline.ProgressEvent) {
		// The session log joins the artifacts once the output directory exists.
		if e.Step == steps.EnsureDir {
			if dir, ok := e.Content.(string); ok {
				if err := sessionLog.Attach(filepath.Join(dir, config.SessionLogName)); err != nil {
					logger.Warn("session log unavailable", "error", err)
				}
			}
		}
		if e.Message != "" {
			console.Status(e.Message)
		}
	}
	if cfg.Verbose || runDebug {
		opts.Printer = observability.NewPrinter(out)
	}

	result, err := pipeline.Run(ctx, opts)
	if err != nil {
		if errors.Is(err, interactive.ErrAborted) {
			console.Failure("Session aborted.")
			logger.Info("session aborted")
			return err
		}
		logger.Error("session failed", "error", err)
		return err
	}

	console.Success(fmt.Sprintf("Cover letter saved to %s", result.Artifacts.PDFPath))
	logger.Info("session completed", "pdf", result.Artifacts.PDFPath, "pages", result.Artifacts.PageCount)
	return nil
}

// loadConfig merges the config file and environment with the flags that
// were explicitly set, then validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(runConfigPath)
	if err != nil {
		return nil, err
	}

	// Only override if the flag was explicitly set
	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbose = runVerbose
	}
	if flags.Changed("api-key") {
		cfg.APIKey = runAPIKey
	}
	if flags.Changed("provider") {
		cfg.Provider = runProvider
	}
	if flags.Changed("model") {
		cfg.Model = runModel
	}
	if flags.Changed("templates-dir") {
		cfg.TemplatesDir = runTemplatesDir
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = runOutputDir
	}
	if flags.Changed("typesetter") {
		cfg.Typesetter = runTypesetter
	}
	if flags.Changed("scraper") {
		cfg.ScraperMode = runScraperMode
	}
	if flags.Changed("headless") {
		cfg.Headless = runHeadless
	}
	if flags.Changed("chrome-path") {
		cfg.ChromePath = runChromePath
	}
	if flags.Changed("job-url") {
		cfg.Defaults.JobURL = runJobURL
	}
	if flags.Changed("cv") {
		cfg.Defaults.CVTemplate = runCV
	}
	if flags.Changed("cover-letter") {
		cfg.Defaults.ExemplarTemplate = runCoverLetter
	}
	if flags.Changed("limit") {
		cfg.Defaults.Limit = runLimit
	}
	if flags.Changed("tone") {
		cfg.Defaults.Tone = runTone
	}
	if flags.Changed("focus") {
		cfg.Defaults.Focus = runFocus
	}
	if flags.Changed("output-latex") {
		cfg.Defaults.OutputName = runOutputLatex
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = runLogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildOptions wires the scraper, artifact manager and generator factory.
func buildOptions(cfg *config.Config, prompter interactive.Prompter, logger *slog.Logger) pipeline.Options {
	var browser fetch.Browser
	switch cfg.ScraperMode {
	case config.ScraperModeHTTP:
		browser = &fetch.HTTPBrowser{Options: fetch.DefaultOptions()}
	default:
		timing := fetch.DefaultTiming()
		timing.Settle = cfg.Settle()
		browser = fetch.NewChromeBrowser(fetch.ChromeOptions{
			Headless: cfg.Headless,
			ExecPath: cfg.ChromePath,
			Timing:   timing,
			Logger:   logger,
		})
	}

	manager := artifacts.NewManager(cfg.OutputDir, artifacts.PDFLaTeX{Binary: cfg.Typesetter}, &artifacts.Options{
		Extended:      cfg.ExtendedCleanup,
		RetryAttempts: artifacts.DefaultOptions().RetryAttempts,
		RetryDelay:    artifacts.DefaultOptions().RetryDelay,
		Logger:        logger,
	})

	llmConfig := cfg.LLMConfig()
	apiKey := cfg.ResolveAPIKey()

	return pipeline.Options{
		TemplatesDir: cfg.TemplatesDir,
		Defaults:     cfg.Defaults,
		Prompter:     prompter,
		Scraper:      &fetch.Scraper{Browser: browser, Logger: logger},
		NewGenerator: func(ctx context.Context) (llm.Generator, error) {
			return llm.NewGenerator(ctx, llmConfig, apiKey)
		},
		Artifacts: manager,
		Logger:    logger,
	}
}

// reportError prints err with whatever detail its kind carries.
func reportError(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)

	var extractErr *fetch.ExtractionError
	if errors.As(err, &extractErr) {
		_, _ = fmt.Fprint(w, extractErr.Diagnostics.String())
	}

	var renderErr *artifacts.RenderError
	if errors.As(err, &renderErr) {
		if renderErr.Stdout != "" {
			_, _ = fmt.Fprintf(w, "Typesetter output:\n%s\n", renderErr.Stdout)
		}
		if renderErr.Stderr != "" {
			_, _ = fmt.Fprintf(w, "Typesetter errors:\n%s\n", renderErr.Stderr)
		}
		if renderErr.LogPath != "" {
			_, _ = fmt.Fprintf(w, "See %s for the full log.\n", renderErr.LogPath)
		}
	}

	var unavailable *llm.UnavailableError
	if errors.As(err, &unavailable) && unavailable.StatusCode == 401 {
		_, _ = fmt.Fprintf(w, "Check %s or pass --api-key.\n", unavailable.Provider.APIKeyEnv())
	}
}
