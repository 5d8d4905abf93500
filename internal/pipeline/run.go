// Package pipeline provides the high-level orchestration for one cover
// letter session: preferences, the overlapping scrape, prompt assembly,
// generation and typesetting.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cover-letter-bot/internal/artifacts"
	"github.com/jonathan/cover-letter-bot/internal/config"
	"github.com/jonathan/cover-letter-bot/internal/interactive"
	"github.com/jonathan/cover-letter-bot/internal/llm"
	"github.com/jonathan/cover-letter-bot/internal/observability"
	"github.com/jonathan/cover-letter-bot/internal/pipeline/steps"
	"github.com/jonathan/cover-letter-bot/internal/prompts"
	"github.com/jonathan/cover-letter-bot/internal/rendering"
	"github.com/jonathan/cover-letter-bot/internal/templates"
	"github.com/jonathan/cover-letter-bot/internal/types"
)

// JobDescriptionName is the file the scraped text is persisted to.
const JobDescriptionName = "job_description.txt"

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string    `json:"step"`
	Category string    `json:"category"`
	Message  string    `json:"message"`
	At       time.Time `json:"at"`
	Content  any       `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs. It is only
// invoked from the goroutine running Run.
type ProgressCallback func(event ProgressEvent)

// JobScraper acquires the job description for a URL.
type JobScraper interface {
	Scrape(ctx context.Context, url string) (*types.JobText, error)
}

// GeneratorFactory creates the generator once a prompt is ready.
type GeneratorFactory func(ctx context.Context) (llm.Generator, error)

// Options holds configuration for running the pipeline
type Options struct {
	// Debug substitutes a placeholder letter for the generator call.
	Debug        bool
	TemplatesDir string
	Defaults     config.Defaults

	Prompter     interactive.Prompter
	Scraper      JobScraper
	NewGenerator GeneratorFactory
	Artifacts    *artifacts.Manager

	Logger     *slog.Logger
	OnProgress ProgressCallback
	// Printer receives verbose summaries when set.
	Printer *observability.Printer
}

// Result is what a session produced, including partial output on failure.
type Result struct {
	Preferences     *types.Preferences
	JobText         *types.JobText
	Prompt          string
	Artifacts       *types.ArtifactSet
	CleanupWarnings []*artifacts.CleanupWarning
	Timeline        []steps.Record
}

type session struct {
	opts    Options
	logger  *slog.Logger
	tracker *steps.Tracker
	result  *Result
}

// emitProgress calls the progress callback if configured
func (s *session) emitProgress(step, message string, content any) {
	if s.opts.OnProgress == nil {
		return
	}
	s.opts.OnProgress(ProgressEvent{
		Step:     step,
		Category: steps.StepRegistry[step].Category,
		Message:  message,
		At:       time.Now(),
		Content:  content,
	})
}

func (o *Options) validate() error {
	switch {
	case o.Prompter == nil:
		return errors.New("pipeline: prompter is required")
	case o.Scraper == nil:
		return errors.New("pipeline: scraper is required")
	case o.Artifacts == nil:
		return errors.New("pipeline: artifact manager is required")
	case !o.Debug && o.NewGenerator == nil:
		return errors.New("pipeline: generator factory is required outside debug mode")
	}
	return nil
}

// Run executes one session. The scrape starts as soon as the job URL is
// known and runs while the remaining preferences are collected; it is
// joined before the prompt is built. Aborting a prompt cancels the scrape
// and waits for it to release its resources.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.TemplatesDir == "" {
		opts.TemplatesDir = "templates"
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &session{
		opts:    opts,
		logger:  logger,
		tracker: steps.NewTracker(),
		result:  &Result{},
	}
	err := s.run(ctx)
	s.result.Timeline = s.tracker.Records()
	return s.result, err
}

func (s *session) run(ctx context.Context) error {
	var jobURL string
	err := s.tracker.Run(steps.PromptURL, func() error {
		var err error
		jobURL, err = s.opts.Prompter.JobURL(ctx, s.opts.Defaults.JobURL)
		return err
	})
	if err != nil {
		return err
	}
	if jobURL == "" {
		return &types.ConfigError{Field: "job URL", Message: "a job listing URL is required"}
	}

	// The scrape is the only concurrent task of the session.
	scrapeCtx, cancelScrape := context.WithCancel(ctx)
	defer cancelScrape()
	g, gctx := errgroup.WithContext(scrapeCtx)

	var job *types.JobText
	if err := s.tracker.Run(steps.StartScrape, func() error { return nil }); err != nil {
		return err
	}
	g.Go(func() error {
		return s.tracker.Run(steps.Scrape, func() error {
			var err error
			job, err = s.opts.Scraper.Scrape(gctx, jobURL)
			return err
		})
	})
	s.logger.Info("scrape started", "url", jobURL)
	s.emitProgress(steps.StartScrape, "Starting to scrape job description...", jobURL)

	prefs, err := s.collect(ctx, jobURL)
	if err != nil {
		cancelScrape()
		_ = g.Wait()
		s.logger.Info("session aborted, scrape released", "error", err)
		return err
	}
	s.result.Preferences = prefs
	if s.opts.Printer != nil {
		s.opts.Printer.PrintPreferences(prefs)
	}

	if err := s.tracker.Begin(steps.JoinScrape); err != nil {
		return err
	}
	s.emitProgress(steps.JoinScrape, "Waiting for job description to finish scraping...", nil)
	scrapeErr := g.Wait()
	s.tracker.Finish(steps.JoinScrape, scrapeErr)
	s.result.JobText = job
	if s.opts.Printer != nil {
		s.opts.Printer.PrintJobText(job)
	}
	if scrapeErr != nil {
		return fmt.Errorf("job description scrape failed: %w", scrapeErr)
	}
	s.emitProgress(steps.Scrape, "Job description scraped successfully!", len(job.Text))

	return s.generate(ctx, prefs, job)
}

// collect asks for every preference after the job URL, in order.
func (s *session) collect(ctx context.Context, jobURL string) (*types.Preferences, error) {
	d := s.opts.Defaults
	prefs := &types.Preferences{JobURL: jobURL}

	available, err := templates.List(s.opts.TemplatesDir)
	if err != nil {
		return nil, err
	}

	err = s.prompt(steps.PromptCV, func() error {
		choice, err := s.opts.Prompter.Choose(ctx, interactive.Choice{
			Label:   "Select your CV template",
			Options: available,
			Default: d.CVTemplate,
		})
		prefs.CVPath = filepath.Join(s.opts.TemplatesDir, choice)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = s.prompt(steps.PromptExemplar, func() error {
		choice, err := s.opts.Prompter.Choose(ctx, interactive.Choice{
			Label:     "Select a cover letter template (or None)",
			Options:   available,
			Default:   d.ExemplarTemplate,
			AllowNone: true,
		})
		if choice != "" {
			prefs.ExemplarPath = filepath.Join(s.opts.TemplatesDir, choice)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	err = s.prompt(steps.PromptLength, func() error {
		def := d.Limit
		if def == "" {
			def = interactive.NoneOption
		}
		answer, err := s.opts.Prompter.Ask(ctx, interactive.Question{Label: "Enter the word limit for the cover letter", Default: def})
		if err != nil {
			return err
		}
		prefs.Limit, err = types.ParseLengthLimit(answer)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = s.prompt(steps.PromptTone, func() error {
		def := d.Tone
		if def == "" {
			def = string(types.DefaultTone)
		}
		var err error
		prefs.Tone, err = s.opts.Prompter.Ask(ctx, interactive.Question{Label: "Enter the tone", Default: def})
		return err
	})
	if err != nil {
		return nil, err
	}

	err = s.prompt(steps.PromptFocus, func() error {
		var err error
		prefs.Focus, err = s.opts.Prompter.Ask(ctx, interactive.Question{Label: "Enter the focus", Default: d.Focus})
		return err
	})
	if err != nil {
		return nil, err
	}

	err = s.prompt(steps.PromptOutput, func() error {
		def := d.OutputName
		if def == "" {
			def = types.DefaultOutputName
		}
		var err error
		prefs.OutputName, err = s.opts.Prompter.Ask(ctx, interactive.Question{Label: "Enter the output LaTeX name", Default: def})
		return err
	})
	if err != nil {
		return nil, err
	}

	if err := prefs.Validate(); err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *session) prompt(step string, fn func() error) error {
	s.emitProgress(step, "", nil)
	return s.tracker.Run(step, fn)
}

// generate runs everything after the join: templates, validation,
// persistence, prompt, generation, typesetting and cleanup.
func (s *session) generate(ctx context.Context, prefs *types.Preferences, job *types.JobText) error {
	var cv, exemplar *types.TemplateBlob
	err := s.tracker.Run(steps.LoadTemplates, func() error {
		var err error
		if cv, err = templates.Load(prefs.CVPath); err != nil {
			return err
		}
		if prefs.HasExemplar() {
			exemplar, err = templates.Load(prefs.ExemplarPath)
		}
		return err
	})
	if err != nil {
		return err
	}

	req := prompts.CoverLetterRequest{
		JobText: job.Text,
		CVText:  cv.Content,
		Tone:    prefs.Tone,
		Focus:   prefs.Focus,
		Limit:   prefs.Limit,
	}
	if exemplar != nil {
		req.ExemplarText = exemplar.Content
	}
	if err := s.tracker.Run(steps.ValidateRequest, func() error { return prompts.Validate(req) }); err != nil {
		return err
	}

	manager := s.opts.Artifacts
	if err := s.tracker.Run(steps.EnsureDir, func() error { return manager.EnsureDir(ctx) }); err != nil {
		return err
	}
	s.emitProgress(steps.EnsureDir, "", manager.Dir())
	err = s.tracker.Run(steps.SaveJobDescription, func() error {
		path, err := manager.WriteText(JobDescriptionName, job.Text)
		if err == nil {
			s.logger.Info("job description saved", "path", path)
		}
		return err
	})
	if err != nil {
		return err
	}

	var prompt string
	err = s.tracker.Run(steps.BuildPrompt, func() error {
		var err error
		prompt, err = prompts.BuildCoverLetter(req)
		return err
	})
	if err != nil {
		return err
	}
	s.result.Prompt = prompt
	s.emitProgress(steps.BuildPrompt, "Prompt assembled", len(prompt))
	if s.opts.Debug && s.opts.Printer != nil {
		s.opts.Printer.PrintPrompt(prompt)
	}

	var source string
	err = s.tracker.Run(steps.Generate, func() error {
		var err error
		source, err = s.callGenerator(ctx, prefs, prompt)
		return err
	})
	if err != nil {
		return err
	}

	var set types.ArtifactSet
	err = s.tracker.Run(steps.WriteSource, func() error {
		var err error
		set, err = manager.WriteSource(prefs.OutputName, source)
		return err
	})
	s.result.Artifacts = &set
	if err != nil {
		return err
	}
	s.emitProgress(steps.WriteSource, "Cover letter saved to "+set.SourcePath, set.SourcePath)

	renderErr := s.tracker.Run(steps.Render, func() error {
		var err error
		set, err = manager.Render(ctx, set)
		return err
	})
	s.result.Artifacts = &set

	// Cleanup runs after the typesetter exits, whatever the outcome.
	err = s.tracker.Run(steps.Cleanup, func() error {
		s.result.CleanupWarnings = manager.Cleanup()
		return nil
	})
	if err != nil {
		return err
	}
	if s.opts.Printer != nil {
		s.opts.Printer.PrintCleanupWarnings(s.result.CleanupWarnings)
	}

	if renderErr != nil {
		return renderErr
	}
	s.emitProgress(steps.Render, "PDF saved to "+set.PDFPath, set.PDFPath)
	if s.opts.Printer != nil {
		s.opts.Printer.PrintArtifacts(&set)
	}
	return nil
}

func (s *session) callGenerator(ctx context.Context, prefs *types.Preferences, prompt string) (string, error) {
	var gen llm.Generator
	if s.opts.Debug {
		gen = &llm.DebugGenerator{JobURL: prefs.JobURL}
	} else {
		var err error
		if gen, err = s.opts.NewGenerator(ctx); err != nil {
			return "", err
		}
	}
	defer func() {
		if err := gen.Close(); err != nil {
			s.logger.Warn("generator close failed", "error", err)
		}
	}()

	s.emitProgress(steps.Generate, "Generating cover letter...", nil)
	text, err := gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	source := rendering.StripCodeFences(text)
	if source == "" {
		return "", llm.ErrEmpty
	}
	if rendering.HasUnescaped(source) {
		s.logger.Warn("generated source has unescaped special characters; typesetting may fail",
			"characters", "& % $ #")
	}
	return source, nil
}
