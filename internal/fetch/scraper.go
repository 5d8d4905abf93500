package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jonathan/cover-letter-bot/internal/types"
)

// Scraper turns a job listing URL into plain job text.
type Scraper struct {
	Browser Browser
	// Selectors overrides per-platform selection when set.
	Selectors *Selectors
	Logger *slog.Logger
}

// Scrape snapshots url and extracts the description.
// The returned JobText carries the outcome even when err is non-nil.
func (s *Scraper) Scrape(ctx context.Context, url string) (*types.JobText, error) {
	logger := s.logger()
	sel := SelectorsFor(url)
	if s.Selectors != nil {
		sel = *s.Selectors
	}

	job := &types.JobText{SourceURL: url}

	page, err := s.Browser.Snapshot(ctx, url, sel)
	if err != nil {
		job.Outcome = types.OutcomeTransportError
		var fetchErr *Error
		if errors.As(err, &fetchErr) && fetchErr.Kind != "" {
			job.Outcome = fetchErr.Kind
			job.StatusCode = fetchErr.StatusCode
		}
		job.Message = err.Error()
		logger.Error("scrape failed", "url", url, "outcome", job.Outcome, "error", err)
		return job, err
	}

	if page.StatusCode >= 400 {
		err := &Error{
			URL:        url,
			Kind:       types.OutcomeHTTPFailure,
			Message:    fmt.Sprintf("HTTP status %d", page.StatusCode),
			StatusCode: page.StatusCode,
		}
		job.Outcome = types.OutcomeHTTPFailure
		job.StatusCode = page.StatusCode
		job.Message = err.Error()
		logger.Error("scrape failed", "url", url, "status", page.StatusCode)
		return job, err
	}
	job.StatusCode = page.StatusCode

	text, err := Extract(url, page.HTML, sel)
	if err != nil {
		job.Outcome = types.OutcomeExtractionFailure
		job.Message = err.Error()
		var extractErr *ExtractionError
		if errors.As(err, &extractErr) {
			logger.Error("job details section not found",
				"url", url,
				"selectors", extractErr.Selectors,
				"ids", extractErr.Diagnostics.IDs,
				"buttons", extractErr.Diagnostics.Buttons,
			)
		}
		return job, err
	}

	job.Text = text
	job.Outcome = types.OutcomeSuccess
	logger.Info("job description extracted", "url", url, "chars", len(text))
	return job, nil
}

func (s *Scraper) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
