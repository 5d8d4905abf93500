// Package fetch - browser.go drives a scripted browser session against a job page.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/jonathan/cover-letter-bot/internal/types"
)

// Browser produces a rendered snapshot of a job page.
type Browser interface {
	Snapshot(ctx context.Context, url string, sel Selectors) (*Page, error)
}

// Driver is one live browser session. Close releases the browser process
// and must be safe to call after the context is cancelled.
type Driver interface {
	Navigate(ctx context.Context, url string) (status int, err error)
	Sleep(ctx context.Context, d time.Duration) error
	WaitVisible(ctx context.Context, selector string) error
	Click(ctx context.Context, selector string) error
	ClickAt(ctx context.Context, x, y float64) error
	Clickable(ctx context.Context, selector string) (bool, error)
	OuterHTML(ctx context.Context) (string, error)
	Close() error
}

// Launcher starts a new Driver.
type Launcher func(ctx context.Context) (Driver, error)

// Timing bounds the waits of a scripted session.
type Timing struct {
	// Settle is the passive wait after navigation.
	Settle time.Duration
	// DismissWait bounds the wait for the modal dismissal control.
	DismissWait time.Duration
	// ExpandDelay is waited before looking for the expand control.
	ExpandDelay time.Duration
	// Reflow is waited after each successful click.
	Reflow time.Duration
}

// DefaultTiming returns the waits used against live pages.
func DefaultTiming() Timing {
	return Timing{
		Settle:      5 * time.Second,
		DismissWait: 5 * time.Second,
		ExpandDelay: time.Second,
		Reflow:      time.Second,
	}
}

// OffTargetPoint is clicked when no dismissal control shows up.
var OffTargetPoint = struct{ X, Y float64 }{X: 10, Y: 10}

// ScriptedBrowser runs the navigation, dismissal and expansion protocol on a
// Driver obtained from Launch.
type ScriptedBrowser struct {
	Launch Launcher
	Timing Timing
	Logger *slog.Logger
}

// Snapshot launches a session, runs the protocol and returns the page HTML.
// The session is closed on every exit path.
func (b *ScriptedBrowser) Snapshot(ctx context.Context, url string, sel Selectors) (page *Page, err error) {
	logger := b.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if err := validateURL(url); err != nil {
		return nil, err
	}

	driver, err := b.Launch(ctx)
	if err != nil {
		return nil, &Error{URL: url, Kind: types.OutcomeTransportError, Message: "failed to launch browser", Cause: err}
	}
	defer func() {
		if closeErr := driver.Close(); closeErr != nil {
			logger.Warn("browser shutdown failed", "error", closeErr)
		}
		logger.Debug("browser session released", "url", url)
	}()

	logger.Info("navigating to job listing", "url", url, "timing", b.Timing.String())
	status, err := driver.Navigate(ctx, url)
	if err != nil {
		return nil, &Error{URL: url, Kind: types.OutcomeTransportError, Message: "navigation failed", Cause: err}
	}

	if err := driver.Sleep(ctx, b.Timing.Settle); err != nil {
		return nil, &Error{URL: url, Kind: types.OutcomeTransportError, Message: "interrupted while page settled", Cause: err}
	}

	b.dismissModal(ctx, driver, sel, logger)
	b.expandContent(ctx, driver, sel, logger)

	if err := ctx.Err(); err != nil {
		return nil, &Error{URL: url, Kind: types.OutcomeTransportError, Message: "scrape cancelled", Cause: err}
	}

	html, err := driver.OuterHTML(ctx)
	if err != nil {
		return nil, &Error{URL: url, Kind: types.OutcomeTransportError, Message: "failed to snapshot page", Cause: err}
	}
	logger.Debug("rendered HTML captured", "bytes", len(html), "status", status)

	return &Page{URL: url, HTML: html, StatusCode: status}, nil
}

// dismissModal closes the sign-in modal, or clicks off-target when the
// control does not appear in time. Neither failure is fatal.
func (b *ScriptedBrowser) dismissModal(ctx context.Context, driver Driver, sel Selectors, logger *slog.Logger) {
	if sel.Dismiss == "" {
		return
	}

	waitCtx, cancel := context.WithTimeout(ctx, b.Timing.DismissWait)
	err := driver.WaitVisible(waitCtx, sel.Dismiss)
	if err == nil {
		err = driver.Click(waitCtx, sel.Dismiss)
	}
	cancel()

	if err == nil {
		logger.Info("sign in modal closed")
		_ = driver.Sleep(ctx, b.Timing.Reflow)
		return
	}
	if ctx.Err() != nil {
		return
	}

	logger.Info("sign in modal not found or not clickable, clicking outside to dismiss", "reason", err)
	if err := driver.ClickAt(ctx, OffTargetPoint.X, OffTargetPoint.Y); err != nil {
		logger.Warn("failed to click outside modal", "error", err)
		return
	}
	_ = driver.Sleep(ctx, b.Timing.Reflow)
}

// expandContent clicks the "show more" control when it is present, displayed
// and enabled. Absence is not an error.
func (b *ScriptedBrowser) expandContent(ctx context.Context, driver Driver, sel Selectors, logger *slog.Logger) {
	if sel.Expand == "" || ctx.Err() != nil {
		return
	}
	if err := driver.Sleep(ctx, b.Timing.ExpandDelay); err != nil {
		return
	}

	ok, err := driver.Clickable(ctx, sel.Expand)
	if err != nil || !ok {
		logger.Info("show more button not found")
		return
	}

	clickCtx, cancel := context.WithTimeout(ctx, b.Timing.DismissWait)
	defer cancel()
	if err := driver.Click(clickCtx, sel.Expand); err != nil {
		logger.Info("show more button not clickable", "error", err)
		return
	}
	_ = driver.Sleep(ctx, b.Timing.Reflow)
}

// HTTPBrowser fetches pages without scripting. It suits listings that
// render server side.
type HTTPBrowser struct {
	Options    *Options
	Attempts   uint
	RetryDelay time.Duration
}

// Snapshot performs a GET, retrying transport errors and 5xx responses.
func (b *HTTPBrowser) Snapshot(ctx context.Context, url string, _ Selectors) (*Page, error) {
	attempts := b.Attempts
	if attempts == 0 {
		attempts = 3
	}
	delay := b.RetryDelay
	if delay == 0 {
		delay = time.Second
	}

	var page *Page
	err := retry.Do(
		func() error {
			p, err := URL(ctx, url, b.Options)
			page = p
			return err
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryableFetch),
	)
	if err != nil {
		var fetchErr *Error
		if errors.As(err, &fetchErr) && fetchErr.Kind == types.OutcomeHTTPFailure && page != nil {
			// Status handling belongs to the scraper.
			return page, nil
		}
		if errors.As(err, &fetchErr) {
			return nil, err
		}
		return nil, &Error{URL: url, Kind: types.OutcomeTransportError, Message: "HTTP fetch failed", Cause: err}
	}
	return page, nil
}

func retryableFetch(err error) bool {
	var fetchErr *Error
	if !errors.As(err, &fetchErr) {
		return true
	}
	if fetchErr.Message == "invalid URL" {
		return false
	}
	if fetchErr.Kind == types.OutcomeHTTPFailure {
		return fetchErr.StatusCode >= 500
	}
	return true
}

// String describes the timing for logs.
func (t Timing) String() string {
	return fmt.Sprintf("settle=%s dismiss=%s expand=%s reflow=%s", t.Settle, t.DismissWait, t.ExpandDelay, t.Reflow)
}
