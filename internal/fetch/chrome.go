// Package fetch - chrome.go implements Driver with chromedp.
package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
)

// ChromeOptions configures the controlled Chrome instance.
type ChromeOptions struct {
	Headless bool
	// ExecPath overrides Chrome discovery when set.
	ExecPath string
	Timing   Timing
	Logger   *slog.Logger
}

// NewChromeBrowser returns a Browser backed by a local Chrome/Chromium.
func NewChromeBrowser(opts ChromeOptions) *ScriptedBrowser {
	timing := opts.Timing
	if timing == (Timing{}) {
		timing = DefaultTiming()
	}
	return &ScriptedBrowser{
		Launch: ChromeLauncher(opts),
		Timing: timing,
		Logger: opts.Logger,
	}
}

// ChromeLauncher starts Chrome with --disable-gpu and --no-sandbox.
func ChromeLauncher(opts ChromeOptions) Launcher {
	return func(ctx context.Context) (Driver, error) {
		allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", opts.Headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
		if opts.ExecPath != "" {
			allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
		}

		allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
		browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

		// Run with no actions starts the browser process.
		if err := chromedp.Run(browserCtx); err != nil {
			cancelBrowser()
			cancelAlloc()
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}

		return &chromeDriver{
			ctx: browserCtx,
			close: func() {
				cancelBrowser()
				cancelAlloc()
			},
		}, nil
	}
}

// chromeDriver runs actions on a single tab. Per-call contexts bound waits;
// the tab context owns the browser process.
type chromeDriver struct {
	ctx   context.Context
	close func()
}

// bind derives a context that ends when either the tab or the caller ends.
func (d *chromeDriver) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithCancel(d.ctx)
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		prev := cancel
		cancel = func() {
			cancelDeadline()
			prev()
		}
	}
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

func (d *chromeDriver) Navigate(ctx context.Context, url string) (int, error) {
	runCtx, cancel := d.bind(ctx)
	defer cancel()

	resp, err := chromedp.RunResponse(runCtx, chromedp.Navigate(url))
	if err != nil {
		return 0, err
	}
	if resp == nil {
		return 0, nil
	}
	return int(resp.Status), nil
}

func (d *chromeDriver) Sleep(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(dur)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-d.ctx.Done():
		return d.ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (d *chromeDriver) WaitVisible(ctx context.Context, selector string) error {
	runCtx, cancel := d.bind(ctx)
	defer cancel()
	return chromedp.Run(runCtx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

func (d *chromeDriver) Click(ctx context.Context, selector string) error {
	runCtx, cancel := d.bind(ctx)
	defer cancel()
	return chromedp.Run(runCtx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible))
}

func (d *chromeDriver) ClickAt(ctx context.Context, x, y float64) error {
	runCtx, cancel := d.bind(ctx)
	defer cancel()
	return chromedp.Run(runCtx, chromedp.MouseClickXY(x, y))
}

// clickableScript reports whether the first match is displayed and enabled.
const clickableScript = `(function(sel) {
	const el = document.querySelector(sel);
	if (!el || el.disabled) { return false; }
	const style = window.getComputedStyle(el);
	return style.display !== 'none' && style.visibility !== 'hidden' && el.getClientRects().length > 0;
})(%q)`

func (d *chromeDriver) Clickable(ctx context.Context, selector string) (bool, error) {
	runCtx, cancel := d.bind(ctx)
	defer cancel()

	var ok bool
	if err := chromedp.Run(runCtx, chromedp.Evaluate(fmt.Sprintf(clickableScript, selector), &ok)); err != nil {
		return false, err
	}
	return ok, nil
}

func (d *chromeDriver) OuterHTML(ctx context.Context) (string, error) {
	runCtx, cancel := d.bind(ctx)
	defer cancel()

	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

func (d *chromeDriver) Close() error {
	d.close()
	return nil
}
