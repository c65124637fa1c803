// Package rod provides a headless Chrome implementation of cardpoint.Fetcher
// for program pages that only render their store lists with JavaScript.
package rod

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fwojciec/cardpoint"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds navigation plus load for one page.
const DefaultFetchTimeout = 60 * time.Second

const (
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	acceptLanguage = "ja,en-US;q=0.9,en;q=0.8"
)

// Ensure Fetcher implements cardpoint.Fetcher at compile time.
var _ cardpoint.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
type Fetcher struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
	closed   bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page timeout.
// Defaults to DefaultFetchTimeout (60s) if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	f.browser = browser
	f.launcher = l
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
// Context errors are returned unchanged; everything else is EFETCH.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	closed := f.closed
	browser := f.browser
	f.mu.Unlock()
	if closed {
		return "", cardpoint.Errorf(cardpoint.EINVALID, "fetcher is closed")
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	html, err := f.render(ctx, browser, url)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && (errors.Is(err, ctxErr) || errors.Is(err, context.DeadlineExceeded)) {
			return "", ctxErr
		}
		return "", cardpoint.Errorf(cardpoint.EFETCH, "render %s: %v", url, err)
	}
	return html, nil
}

func (f *Fetcher) render(ctx context.Context, browser *rod.Browser, url string) (string, error) {
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      userAgent,
		AcceptLanguage: acceptLanguage,
	}); err != nil {
		return "", err
	}

	if err := page.Navigate(url); err != nil {
		return "", err
	}

	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	return page.HTML()
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	var err error
	if f.browser != nil {
		err = f.browser.Close()
	}
	if f.launcher != nil {
		f.launcher.Kill()
	}
	return err
}
