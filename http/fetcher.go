// Package http provides an HTTP-based implementation of cardpoint.Fetcher
// that presents itself as a desktop browser.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/cardpoint"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 30 * time.Second

// DefaultMaxBodyBytes bounds how much of a response body is read.
const DefaultMaxBodyBytes = 16 << 20

// BrowserHeaders returns the headers sent with every request. Card issuer
// sites reject requests that do not look like a real Chrome on Windows.
func BrowserHeaders() http.Header {
	h := http.Header{}
	h.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7")
	h.Set("Accept-Language", "ja,en-US;q=0.9,en;q=0.8")
	h.Set("Sec-Ch-Ua", `"Google Chrome";v="123", "Not:A-Brand";v="8", "Chromium";v="123"`)
	h.Set("Sec-Ch-Ua-Mobile", "?0")
	h.Set("Sec-Ch-Ua-Platform", `"Windows"`)
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Site", "none")
	h.Set("Sec-Fetch-User", "?1")
	h.Set("Upgrade-Insecure-Requests", "1")
	return h
}

// Ensure Fetcher implements cardpoint.Fetcher at compile time.
var _ cardpoint.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP requests.
// It does not execute JavaScript and does not retry.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	headers http.Header
	maxBody int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithHeader overrides a single request header.
func WithHeader(key, value string) Option {
	return func(f *Fetcher) {
		f.headers.Set(key, value)
	}
}

// WithMaxBodyBytes sets the largest accepted response body. Larger
// bodies fail rather than being cut short.
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBody = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout: DefaultFetchTimeout,
		headers: BrowserHeaders(),
		maxBody: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", cardpoint.Errorf(cardpoint.EFETCH, "invalid request for %s: %v", url, err)
	}
	req.Header = f.headers.Clone()

	resp, err := f.client.Do(req)
	if err != nil {
		return "", cardpoint.Errorf(cardpoint.EFETCH, "request %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", cardpoint.Errorf(cardpoint.EFETCH, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return "", cardpoint.Errorf(cardpoint.EFETCH, "reading body of %s: %v", url, err)
	}
	if int64(len(body)) > f.maxBody {
		return "", cardpoint.Errorf(cardpoint.EFETCH, "body of %s exceeds %d bytes", url, f.maxBody)
	}

	return string(body), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
