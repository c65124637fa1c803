package cardpoint

import "context"

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch retrieves the document at url.
	// Returns EFETCH on non-2xx status, connection error, or timeout.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}

// Cache stores the last successfully fetched document per source label.
// It is consulted when a live fetch fails.
type Cache interface {
	// Load returns the cached document for label.
	// Returns ENOTFOUND if nothing is cached.
	Load(ctx context.Context, label string) (string, error)

	// Save replaces the cached document for label.
	Save(ctx context.Context, label, html string) error
}
