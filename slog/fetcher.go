// Package slog decorates cardpoint services with structured logging.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/cardpoint"
)

// Ensure LoggingFetcher implements cardpoint.Fetcher.
var _ cardpoint.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   cardpoint.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next cardpoint.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Info("fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// Ensure LoggingCache implements cardpoint.Cache.
var _ cardpoint.Cache = (*LoggingCache)(nil)

// LoggingCache wraps a Cache with debug logging.
type LoggingCache struct {
	next   cardpoint.Cache
	logger *slog.Logger
}

// NewLoggingCache creates a new LoggingCache.
func NewLoggingCache(next cardpoint.Cache, logger *slog.Logger) *LoggingCache {
	return &LoggingCache{next: next, logger: logger}
}

// Load logs the wrapped cache lookup at debug level.
func (c *LoggingCache) Load(ctx context.Context, label string) (html string, err error) {
	defer func() {
		c.logger.Debug("cache load",
			"label", label,
			"bytes", len(html),
			"err", err,
		)
	}()
	return c.next.Load(ctx, label)
}

// Save logs the wrapped cache write at debug level.
func (c *LoggingCache) Save(ctx context.Context, label, html string) (err error) {
	defer func() {
		c.logger.Debug("cache save",
			"label", label,
			"bytes", len(html),
			"err", err,
		)
	}()
	return c.next.Save(ctx, label, html)
}
