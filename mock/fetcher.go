package mock

import (
	"context"

	"github.com/fwojciec/cardpoint"
)

var _ cardpoint.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of cardpoint.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ cardpoint.Cache = (*Cache)(nil)

// Cache is a mock implementation of cardpoint.Cache.
type Cache struct {
	LoadFn func(ctx context.Context, label string) (string, error)
	SaveFn func(ctx context.Context, label, html string) error
}

func (c *Cache) Load(ctx context.Context, label string) (string, error) {
	return c.LoadFn(ctx, label)
}

func (c *Cache) Save(ctx context.Context, label, html string) error {
	return c.SaveFn(ctx, label, html)
}
