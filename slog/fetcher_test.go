package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/cardpoint"
	"github.com/fwojciec/cardpoint/mock"
	cpslog "github.com/fwojciec/cardpoint/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "<html>content</html>", nil
			},
		}

		fetcher := cpslog.NewLoggingFetcher(inner, logger)
		html, err := fetcher.Fetch(context.Background(), "https://example.com/page")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", html)
		output := buf.String()
		assert.Contains(t, output, "msg=fetch")
		assert.Contains(t, output, "url=https://example.com/page")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				return "", errors.New("network error")
			},
		}

		fetcher := cpslog.NewLoggingFetcher(inner, logger)
		_, err := fetcher.Fetch(context.Background(), "https://example.com/page")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"network error\"")
	})
}

func TestLoggingFetcher_Close(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	closeCalled := false
	inner := &mock.Fetcher{
		CloseFn: func() error {
			closeCalled = true
			return nil
		},
	}

	err := cpslog.NewLoggingFetcher(inner, logger).Close()

	require.NoError(t, err)
	assert.True(t, closeCalled)
}

func TestLoggingCache(t *testing.T) {
	t.Parallel()

	t.Run("logs load at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.Cache{
			LoadFn: func(ctx context.Context, label string) (string, error) {
				return "", cardpoint.Errorf(cardpoint.ENOTFOUND, "no cached page for %s", label)
			},
		}

		_, err := cpslog.NewLoggingCache(inner, logger).Load(context.Background(), "SMBC")

		require.Error(t, err)
		assert.Equal(t, cardpoint.ENOTFOUND, cardpoint.ErrorCode(err))
		output := buf.String()
		assert.Contains(t, output, "cache load")
		assert.Contains(t, output, "label=SMBC")
	})

	t.Run("hides debug output at info level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		var saved string
		inner := &mock.Cache{
			SaveFn: func(ctx context.Context, label, html string) error {
				saved = html
				return nil
			},
		}

		err := cpslog.NewLoggingCache(inner, logger).Save(context.Background(), "SMBC", "<p>x</p>")

		require.NoError(t, err)
		assert.Equal(t, "<p>x</p>", saved)
		assert.Empty(t, buf.String())
	})
}
