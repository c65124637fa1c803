package main_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/cardpoint"
	main "github.com/fwojciec/cardpoint/cmd/cardpoint"
	"github.com/fwojciec/cardpoint/mock"
	"github.com/fwojciec/cardpoint/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noPace struct{}

func (noPace) Wait(context.Context) error { return nil }

func TestRunCmd_Run(t *testing.T) {
	t.Parallel()

	sources := []*cardpoint.Source{
		{Label: "SMBC", URL: "https://example.com/smbc"},
		{Label: "MUFG", URL: "https://example.com/mufg"},
	}

	t.Run("prints per-source summary", func(t *testing.T) {
		t.Parallel()

		var written *cardpoint.Result
		driver := &pipeline.Driver{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					if url == "https://example.com/mufg" {
						return "", cardpoint.Errorf(cardpoint.EFETCH, "status 503")
					}
					return "<p>page</p>", nil
				},
			},
			Reducer: &mock.Reducer{
				ReduceFn: func(html string) (string, error) { return html, nil },
			},
			Analyzer: &mock.Analyzer{
				AnalyzeFn: func(context.Context, *cardpoint.ExtractionRequest) (string, error) {
					return `[{"name":"ローソン"},{"name":"ファミリーマート"}]`, nil
				},
			},
			Parser: &mock.ResponseParser{
				ParseRecordsFn: func(string) ([]cardpoint.Record, error) {
					return []cardpoint.Record{{"name": "ローソン"}, {"name": "ファミリーマート"}}, nil
				},
			},
			Writer: &mock.ResultWriter{
				WriteResultFn: func(_ context.Context, r *cardpoint.Result) error {
					written = r
					return nil
				},
			},
			Pacer: noPace{},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Config: &main.Config{Sources: sources},
			Driver: driver,
		}

		cmd := &main.RunCmd{Output: "stores.json"}
		require.NoError(t, cmd.Run(deps))

		require.NotNil(t, written)
		out := stdout.String()
		assert.Contains(t, out, "SMBC: 2 stores")
		assert.Contains(t, out, "MUFG: 0 stores error: status 503")
		assert.Contains(t, out, "Wrote 2 stores to stores.json")
		assert.Less(t, bytes.Index(stdout.Bytes(), []byte("SMBC")), bytes.Index(stdout.Bytes(), []byte("MUFG")))
	})

	t.Run("returns write error", func(t *testing.T) {
		t.Parallel()

		driver := &pipeline.Driver{
			Fetcher: &mock.Fetcher{
				FetchFn: func(context.Context, string) (string, error) {
					return "", cardpoint.Errorf(cardpoint.EFETCH, "down")
				},
			},
			Writer: &mock.ResultWriter{
				WriteResultFn: func(context.Context, *cardpoint.Result) error {
					return errors.New("disk full")
				},
			},
			Pacer: noPace{},
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: &bytes.Buffer{},
			Stderr: stderr,
			Config: &main.Config{Sources: sources},
			Driver: driver,
		}

		err := (&main.RunCmd{Output: "stores.json"}).Run(deps)
		assert.Equal(t, cardpoint.EPERSIST, cardpoint.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error:")
	})
}
