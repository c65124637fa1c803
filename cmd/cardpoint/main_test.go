package main_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/cardpoint"
	main "github.com/fwojciec/cardpoint/cmd/cardpoint"
	"github.com/fwojciec/cardpoint/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMain(vars map[string]string) *main.Main {
	m := main.NewMain()
	m.Getenv = env(vars)
	return m
}

func noEnvFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestMain_Run_HelpShowsCommands(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := newMain(nil).Run(context.Background(), []string{"--help"}, stdout, stderr)
	require.NoError(t, err)

	helpOutput := stdout.String()
	for _, cmd := range []string{"run", "cache", "check-model", "show"} {
		assert.Contains(t, helpOutput, cmd, "Help should mention %s command", cmd)
	}
	assert.Contains(t, helpOutput, "Usage:")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	err := newMain(nil).Run(context.Background(), nil, &bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestMain_Run_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	stderr := &bytes.Buffer{}

	err := newMain(nil).Run(context.Background(), []string{"--env-file", noEnvFile(t), "run"}, &bytes.Buffer{}, stderr)

	assert.Equal(t, cardpoint.ECONFIG, cardpoint.ErrorCode(err))
	assert.Contains(t, stderr.String(), main.EnvAPIKey)
}

func TestMain_Run_ReadsEnvFile(t *testing.T) {
	t.Parallel()

	envFile := writeFile(t, ".env", "MUFG_PROMO_URL=not-a-url\n")
	stderr := &bytes.Buffer{}

	err := newMain(nil).Run(context.Background(), []string{"--env-file", envFile, "check-model"}, &bytes.Buffer{}, stderr)

	assert.Equal(t, cardpoint.ECONFIG, cardpoint.ErrorCode(err))
	assert.Contains(t, stderr.String(), "not-a-url")
}

func TestMain_Run_InvalidSourcesFile(t *testing.T) {
	t.Parallel()

	sources := writeFile(t, "sources.yaml", "sources: []\n")

	err := newMain(nil).Run(context.Background(),
		[]string{"--env-file", noEnvFile(t), "--sources", sources, "cache"},
		&bytes.Buffer{}, &bytes.Buffer{})

	assert.Equal(t, cardpoint.ECONFIG, cardpoint.ErrorCode(err))
}

func TestMain_Run_CacheListRequiresSQLite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	stderr := &bytes.Buffer{}

	err := newMain(nil).Run(context.Background(),
		[]string{"--env-file", noEnvFile(t), "cache", "--list", "--cache-dir", dir},
		&bytes.Buffer{}, stderr)

	assert.Equal(t, cardpoint.EINVALID, cardpoint.ErrorCode(err))
	assert.Contains(t, stderr.String(), "--cache=sqlite")
}

func TestMain_Run_CacheListEmptyDatabase(t *testing.T) {
	t.Parallel()

	db := filepath.Join(t.TempDir(), "cardpoint.db")
	stdout := &bytes.Buffer{}

	err := newMain(nil).Run(context.Background(),
		[]string{"--env-file", noEnvFile(t), "cache", "--list", "--cache", "sqlite", "--db", db},
		stdout, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "No snapshots found")
}

func TestMain_Run_Show(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "stores.json")
	result := &cardpoint.Result{
		Meta: cardpoint.Meta{
			RunID:       "run-1",
			GeneratedAt: time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC),
			Model:       "gemini-test",
			Sources: map[string]*cardpoint.SourceMeta{
				"SMBC": {URL: "https://example.com/smbc", Count: 1},
			},
		},
		Stores: []cardpoint.Record{
			{"name": "セブン-イレブン", "card": "SMBC"},
		},
	}
	require.NoError(t, fs.NewResultWriter(path).WriteResult(context.Background(), result))

	stdout := &bytes.Buffer{}
	err := newMain(nil).Run(context.Background(), []string{"--env-file", noEnvFile(t), "show", path}, stdout, &bytes.Buffer{})
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "run-1")
	assert.Contains(t, stdout.String(), "セブン-イレブン")
}

func TestMain_Run_InvalidLogLevel(t *testing.T) {
	t.Parallel()

	err := newMain(nil).Run(context.Background(),
		[]string{"--log-level", "loud", "show"},
		&bytes.Buffer{}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger, err := main.NewLogger(buf, "warn")
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	_, err = main.NewLogger(buf, "loud")
	assert.Equal(t, cardpoint.ECONFIG, cardpoint.ErrorCode(err))
}
