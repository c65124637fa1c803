package main_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/cardpoint"
	main "github.com/fwojciec/cardpoint/cmd/cardpoint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("uses default sources without a file", func(t *testing.T) {
		t.Parallel()

		cfg, err := main.LoadConfig(env(map[string]string{
			main.EnvAPIKey:  " key ",
			main.EnvModelID: "gemini-test",
		}), "")
		require.NoError(t, err)

		assert.Equal(t, "key", cfg.APIKey)
		assert.Equal(t, "gemini-test", cfg.ModelID)
		require.Len(t, cfg.Sources, 2)
		assert.Equal(t, "SMBC", cfg.Sources[0].Label)
		assert.Equal(t, "MUFG", cfg.Sources[1].Label)
	})

	t.Run("applies promo URL from environment", func(t *testing.T) {
		t.Parallel()

		cfg, err := main.LoadConfig(env(map[string]string{
			"SMBC_PROMO_URL": "https://example.com/promo",
		}), "")
		require.NoError(t, err)

		assert.Equal(t, "https://example.com/promo", cfg.Sources[0].PromoURL)
		assert.Empty(t, cfg.Sources[1].PromoURL)
	})

	t.Run("rejects invalid promo URL", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadConfig(env(map[string]string{
			"MUFG_PROMO_URL": "not a url",
		}), "")
		assert.Equal(t, cardpoint.ECONFIG, cardpoint.ErrorCode(err))
	})

	t.Run("reads sources file", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "sources.yaml", `sources:
  - label: AEON
    url: https://example.com/aeon
    fetch_url: https://reader.example.com/aeon
    caution: 店頭でのお支払いに限ります。
`)
		cfg, err := main.LoadConfig(env(nil), path)
		require.NoError(t, err)

		require.Len(t, cfg.Sources, 1)
		src := cfg.Sources[0]
		assert.Equal(t, "AEON", src.Label)
		assert.Equal(t, "https://reader.example.com/aeon", src.Target())
		assert.Equal(t, "店頭でのお支払いに限ります。", src.Caution)
	})

	t.Run("rejects duplicate labels", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "sources.yaml", `sources:
  - label: A
    url: https://example.com/a
  - label: A
    url: https://example.com/b
`)
		_, err := main.LoadConfig(env(nil), path)
		assert.Equal(t, cardpoint.ECONFIG, cardpoint.ErrorCode(err))
		assert.Contains(t, cardpoint.ErrorMessage(err), "duplicate")
	})

	t.Run("rejects empty sources file", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "sources.yaml", "sources: []\n")
		_, err := main.LoadConfig(env(nil), path)
		assert.Equal(t, cardpoint.ECONFIG, cardpoint.ErrorCode(err))
	})

	t.Run("rejects source without url", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "sources.yaml", "sources:\n  - label: A\n")
		_, err := main.LoadConfig(env(nil), path)
		assert.Equal(t, cardpoint.ECONFIG, cardpoint.ErrorCode(err))
	})

	t.Run("rejects malformed YAML", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "sources.yaml", "sources: [\n")
		_, err := main.LoadConfig(env(nil), path)
		assert.Equal(t, cardpoint.ECONFIG, cardpoint.ErrorCode(err))
	})

	t.Run("missing sources file", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadConfig(env(nil), filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Equal(t, cardpoint.ECONFIG, cardpoint.ErrorCode(err))
	})
}

func TestConfig_RequireAPIKey(t *testing.T) {
	t.Parallel()

	err := (&main.Config{}).RequireAPIKey()
	assert.Equal(t, cardpoint.ECONFIG, cardpoint.ErrorCode(err))
	assert.Contains(t, cardpoint.ErrorMessage(err), main.EnvAPIKey)

	assert.NoError(t, (&main.Config{APIKey: "k"}).RequireAPIKey())
}

func TestPromoEnv(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "SMBC_PROMO_URL", main.PromoEnv("smbc"))
}
