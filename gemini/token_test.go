package gemini_test

import (
	"context"
	"testing"

	"github.com/fwojciec/cardpoint"
	"github.com/fwojciec/cardpoint/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCounter_CountTokens(t *testing.T) {
	t.Parallel()

	tc, err := gemini.NewTokenCounter(gemini.TokenizerModel)
	require.NoError(t, err)

	var _ cardpoint.TokenCounter = tc

	t.Run("counts tokens in japanese text", func(t *testing.T) {
		t.Parallel()

		count, err := tc.CountTokens(context.Background(), "対象のコンビニ・飲食店で最大7%還元")

		require.NoError(t, err)
		assert.Positive(t, count)
	})

	t.Run("empty string returns zero", func(t *testing.T) {
		t.Parallel()

		count, err := tc.CountTokens(context.Background(), "")

		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("longer text returns more tokens", func(t *testing.T) {
		t.Parallel()

		shortCount, err := tc.CountTokens(context.Background(), "ローソン")
		require.NoError(t, err)

		longCount, err := tc.CountTokens(context.Background(), "ローソン、セブン-イレブン、マクドナルド、サイゼリヤ、ガスト、ドトールコーヒーショップ")
		require.NoError(t, err)

		assert.Greater(t, longCount, shortCount)
	})
}

func TestNewTokenCounter_DefaultsModel(t *testing.T) {
	t.Parallel()

	tc, err := gemini.NewTokenCounter("")
	require.NoError(t, err)

	n, err := tc.CountTokens(context.Background(), "対象店舗")
	require.NoError(t, err)
	assert.Positive(t, n)
}

func TestNewTokenCounter_UnknownModel(t *testing.T) {
	t.Parallel()

	_, err := gemini.NewTokenCounter("no-such-model")
	assert.Equal(t, cardpoint.ECONFIG, cardpoint.ErrorCode(err))
}

