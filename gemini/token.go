package gemini

import (
	"context"

	"github.com/fwojciec/cardpoint"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ cardpoint.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens of reduced page text with the local Gemini
// tokenizer, so oversized prompts show up in the logs before a model call.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a new TokenCounter for the given model. An
// empty model means TokenizerModel.
func NewTokenCounter(model string) (*TokenCounter, error) {
	if model == "" {
		model = TokenizerModel
	}
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, cardpoint.Errorf(cardpoint.ECONFIG, "tokenizer for %s: %v", model, err)
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens counts the number of tokens in the given text.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}

	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	result, err := tc.tok.CountTokens(contents, nil)
	if err != nil {
		return 0, cardpoint.Errorf(cardpoint.EINTERNAL, "count tokens: %v", err)
	}

	return int(result.TotalTokens), nil
}
