package gemini

import (
	"context"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Model identifiers.
const (
	// LatestAlias tracks the newest flash model.
	LatestAlias = "gemini-flash-latest"

	// FallbackModel is used when the alias does not resolve to a
	// generation carrying PreferredMarker.
	FallbackModel = "gemini-3-flash-preview"

	PreferredMarker = "gemini-3"

	// TokenizerModel is the closest model the local tokenizer knows.
	TokenizerModel = "gemini-2.5-flash"
)

const pingTimeout = 30 * time.Second

// ModelGetter is the subset of *genai.Models used to look up a model.
type ModelGetter interface {
	Get(ctx context.Context, model string, config *genai.GetModelConfig) (*genai.Model, error)
}

var _ ModelGetter = (*genai.Models)(nil)

// ResolveModel picks the model to use. A non-empty override wins.
// Otherwise the latest alias is used when it resolves to a model name
// containing PreferredMarker, and FallbackModel in every other case,
// including lookup failure.
func ResolveModel(ctx context.Context, getter ModelGetter, override string) string {
	if m := strings.TrimSpace(override); m != "" {
		return m
	}
	if getter == nil {
		return FallbackModel
	}

	m, err := getter.Get(ctx, LatestAlias, nil)
	if err != nil || m == nil {
		return FallbackModel
	}
	if strings.Contains(strings.ToLower(m.Name), PreferredMarker) {
		return LatestAlias
	}
	return FallbackModel
}

// Ping sends a minimal request to model and returns its reply.
func Ping(ctx context.Context, gen Generator, model string) (string, error) {
	temp := float32(0)
	config := &genai.GenerateContentConfig{Temperature: &temp}
	out, err := generate(ctx, gen, model, pingTimeout, "Reply with the single word: pong", config)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
