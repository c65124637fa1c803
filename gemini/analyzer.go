// Package gemini implements the model-facing parts of cardpoint on top of
// the Google Gen AI SDK: store extraction, promotional copy, model
// resolution and token counting.
package gemini

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/cardpoint"
	"github.com/fwojciec/cardpoint/retry"
	"google.golang.org/genai"
)

// DefaultTimeout bounds a single model call.
const DefaultTimeout = 180 * time.Second

// Generator is the subset of *genai.Models used to generate content.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

var _ Generator = (*genai.Models)(nil)

// Ensure Analyzer implements cardpoint.Analyzer at compile time.
var _ cardpoint.Analyzer = (*Analyzer)(nil)

// Analyzer implements cardpoint.Analyzer using Google Gemini.
type Analyzer struct {
	gen     Generator
	model   string
	policy  retry.Policy
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithRetryPolicy sets the policy applied to rate-limited calls.
func WithRetryPolicy(p retry.Policy) Option {
	return func(a *Analyzer) {
		a.policy = p
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(a *Analyzer) {
		a.timeout = d
	}
}

// WithLogger sets the logger used for retry warnings.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = l
	}
}

// NewAnalyzer creates a new Analyzer for the given model.
func NewAnalyzer(gen Generator, model string, opts ...Option) *Analyzer {
	a := &Analyzer{
		gen:     gen,
		model:   model,
		policy:  retry.DefaultPolicy(),
		timeout: DefaultTimeout,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Model returns the model identifier used for calls.
func (a *Analyzer) Model() string {
	return a.model
}

// Analyze sends the extraction prompt for req and returns the raw reply.
// Rate-limited calls are retried per the policy; when every attempt is
// rate limited the result is empty with a nil error.
func (a *Analyzer) Analyze(ctx context.Context, req *cardpoint.ExtractionRequest) (string, error) {
	if req == nil || req.Source == nil {
		return "", cardpoint.Errorf(cardpoint.EINVALID, "extraction source required")
	}
	if strings.TrimSpace(req.Text) == "" {
		return "", cardpoint.Errorf(cardpoint.EINVALID, "extraction text required")
	}

	prompt := BuildExtractionPrompt(req)
	config := BuildConfig()

	policy := a.policy
	policy.Retryable = IsRateLimited
	policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		a.logger.Warn("model rate limited, backing off",
			"label", req.Source.Label,
			"attempt", attempt,
			"delay", delay,
			"err", err)
	}

	var text string
	err := retry.Do(ctx, policy, func(ctx context.Context) error {
		t, err := generate(ctx, a.gen, a.model, a.timeout, prompt, config)
		if err != nil {
			return err
		}
		text = t
		return nil
	})
	if err != nil {
		if IsRateLimited(err) {
			a.logger.Warn("model rate limit retries exhausted",
				"label", req.Source.Label,
				"attempts", policy.MaxAttempts,
				"err", err)
			return "", nil
		}
		return "", err
	}
	return text, nil
}

// IsRateLimited reports whether err is a transient rate-limit signal.
func IsRateLimited(err error) bool {
	return cardpoint.ErrorCode(err) == cardpoint.ERATELIMIT
}

// generate performs one model call bounded by timeout.
func generate(ctx context.Context, gen Generator, model string, timeout time.Duration, prompt string, config *genai.GenerateContentConfig) (string, error) {
	callCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	resp, err := gen.GenerateContent(callCtx, model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		config,
	)
	if err != nil {
		return "", classify(ctx, err)
	}
	if resp == nil {
		return "", cardpoint.Errorf(cardpoint.EEXTRACT, "gemini returned nil result")
	}
	return resp.Text(), nil
}

// classify maps SDK errors onto cardpoint codes. Cancellation of the
// parent context is returned unchanged.
func classify(parent context.Context, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return cardpoint.Errorf(cardpoint.ERATELIMIT, "model call timed out: %v", err)
	}

	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		apiErr = *apiErrPtr
	default:
		return cardpoint.Errorf(cardpoint.EEXTRACT, "gemini: %v", err)
	}

	if apiErr.Code == 429 || apiErr.Status == "RESOURCE_EXHAUSTED" {
		return cardpoint.Errorf(cardpoint.ERATELIMIT, "gemini rate limited: %s", apiErr.Message)
	}
	return cardpoint.Errorf(cardpoint.EEXTRACT, "gemini error %d %s: %s", apiErr.Code, apiErr.Status, apiErr.Message)
}
