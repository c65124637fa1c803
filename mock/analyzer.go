package mock

import (
	"context"

	"github.com/fwojciec/cardpoint"
)

var _ cardpoint.Analyzer = (*Analyzer)(nil)

// Analyzer is a mock implementation of cardpoint.Analyzer.
type Analyzer struct {
	AnalyzeFn func(ctx context.Context, req *cardpoint.ExtractionRequest) (string, error)
}

func (a *Analyzer) Analyze(ctx context.Context, req *cardpoint.ExtractionRequest) (string, error) {
	return a.AnalyzeFn(ctx, req)
}

var _ cardpoint.Copywriter = (*Copywriter)(nil)

// Copywriter is a mock implementation of cardpoint.Copywriter.
type Copywriter struct {
	CatchphraseFn func(ctx context.Context, label, text string) (string, error)
}

func (c *Copywriter) Catchphrase(ctx context.Context, label, text string) (string, error) {
	return c.CatchphraseFn(ctx, label, text)
}

var _ cardpoint.ResponseParser = (*ResponseParser)(nil)

// ResponseParser is a mock implementation of cardpoint.ResponseParser.
type ResponseParser struct {
	ParseRecordsFn func(raw string) ([]cardpoint.Record, error)
}

func (p *ResponseParser) ParseRecords(raw string) ([]cardpoint.Record, error) {
	return p.ParseRecordsFn(raw)
}

var _ cardpoint.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of cardpoint.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return tc.CountTokensFn(ctx, text)
}
