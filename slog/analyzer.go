package slog

import (
	"context"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/cardpoint"
)

// Ensure LoggingAnalyzer implements cardpoint.Analyzer.
var _ cardpoint.Analyzer = (*LoggingAnalyzer)(nil)

// LoggingAnalyzer wraps an Analyzer with logging.
type LoggingAnalyzer struct {
	next   cardpoint.Analyzer
	logger *slog.Logger
}

// NewLoggingAnalyzer creates a new LoggingAnalyzer.
func NewLoggingAnalyzer(next cardpoint.Analyzer, logger *slog.Logger) *LoggingAnalyzer {
	return &LoggingAnalyzer{next: next, logger: logger}
}

// Analyze logs the request size and reply size and delegates.
func (a *LoggingAnalyzer) Analyze(ctx context.Context, req *cardpoint.ExtractionRequest) (out string, err error) {
	defer func(begin time.Time) {
		var label string
		var chars int
		if req != nil {
			chars = utf8.RuneCountInString(req.Text)
			if req.Source != nil {
				label = req.Source.Label
			}
		}
		a.logger.Info("analyze",
			"label", label,
			"chars", chars,
			"reply_bytes", len(out),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Analyze(ctx, req)
}

// Ensure LoggingReducer implements cardpoint.Reducer.
var _ cardpoint.Reducer = (*LoggingReducer)(nil)

// LoggingReducer wraps a Reducer with debug logging.
type LoggingReducer struct {
	next   cardpoint.Reducer
	logger *slog.Logger
}

// NewLoggingReducer creates a new LoggingReducer.
func NewLoggingReducer(next cardpoint.Reducer, logger *slog.Logger) *LoggingReducer {
	return &LoggingReducer{next: next, logger: logger}
}

func (r *LoggingReducer) Reduce(html string) (out string, err error) {
	defer func(begin time.Time) {
		r.logger.Debug("reduce",
			"bytes", len(html),
			"chars", utf8.RuneCountInString(out),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Reduce(html)
}
