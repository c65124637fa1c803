package mock

import (
	"context"

	"github.com/fwojciec/cardpoint"
)

var _ cardpoint.ResultWriter = (*ResultWriter)(nil)

// ResultWriter is a mock implementation of cardpoint.ResultWriter.
type ResultWriter struct {
	WriteResultFn func(ctx context.Context, result *cardpoint.Result) error
}

func (w *ResultWriter) WriteResult(ctx context.Context, result *cardpoint.Result) error {
	return w.WriteResultFn(ctx, result)
}

var _ cardpoint.DebugSink = (*DebugSink)(nil)

// DebugSink is a mock implementation of cardpoint.DebugSink.
type DebugSink struct {
	DumpFn func(ctx context.Context, label, kind, content string) error
}

func (d *DebugSink) Dump(ctx context.Context, label, kind, content string) error {
	return d.DumpFn(ctx, label, kind, content)
}
