package cardpoint

import (
	"context"
	"time"
)

// Result is the aggregate output of one run across all sources.
type Result struct {
	Meta   Meta     `json:"meta"`
	Stores []Record `json:"stores"`
}

// Meta describes the run that produced a Result.
type Meta struct {
	RunID       string                 `json:"run_id"`
	GeneratedAt time.Time              `json:"generated_at"`
	Model       string                 `json:"model"`
	Sources     map[string]*SourceMeta `json:"sources"`
}

// SourceMeta summarizes the outcome for one source.
type SourceMeta struct {
	URL       string `json:"url"`
	Count     int    `json:"count"`
	FromCache bool   `json:"from_cache,omitempty"`
	Promo     string `json:"promo,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Add appends a record set to the result and records its count.
func (r *Result) Add(rs *RecordSet) {
	r.Stores = append(r.Stores, rs.Records...)
	r.sourceMeta(rs.Source).Count += len(rs.Records)
}

// Fail records a per-source failure.
func (r *Result) Fail(src *Source, err error) {
	r.sourceMeta(src).Error = ErrorMessage(err)
}

// SourceMeta returns the meta entry for src, creating it if needed.
func (r *Result) SourceMeta(src *Source) *SourceMeta {
	return r.sourceMeta(src)
}

func (r *Result) sourceMeta(src *Source) *SourceMeta {
	if r.Meta.Sources == nil {
		r.Meta.Sources = make(map[string]*SourceMeta)
	}
	m, ok := r.Meta.Sources[src.Label]
	if !ok {
		m = &SourceMeta{URL: src.URL}
		r.Meta.Sources[src.Label] = m
	}
	return m
}

// ResultWriter persists the aggregate result.
type ResultWriter interface {
	// WriteResult writes the result to its destination.
	// Returns EPERSIST if the result cannot be saved.
	WriteResult(ctx context.Context, result *Result) error
}

// DebugSink receives intermediate artifacts for inspection.
// Artifacts are not part of the stable output.
type DebugSink interface {
	Dump(ctx context.Context, label, kind, content string) error
}

// Debug artifact kinds.
const (
	DumpCleaned    = "cleaned"
	DumpResponse   = "response"
	DumpParseError = "parse_error"
)
