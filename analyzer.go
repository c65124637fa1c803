package cardpoint

import "context"

// ExtractionRequest is the input of a single model call.
type ExtractionRequest struct {
	Source *Source

	// Text is the reduced page text to analyze.
	Text string
}

// Analyzer asks a generative model to extract store records from text.
type Analyzer interface {
	// Analyze returns the model's raw text response.
	// An empty response with a nil error means the service kept signalling
	// rate limits until the retry budget ran out.
	// Returns EEXTRACT for non-transient service failures.
	Analyze(ctx context.Context, req *ExtractionRequest) (string, error)
}

// Copywriter writes a short promotional phrase grounded in page text.
type Copywriter interface {
	// Catchphrase returns a phrase for the program identified by label,
	// or "" when the text does not support one.
	Catchphrase(ctx context.Context, label, text string) (string, error)
}

// ResponseParser turns free-text model output into records.
type ResponseParser interface {
	// ParseRecords extracts and decodes the JSON in raw.
	// Returns EPARSE if no JSON array of records can be found.
	ParseRecords(raw string) ([]Record, error)
}

// TokenCounter sizes reduced page text against the model's tokenizer
// before it is sent for analysis.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
