package fs

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/fwojciec/cardpoint"
)

// DefaultOutputPath is where results are written when no path is given.
const DefaultOutputPath = "stores.json"

// Ensure ResultWriter implements cardpoint.ResultWriter at compile time.
var _ cardpoint.ResultWriter = (*ResultWriter)(nil)

// ResultWriter writes the run result as indented JSON with non-ASCII
// characters kept literal.
type ResultWriter struct {
	path string
}

// NewResultWriter creates a new ResultWriter for path.
func NewResultWriter(path string) *ResultWriter {
	return &ResultWriter{path: path}
}

// Path returns the output file path.
func (w *ResultWriter) Path() string {
	return w.path
}

// WriteResult replaces the output file atomically.
func (w *ResultWriter) WriteResult(ctx context.Context, result *cardpoint.Result) error {
	data, err := EncodeResult(result)
	if err != nil {
		return cardpoint.Errorf(cardpoint.EPERSIST, "encode result: %v", err)
	}
	if err := writeAtomic(w.path, data); err != nil {
		return cardpoint.Errorf(cardpoint.EPERSIST, "write %s: %v", w.path, err)
	}
	return nil
}

// EncodeResult returns the JSON form of result.
func EncodeResult(result *cardpoint.Result) ([]byte, error) {
	if result.Stores == nil {
		result.Stores = []cardpoint.Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadResult decodes a result file written by ResultWriter.
func ReadResult(path string) (*cardpoint.Result, error) {
	b, err := readFile(path)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var result cardpoint.Result
	if err := dec.Decode(&result); err != nil {
		return nil, cardpoint.Errorf(cardpoint.EINVALID, "decode %s: %v", path, err)
	}
	return &result, nil
}
