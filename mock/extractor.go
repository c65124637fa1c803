package mock

import "github.com/fwojciec/cardpoint"

var _ cardpoint.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of cardpoint.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*cardpoint.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*cardpoint.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ cardpoint.Reducer = (*Reducer)(nil)

// Reducer is a mock implementation of cardpoint.Reducer.
type Reducer struct {
	ReduceFn func(html string) (string, error)
}

func (r *Reducer) Reduce(html string) (string, error) {
	return r.ReduceFn(html)
}

var _ cardpoint.Converter = (*Converter)(nil)

// Converter is a mock implementation of cardpoint.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
