// Package readability extracts the main content of a program page with
// go-readability. It is the preferred first pass of the reducer.
package readability

import (
	"strings"

	"github.com/fwojciec/cardpoint"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements cardpoint.Extractor at compile time.
var _ cardpoint.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to find the store listing of a program
// page among its navigation and campaign banners.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the main content of rawHTML. Content that is only
// whitespace comes back empty so the reducer falls back to the raw page.
func (e *Extractor) Extract(rawHTML string) (*cardpoint.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, cardpoint.Errorf(cardpoint.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, cardpoint.Errorf(cardpoint.EINVALID, "readability: %v", err)
	}

	content := article.Content
	if strings.TrimSpace(article.TextContent) == "" {
		content = ""
	}

	return &cardpoint.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: content,
	}, nil
}
