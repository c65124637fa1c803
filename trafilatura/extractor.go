// Package trafilatura extracts the main content of a page with
// go-trafilatura. It grounds promotional phrases and can replace
// readability as the reducer's first pass.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/cardpoint"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements cardpoint.Extractor at compile time.
var _ cardpoint.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor. Links are kept so store list
// URLs survive extraction.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback: true,
			IncludeLinks:   true,
		},
	}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*cardpoint.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, cardpoint.Errorf(cardpoint.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &cardpoint.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
