// Package htmltomarkdown turns extracted page content into Markdown, the
// grounding text handed to the copywriter.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/cardpoint"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Ensure Converter implements cardpoint.Converter at compile time.
var _ cardpoint.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to turn campaign page content into
// compact Markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a new Converter.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms HTML content into Markdown. Runs of blank lines left
// by layout markup are folded into one.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", cardpoint.Errorf(cardpoint.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html)
	if err != nil {
		return "", cardpoint.Errorf(cardpoint.EINVALID, "convert to markdown: %v", err)
	}

	return strings.TrimSpace(blankRuns.ReplaceAllString(result, "\n\n")), nil
}
