package cardpoint

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	Extract(html string) (*ExtractResult, error)
}

// Reducer strips an HTML document down to prompt-sized text.
type Reducer interface {
	// Reduce returns text no longer than the reducer's budget.
	// Returns EDEGENERATE if almost nothing is left after reduction.
	Reduce(html string) (string, error)
}

// Converter renders extracted content as Markdown, the grounding text for
// promotional copy.
type Converter interface {
	// Convert transforms clean HTML, such as an Extractor's content, into
	// Markdown. Returns EINVALID for empty input.
	Convert(html string) (string, error)
}
