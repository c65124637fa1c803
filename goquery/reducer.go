package goquery

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/cardpoint"
	"golang.org/x/net/html"
)

// Reducer defaults.
const (
	DefaultBudget    = 95000
	DefaultMinLength = 100
)

// DefaultRemovedTags lists elements dropped together with their content.
// Forms are not listed because some program pages keep store tables
// inside them.
var DefaultRemovedTags = []string{
	"header", "footer", "nav", "noscript", "script", "style", "iframe", "svg", "aside",
}

// LayoutTags lists containers replaced by their children and a newline.
var LayoutTags = []string{
	"div", "span", "section", "article", "main", "body", "html", "head",
}

// Attributes removed from anchors. Prefixed attributes are matched by
// prefix.
var (
	anchorDeniedAttrs    = []string{"class", "id", "style", "target", "rel", "role"}
	anchorDeniedPrefixes = []string{"on", "data-", "aria-"}
)

// Pass is a named transformation of the parsed document.
type Pass struct {
	Name  string
	Apply func(doc *goquery.Document)
}

// Ensure Reducer implements cardpoint.Reducer at compile time.
var _ cardpoint.Reducer = (*Reducer)(nil)

// Reducer strips HTML down to prompt-sized text by running a fixed
// sequence of passes over the document tree.
type Reducer struct {
	extractor   cardpoint.Extractor
	removedTags []string
	budget      int
	minLength   int
}

// Option configures a Reducer.
type Option func(*Reducer)

// WithExtractor tries ext before the pass chain. Its content is reduced
// first and the raw document is used when that yields nothing useful.
func WithExtractor(ext cardpoint.Extractor) Option {
	return func(r *Reducer) {
		r.extractor = ext
	}
}

// WithBudget sets the maximum output length in characters.
// Zero disables truncation.
func WithBudget(n int) Option {
	return func(r *Reducer) {
		r.budget = n
	}
}

// WithMinLength sets the length below which output is degenerate.
func WithMinLength(n int) Option {
	return func(r *Reducer) {
		r.minLength = n
	}
}

// WithRemovedTags replaces the list of removed block elements.
func WithRemovedTags(tags ...string) Option {
	return func(r *Reducer) {
		r.removedTags = tags
	}
}

// NewReducer creates a Reducer with the default budget and tag lists.
func NewReducer(opts ...Option) *Reducer {
	r := &Reducer{
		removedTags: DefaultRemovedTags,
		budget:      DefaultBudget,
		minLength:   DefaultMinLength,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Passes returns the document passes in the order they run.
func (r *Reducer) Passes() []Pass {
	return []Pass{
		RemoveBlocks(r.removedTags...),
		RemoveComments(),
		StripAttributes(),
		ScrubAnchors(),
		UnwrapLayout(),
	}
}

// Reduce returns the reduced text of rawHTML.
func (r *Reducer) Reduce(rawHTML string) (string, error) {
	if r.extractor != nil {
		if res, err := r.extractor.Extract(rawHTML); err == nil && strings.TrimSpace(res.ContentHTML) != "" {
			if out, err := r.reduce(res.ContentHTML); err == nil {
				return out, nil
			}
		}
	}
	return r.reduce(rawHTML)
}

func (r *Reducer) reduce(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", cardpoint.Errorf(cardpoint.EINVALID, "failed to parse HTML: %v", err)
	}

	for _, p := range r.Passes() {
		p.Apply(doc)
	}

	out := CollapseWhitespace(Render(doc))
	out = strings.TrimSpace(Truncate(out, r.budget))

	if n := utf8.RuneCountInString(out); n < r.minLength {
		return "", cardpoint.Errorf(cardpoint.EDEGENERATE, "reduced text too short: %d characters", n)
	}
	return out, nil
}

// RemoveBlocks removes the given elements with everything inside them.
func RemoveBlocks(tags ...string) Pass {
	return Pass{
		Name: "remove-blocks",
		Apply: func(doc *goquery.Document) {
			if len(tags) == 0 {
				return
			}
			doc.Find(strings.Join(tags, ",")).Remove()
		},
	}
}

// RemoveComments removes comment and doctype nodes.
func RemoveComments() Pass {
	return Pass{
		Name: "remove-comments",
		Apply: func(doc *goquery.Document) {
			for _, root := range doc.Nodes {
				var drop []*html.Node
				walk(root, func(n *html.Node) {
					if n.Type == html.CommentNode || n.Type == html.DoctypeNode {
						drop = append(drop, n)
					}
				})
				for _, n := range drop {
					n.Parent.RemoveChild(n)
				}
			}
		},
	}
}

// StripAttributes removes every attribute from elements other than anchors.
func StripAttributes() Pass {
	return Pass{
		Name: "strip-attributes",
		Apply: func(doc *goquery.Document) {
			doc.Find("*").Not("a").Each(func(_ int, sel *goquery.Selection) {
				for _, n := range sel.Nodes {
					n.Attr = nil
				}
			})
		},
	}
}

// ScrubAnchors removes styling, scripting and accessibility attributes
// from anchors, keeping href and anything else not denied.
func ScrubAnchors() Pass {
	return Pass{
		Name: "scrub-anchors",
		Apply: func(doc *goquery.Document) {
			doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
				for _, n := range sel.Nodes {
					kept := n.Attr[:0]
					for _, a := range n.Attr {
						if !deniedAnchorAttr(a.Key) {
							kept = append(kept, a)
						}
					}
					n.Attr = kept
				}
			})
		},
	}
}

func deniedAnchorAttr(key string) bool {
	key = strings.ToLower(key)
	for _, d := range anchorDeniedAttrs {
		if key == d {
			return true
		}
	}
	for _, p := range anchorDeniedPrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

// UnwrapLayout replaces layout containers with their children followed
// by a newline.
func UnwrapLayout() Pass {
	layout := make(map[string]bool, len(LayoutTags))
	for _, t := range LayoutTags {
		layout[t] = true
	}
	return Pass{
		Name: "unwrap-layout",
		Apply: func(doc *goquery.Document) {
			for _, root := range doc.Nodes {
				var targets []*html.Node
				walk(root, func(n *html.Node) {
					if n.Type == html.ElementNode && layout[n.Data] {
						targets = append(targets, n)
					}
				})
				for _, n := range targets {
					unwrap(n)
				}
			}
		},
	}
}

func unwrap(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
	}
	parent.InsertBefore(&html.Node{Type: html.TextNode, Data: "\n"}, n)
	parent.RemoveChild(n)
}

// walk visits n and its descendants in document order. The callback must
// not modify the tree.
func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// Render serializes the document with text written literally. Elements
// are written as bare tags; only anchors keep their attributes.
func Render(doc *goquery.Document) string {
	var sb strings.Builder
	for _, n := range doc.Nodes {
		render(&sb, n)
	}
	return sb.String()
}

func render(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		sb.WriteByte('<')
		sb.WriteString(n.Data)
		if n.Data == "a" {
			for _, a := range n.Attr {
				sb.WriteByte(' ')
				sb.WriteString(a.Key)
				sb.WriteString(`="`)
				sb.WriteString(strings.ReplaceAll(a.Val, `"`, "&quot;"))
				sb.WriteByte('"')
			}
		}
		sb.WriteByte('>')
		if voidElements[n.Data] {
			return
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		render(sb, c)
	}

	if n.Type == html.ElementNode {
		sb.WriteString("</")
		sb.WriteString(n.Data)
		sb.WriteByte('>')
	}
}

var (
	spaceRun   = regexp.MustCompile(`[ \t\r\f\v]+`)
	newlineRun = regexp.MustCompile(`[ \t\r\f\v]*\n\s*`)
)

// CollapseWhitespace reduces runs of spaces to one space and runs of
// blank lines to one newline.
func CollapseWhitespace(s string) string {
	s = spaceRun.ReplaceAllString(s, " ")
	return newlineRun.ReplaceAllString(s, "\n")
}

// Truncate cuts s to at most n characters. n <= 0 leaves s unchanged.
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
