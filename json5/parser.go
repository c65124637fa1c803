// Package json5 turns free-text model output into records. Model replies
// are untrusted: they may carry Markdown fences, prose around the JSON,
// or JSON5-isms such as trailing commas. Candidates are located by
// bracket matching and decoded strictly first, then leniently.
package json5

import (
	"bytes"
	"encoding/json"
	"io"
	"regexp"
	"strings"

	"github.com/fwojciec/cardpoint"
	"github.com/titanous/json5"
)

// RecordKeys lists object keys that may hold the record array.
var RecordKeys = []string{"stores", "records", "items", "data"}

var fence = regexp.MustCompile("```[A-Za-z0-9]*")

// Ensure Parser implements cardpoint.ResponseParser at compile time.
var _ cardpoint.ResponseParser = (*Parser)(nil)

// Parser extracts JSON from model responses.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse returns the first JSON value found in raw.
func (p *Parser) Parse(raw string) (any, error) {
	text := StripFences(raw)
	if text == "" {
		return nil, cardpoint.Errorf(cardpoint.EPARSE, "empty response")
	}
	for _, c := range Candidates(text) {
		if v, err := decode(c); err == nil {
			return v, nil
		}
	}
	return nil, cardpoint.Errorf(cardpoint.EPARSE, "no JSON found in response")
}

// ParseRecords returns the records of the first candidate that is an
// array or an object holding an array under one of RecordKeys. An array
// qualifies only when it is empty or holds at least one object; other
// elements are dropped. A reply whose first array of objects never closes
// is truncated and fails, whatever smaller arrays it contains.
func (p *Parser) ParseRecords(raw string) ([]cardpoint.Record, error) {
	text := StripFences(raw)
	if text == "" {
		return nil, cardpoint.Errorf(cardpoint.EPARSE, "empty response")
	}
	if v, err := decode(text); err == nil {
		if items, ok := recordArray(v); ok {
			return toRecords(items), nil
		}
	}
	if Truncated(text) {
		return nil, cardpoint.Errorf(cardpoint.EPARSE, "record array is truncated")
	}
	for _, c := range Candidates(text)[1:] {
		v, err := decode(c)
		if err != nil {
			continue
		}
		if items, ok := recordArray(v); ok {
			return toRecords(items), nil
		}
	}
	return nil, cardpoint.Errorf(cardpoint.EPARSE, "no JSON record array found in response")
}

// StripFences removes Markdown code fence markers and surrounding space.
func StripFences(s string) string {
	return strings.TrimSpace(fence.ReplaceAllString(s, ""))
}

// Candidates returns substrings of text that may hold the JSON payload,
// most specific first: the whole text, arrays whose first element is an
// object, any array, then objects.
func Candidates(text string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	add(text)
	for i := range text {
		if text[i] == '[' && firstNonSpace(text[i+1:]) == '{' {
			add(Balanced(text, i))
		}
	}
	for i := range text {
		if text[i] == '[' {
			add(Balanced(text, i))
		}
	}
	for i := range text {
		if text[i] == '{' {
			add(Balanced(text, i))
		}
	}
	return out
}

// Truncated reports whether the first array of objects in text never
// balances.
func Truncated(text string) bool {
	for i := range text {
		if text[i] == '[' && firstNonSpace(text[i+1:]) == '{' {
			return Balanced(text, i) == ""
		}
	}
	return false
}

func firstNonSpace(s string) byte {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return s[i]
	}
	return 0
}

// Balanced returns the bracketed substring starting at text[start], or ""
// if the brackets never balance. Brackets inside strings are ignored.
func Balanced(text string, start int) string {
	if start >= len(text) || (text[start] != '[' && text[start] != '{') {
		return ""
	}

	var stack []byte
	var quote byte
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == quote:
				quote = 0
			}
			continue
		}

		switch ch {
		case '"', '\'':
			quote = ch
		case '[':
			stack = append(stack, ']')
		case '{':
			stack = append(stack, '}')
		case ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != ch {
				return ""
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

// decode parses s strictly and falls back to JSON5.
func decode(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	err := dec.Decode(&v)
	if err == nil {
		if _, tailErr := dec.Token(); tailErr == io.EOF {
			return v, nil
		}
	}

	var lenient any
	if err := json5.Unmarshal(bytes.TrimSpace([]byte(s)), &lenient); err != nil {
		return nil, err
	}
	return lenient, nil
}

func recordArray(v any) ([]any, bool) {
	switch v := v.(type) {
	case []any:
		return v, holdsRecords(v)
	case map[string]any:
		for _, k := range RecordKeys {
			if items, ok := v[k].([]any); ok && holdsRecords(items) {
				return items, true
			}
		}
	}
	return nil, false
}

func holdsRecords(items []any) bool {
	if len(items) == 0 {
		return true
	}
	for _, it := range items {
		if _, ok := it.(map[string]any); ok {
			return true
		}
	}
	return false
}

func toRecords(items []any) []cardpoint.Record {
	records := make([]cardpoint.Record, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			records = append(records, cardpoint.Record(m))
		}
	}
	return records
}
