package cardpoint

import (
	"net/url"
	"strings"
)

// Well-known record fields.
const (
	FieldName       = "name"
	FieldGroup      = "group"
	FieldAliases    = "aliases"
	FieldConditions = "conditions"
	FieldCaution    = "caution"
	FieldListURL    = "official_list_url"
	FieldURL        = "url"
	FieldCard       = "card"
	FieldSourceURL  = "source_url"
)

// Record is one store extracted by the model. Fields are whatever the
// model produced for the requested schema; nothing beyond "is a JSON
// object" is enforced.
type Record map[string]any

// String returns the field as a string, or "" if absent or not a string.
func (r Record) String(key string) string {
	s, _ := r[key].(string)
	return s
}

// Name returns the record's store name.
func (r Record) Name() string {
	return r.String(FieldName)
}

// RecordSet holds the records extracted for a single source.
type RecordSet struct {
	Source  *Source
	Records []Record
}

// Annotate stamps every record with the source label and canonical URL,
// resolves relative list URLs against the canonical URL, and makes sure
// the source's caution appears in each record.
func (rs *RecordSet) Annotate() {
	base, err := url.Parse(rs.Source.URL)
	if err != nil {
		base = nil
	}

	for _, r := range rs.Records {
		r[FieldCard] = rs.Source.Label
		r[FieldSourceURL] = rs.Source.URL

		if base != nil {
			for _, key := range []string{FieldListURL, FieldURL} {
				if ref := strings.TrimSpace(r.String(key)); ref != "" {
					r[key] = resolveURL(base, ref)
				}
			}
		}

		if c := rs.Source.Caution; c != "" {
			existing := strings.TrimSpace(r.String(FieldCaution))
			switch {
			case existing == "":
				r[FieldCaution] = c
			case !strings.Contains(existing, c):
				r[FieldCaution] = existing + " " + c
			}
		}
	}
}

// resolveURL resolves ref against base. Unparseable references are
// returned unchanged.
func resolveURL(base *url.URL, ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(u).String()
}
