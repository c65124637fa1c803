package cardpoint

import (
	"net/url"
	"strings"
)

// Source is one card program page configured for extraction.
type Source struct {
	// Label is a short key identifying the program, e.g. "SMBC".
	Label string `json:"label" yaml:"label"`

	// FetchURL is the address actually requested. It may point at a reader
	// proxy instead of the program page. Empty means URL.
	FetchURL string `json:"fetch_url,omitempty" yaml:"fetch_url"`

	// URL is the canonical program page shown to users and used to resolve
	// relative links found in records.
	URL string `json:"url" yaml:"url"`

	// PromoURL is an optional auxiliary page used to write a short
	// promotional phrase for the program.
	PromoURL string `json:"promo_url,omitempty" yaml:"promo_url"`

	// Caution is appended to every record's caution field.
	Caution string `json:"caution,omitempty" yaml:"caution"`
}

// Validate returns an error if the source contains invalid fields.
func (s *Source) Validate() error {
	if strings.TrimSpace(s.Label) == "" {
		return Errorf(EINVALID, "source label required")
	}
	if s.URL == "" {
		return Errorf(EINVALID, "source %s: url required", s.Label)
	}
	for _, raw := range []string{s.URL, s.FetchURL, s.PromoURL} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return Errorf(EINVALID, "source %s: invalid url %q", s.Label, raw)
		}
	}
	return nil
}

// Target returns the URL to fetch for this source.
func (s *Source) Target() string {
	if s.FetchURL != "" {
		return s.FetchURL
	}
	return s.URL
}

// DefaultSources returns the card programs processed when no sources file
// is given.
func DefaultSources() []*Source {
	return []*Source{
		{
			Label:   "SMBC",
			URL:     "https://www.smbc-card.com/mem/wp/vpoint_up_program/index.jsp",
			Caution: "スマートフォンのVisaのタッチ決済・Mastercard®タッチ決済でのお支払いが対象です。",
		},
		{
			Label: "MUFG",
			URL:   "https://www.cr.mufg.jp/mufgcard/point/global/save/convenience_store/index.html",
		},
	}
}
