package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fwojciec/cardpoint"
	"gopkg.in/yaml.v3"
)

// Environment variables read by the program.
const (
	EnvAPIKey  = "GEMINI_API_KEY"
	EnvModelID = "GEMINI_MODEL_ID"

	// PromoURLSuffix forms the per-source promo page variable, e.g.
	// SMBC_PROMO_URL.
	PromoURLSuffix = "_PROMO_URL"
)

// Config is built once at startup and passed to everything that needs it.
type Config struct {
	APIKey  string
	ModelID string
	Sources []*cardpoint.Source
}

// SourcesFile is the YAML layout of a sources file.
type SourcesFile struct {
	Sources []*cardpoint.Source `yaml:"sources"`
}

// LoadConfig reads configuration from the environment and, when path is
// not empty, the sources file at path. Without a file the default sources
// are used.
func LoadConfig(getenv func(string) string, path string) (*Config, error) {
	cfg := &Config{
		APIKey:  strings.TrimSpace(getenv(EnvAPIKey)),
		ModelID: strings.TrimSpace(getenv(EnvModelID)),
	}

	if path == "" {
		cfg.Sources = cardpoint.DefaultSources()
	} else {
		sources, err := ReadSourcesFile(path)
		if err != nil {
			return nil, err
		}
		cfg.Sources = sources
	}

	for _, src := range cfg.Sources {
		if u := strings.TrimSpace(getenv(PromoEnv(src.Label))); u != "" {
			src.PromoURL = u
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// PromoEnv returns the variable holding label's promo page URL.
func PromoEnv(label string) string {
	return strings.ToUpper(label) + PromoURLSuffix
}

// ReadSourcesFile parses a YAML sources file.
func ReadSourcesFile(path string) ([]*cardpoint.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cardpoint.Errorf(cardpoint.ECONFIG, "read sources file: %v", err)
	}

	var f SourcesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, cardpoint.Errorf(cardpoint.ECONFIG, "parse sources file %s: %v", path, err)
	}
	return f.Sources, nil
}

// Validate checks the configured sources.
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return cardpoint.Errorf(cardpoint.ECONFIG, "no sources configured")
	}
	seen := make(map[string]bool, len(c.Sources))
	for i, src := range c.Sources {
		if src == nil {
			return cardpoint.Errorf(cardpoint.ECONFIG, "source[%d] is empty", i)
		}
		if err := src.Validate(); err != nil {
			return cardpoint.Errorf(cardpoint.ECONFIG, "%s", cardpoint.ErrorMessage(err))
		}
		if seen[src.Label] {
			return cardpoint.Errorf(cardpoint.ECONFIG, "duplicate source label %q", src.Label)
		}
		seen[src.Label] = true
	}
	return nil
}

// RequireAPIKey returns a configuration error when no API key is set.
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return cardpoint.Errorf(cardpoint.ECONFIG, "%s not set. Get a key at https://aistudio.google.com/apikey", EnvAPIKey)
	}
	return nil
}

func (c *Config) String() string {
	labels := make([]string, 0, len(c.Sources))
	for _, s := range c.Sources {
		labels = append(labels, s.Label)
	}
	return fmt.Sprintf("model=%q sources=%s", c.ModelID, strings.Join(labels, ","))
}
