package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harborview/eventscrape"
)

// SourceRule is one custom domain routing rule from the config file.
type SourceRule struct {
	DomainContains string `yaml:"domain_contains"`
	Pattern        string `yaml:"pattern"`
	Label          string `yaml:"label"`
}

// File is the optional yaml run configuration.
type File struct {
	// Delay between requests, in seconds.
	Delay float64 `yaml:"delay"`
	// FetchTimeout per page fetch, in seconds.
	FetchTimeout int `yaml:"fetch_timeout"`
	// Free-text fallback limits.
	TokenLimit  int `yaml:"free_text_token_limit"`
	TokenMaxLen int `yaml:"free_text_token_max_len"`
	// KeepUnresolved keeps records with no title and no url distinct in
	// the final dedup instead of collapsing them.
	KeepUnresolved bool `yaml:"keep_unresolved"`
	// Output and Archive are default export paths.
	Output  string `yaml:"output"`
	Archive string `yaml:"archive"`
	// Sources adds custom routing rules ahead of the built-in ones.
	Sources []SourceRule `yaml:"sources"`
}

// Load reads a yaml config file. An empty path returns nil with no error so
// callers can treat the whole file as optional.
func Load(path string) (*File, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg File
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// Apply overlays the file's settings onto a pipeline config. Unset fields
// leave the config untouched. Safe to call on a nil File.
func (f *File) Apply(cfg *eventscrape.PipelineConfig) {
	if f == nil {
		return
	}
	if f.Delay > 0 {
		cfg.Delay = time.Duration(f.Delay * float64(time.Second))
	}
	if f.FetchTimeout > 0 {
		cfg.FetchTimeout = time.Duration(f.FetchTimeout) * time.Second
	}
	if f.TokenLimit > 0 {
		cfg.Extractor.FreeTextTokenLimit = f.TokenLimit
	}
	if f.TokenMaxLen > 0 {
		cfg.Extractor.FreeTextTokenMaxLen = f.TokenMaxLen
	}
	if f.KeepUnresolved {
		cfg.Dedup.KeepUnresolved = true
	}
}

// Rules converts the custom source rules for the router. Safe to call on a
// nil File.
func (f *File) Rules() []eventscrape.Rule {
	if f == nil {
		return nil
	}
	rules := make([]eventscrape.Rule, 0, len(f.Sources))
	for _, s := range f.Sources {
		rules = append(rules, eventscrape.Rule{
			DomainContains: s.DomainContains,
			Pattern:        s.Pattern,
			Label:          s.Label,
		})
	}
	return rules
}
