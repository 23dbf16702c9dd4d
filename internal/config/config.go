// Package config loads and validates the bibclean run configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matsen/bibclean/internal/bib"
)

// DefaultFileName is the configuration file looked up in the working
// directory when no path is given.
const DefaultFileName = ".bibclean.yml"

// Config is the run configuration. Values are read once and treated as
// immutable for the duration of a run.
type Config struct {
	// Table is the reference table path: a CASSI CSV, or a SQLite database
	// built with "bibclean table import".
	Table string `yaml:"table" json:"table"`

	// Title-case word lists.
	Lowercase []string `yaml:"lowercase" json:"lowercase"`
	Uppercase []string `yaml:"uppercase" json:"uppercase"`
	Preserve  []string `yaml:"preserve" json:"preserve"`

	// FieldOrder lists fields to write first, in order. Remaining fields
	// are appended alphabetically.
	FieldOrder []string `yaml:"field_order" json:"field_order"`

	// Field removal.
	RemoveEnabled bool     `yaml:"remove_enabled" json:"remove_enabled"`
	RemoveFields  []string `yaml:"remove_fields" json:"remove_fields"`

	// Comments is the comment placement policy: inline, grouped, or strip.
	Comments string `yaml:"comments" json:"comments"`

	// SortEntries writes entries in citation-key order instead of input order.
	SortEntries bool `yaml:"sort_entries" json:"sort_entries"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Table:     "cassi_coden.csv",
		Lowercase: []string{"for", "or", "and", "a", "the", "along", "is"},
		Uppercase: []string{"DNA", "RNA"},
		Preserve:  []string{"ff19SB"},
		FieldOrder: []string{
			"author", "title", "journal", "year",
			"volume", "number", "pages", "doi",
		},
		RemoveEnabled: true,
		RemoveFields: []string{
			"abstract", "eprint", "file", "pmid", "pdf", "mendeley-groups",
		},
		Comments:    string(bib.CommentsStrip),
		SortEntries: false,
	}
}

// Load reads a configuration file over the defaults. An empty path falls
// back to DefaultFileName in the working directory; if that file does not
// exist, the defaults are returned as-is. An explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate fails fast on configuration errors, before any processing.
func (c *Config) Validate() error {
	seen := make(map[string]bool, len(c.FieldOrder))
	for _, field := range c.FieldOrder {
		f := strings.ToLower(field)
		if seen[f] {
			return fmt.Errorf("duplicate field %q in field_order", field)
		}
		seen[f] = true
	}

	if c.RemoveEnabled && len(c.RemoveFields) == 0 {
		return fmt.Errorf("remove_enabled is set but remove_fields is empty")
	}

	if !validCommentPolicy(c.Comments) {
		return fmt.Errorf("invalid comments policy %q (valid: inline, grouped, strip)", c.Comments)
	}

	return nil
}

// CommentPolicy returns the comment policy as the serializer's type.
func (c *Config) CommentPolicy() bib.CommentPolicy {
	return bib.CommentPolicy(c.Comments)
}

func validCommentPolicy(s string) bool {
	for _, p := range bib.ValidCommentPolicies {
		if s == string(p) {
			return true
		}
	}
	return false
}
