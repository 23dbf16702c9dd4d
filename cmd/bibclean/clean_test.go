package main

import (
	"testing"

	"github.com/matsen/bibclean/internal/config"
)

func TestDefaultOutputPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"references.bib", "references_clean.bib"},
		{"dir/refs.bib", "dir/refs_clean.bib"},
		{"notes.txt", "notes.txt_clean.bib"},
	}

	for _, tt := range tests {
		if got := defaultOutputPath(tt.input); got != tt.want {
			t.Errorf("defaultOutputPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestResolveTablePath(t *testing.T) {
	cfg := config.Default()
	cfg.Table = "from_config.csv"

	t.Run("flag wins", func(t *testing.T) {
		t.Setenv("BIBCLEAN_TABLE", "from_env.csv")
		if got := resolveTablePath("from_flag.csv", cfg); got != "from_flag.csv" {
			t.Errorf("resolveTablePath() = %q, want flag value", got)
		}
	})

	t.Run("env beats config", func(t *testing.T) {
		t.Setenv("BIBCLEAN_TABLE", "from_env.csv")
		if got := resolveTablePath("", cfg); got != "from_env.csv" {
			t.Errorf("resolveTablePath() = %q, want env value", got)
		}
	})

	t.Run("config is the fallback", func(t *testing.T) {
		t.Setenv("BIBCLEAN_TABLE", "")
		if got := resolveTablePath("", cfg); got != "from_config.csv" {
			t.Errorf("resolveTablePath() = %q, want config value", got)
		}
	})
}
