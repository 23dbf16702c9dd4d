// Package main provides the bibclean CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/matsen/bibclean/internal/config"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

// configPath is the --config flag value; empty means the default lookup.
var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bibclean",
	Short: "Normalize BibTeX files against a CASSI abbreviation table",
	Long: `bibclean normalizes BibTeX files.

Journal names are rewritten to their CASSI abbreviations, article titles are
converted to title case under configurable word lists, DOIs lose their
hyperlink prefixes, page ranges get en-dashes, unwanted fields are dropped,
and entries are re-emitted deterministically in a configurable field order.

Commands output JSON by default for easy integration with other tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to configuration file (default ./"+config.DefaultFileName+")")
	rootCmd.Version = Version
}

// loadConfig loads and validates the run configuration. Resolution order for
// the path: --config flag, then BIBCLEAN_CONFIG (a .env file is honored),
// then ./.bibclean.yml, then built-in defaults.
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	path := configPath
	if path == "" {
		path = os.Getenv("BIBCLEAN_CONFIG")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveTablePath picks the reference table path: flag, then BIBCLEAN_TABLE,
// then the configured value.
func resolveTablePath(flagValue string, cfg *config.Config) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("BIBCLEAN_TABLE"); env != "" {
		return env
	}
	return cfg.Table
}
