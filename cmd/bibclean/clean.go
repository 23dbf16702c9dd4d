package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/bibclean/internal/bib"
	"github.com/matsen/bibclean/internal/config"
	"github.com/matsen/bibclean/internal/titlecase"
	"github.com/matsen/bibclean/internal/transform"
)

var (
	cleanOutput string
	cleanTable  string
)

func init() {
	cleanCmd.Flags().StringVarP(&cleanOutput, "output", "o", "", "Output path (default <input>_clean.bib)")
	cleanCmd.Flags().StringVar(&cleanTable, "table", "", "Reference table path (overrides config)")
	rootCmd.AddCommand(cleanCmd)
}

var cleanCmd = &cobra.Command{
	Use:   "clean <file.bib>",
	Short: "Normalize a BibTeX file and write the cleaned copy",
	Long: `Normalize a BibTeX file and write the cleaned copy.

Usage:
  bibclean clean references.bib
  bibclean clean references.bib -o refs_clean.bib --table cassi_coden.csv

Unresolvable journal names are left unchanged and reported as warnings.
A fatal error (unreadable input, bad table, bad config) writes no output.`,
	Args: cobra.ExactArgs(1),
	RunE: runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	resolver, closeTable, err := openResolver(resolveTablePath(cleanTable, cfg))
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	defer closeTable()

	inputPath := args[0]
	records, err := bib.ParseFile(inputPath)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	warnings := transform.Clean(records, resolver, cleanOptions(cfg))

	outputPath := cleanOutput
	if outputPath == "" {
		outputPath = defaultOutputPath(inputPath)
	}

	if err := bib.WriteFile(outputPath, records, writeOptions(cfg)); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	logWarnings(warnings)

	result := CleanResult{
		Input:    inputPath,
		Output:   outputPath,
		Entries:  len(records),
		Warnings: warnings,
	}
	if humanOutput {
		fmt.Printf("Cleaned %d entries: %s -> %s\n", result.Entries, result.Input, result.Output)
		if len(warnings) > 0 {
			fmt.Printf("%d warning(s), see stderr\n", len(warnings))
		}
		return nil
	}
	return outputJSON(result)
}

// cleanOptions maps the run configuration onto the transformer options.
func cleanOptions(cfg *config.Config) transform.Options {
	return transform.Options{
		Lists: titlecase.Lists{
			Lower:    cfg.Lowercase,
			Upper:    cfg.Uppercase,
			Preserve: cfg.Preserve,
		},
		RemoveEnabled: cfg.RemoveEnabled,
		RemoveFields:  cfg.RemoveFields,
	}
}

// writeOptions maps the run configuration onto the serializer options.
func writeOptions(cfg *config.Config) bib.WriteOptions {
	return bib.WriteOptions{
		FieldOrder:  cfg.FieldOrder,
		Comments:    cfg.CommentPolicy(),
		SortEntries: cfg.SortEntries,
	}
}

// defaultOutputPath derives the output name from the input name:
// references.bib -> references_clean.bib.
func defaultOutputPath(inputPath string) string {
	if rest, ok := strings.CutSuffix(inputPath, ".bib"); ok {
		return rest + "_clean.bib"
	}
	return inputPath + "_clean.bib"
}
