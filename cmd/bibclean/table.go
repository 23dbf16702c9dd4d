package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matsen/bibclean/internal/cassi"
)

var (
	tableImportDB  string
	tableLookupSrc string
)

func init() {
	tableImportCmd.Flags().StringVar(&tableImportDB, "db", "cassi.db", "Database path to create or extend")
	tableLookupCmd.Flags().StringVar(&tableLookupSrc, "table", "", "Reference table path (overrides config)")
	tableCmd.AddCommand(tableImportCmd)
	tableCmd.AddCommand(tableLookupCmd)
	rootCmd.AddCommand(tableCmd)
}

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Manage the journal abbreviation reference table",
}

var tableImportCmd = &cobra.Command{
	Use:   "import <table.csv>",
	Short: "Build a SQLite reference table from a CASSI CSV",
	Long: `Build a SQLite reference table from a CASSI CSV.

Usage:
  bibclean table import cassi_coden.csv
  bibclean table import cassi_coden.csv --db cassi.db

The CSV needs Abbreviation, PubTitle, and optionally CODEN columns. Rows
whose publication title is already stored are ignored (first entry wins),
so the command can be re-run as the CSV grows.`,
	Args: cobra.ExactArgs(1),
	RunE: runTableImport,
}

var tableLookupCmd = &cobra.Command{
	Use:   "lookup <journal name>",
	Short: "Resolve one journal name against the reference table",
	Args:  cobra.ExactArgs(1),
	RunE:  runTableLookup,
}

func runTableImport(cmd *cobra.Command, args []string) error {
	inserted, err := cassi.ImportCSV(args[0], tableImportDB)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	result := ImportResult{
		Source:   args[0],
		Database: tableImportDB,
		Inserted: inserted,
	}
	if humanOutput {
		fmt.Printf("Imported %d entries into %s\n", result.Inserted, result.Database)
		return nil
	}
	return outputJSON(result)
}

func runTableLookup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	resolver, closeTable, err := openResolver(resolveTablePath(tableLookupSrc, cfg))
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	defer closeTable()

	name := args[0]
	abbr, found := resolver.Resolve(name)

	result := LookupResult{Name: name, Abbreviation: abbr, Found: found}
	if humanOutput {
		if found {
			fmt.Println(abbr)
		} else {
			fmt.Printf("no abbreviation found for %q\n", name)
		}
		return nil
	}
	return outputJSON(result)
}
