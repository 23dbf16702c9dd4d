package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/matsen/bibclean/internal/cassi"
	"github.com/matsen/bibclean/internal/transform"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// logWarnings renders transform warnings to stderr. JSON consumers get the
// same warnings structured in the command response.
func logWarnings(warnings []transform.Warning) {
	for _, w := range warnings {
		fields := log.Fields{"entry": w.EntryID}
		if w.Field != "" {
			fields["field"] = w.Field
		}
		log.WithFields(fields).Warn(w.Message)
	}
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// CleanResult is the response for the clean command.
type CleanResult struct {
	Input    string              `json:"input"`
	Output   string              `json:"output"`
	Entries  int                 `json:"entries"`
	Warnings []transform.Warning `json:"warnings"`
}

// CheckResult is the response for the check command.
type CheckResult struct {
	Input    string              `json:"input"`
	Entries  int                 `json:"entries"`
	Warnings []transform.Warning `json:"warnings"`
}

// ImportResult is the response for the table import command.
type ImportResult struct {
	Source   string `json:"source"`
	Database string `json:"database"`
	Inserted int    `json:"inserted"`
}

// LookupResult is the response for the table lookup command.
type LookupResult struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation,omitempty"`
	Found        bool   `json:"found"`
}

// openResolver opens the reference table behind the Resolver interface.
// SQLite databases are recognized by extension; anything else is read as CSV.
// The returned closer is a no-op for in-memory tables.
func openResolver(path string) (cassi.Resolver, func() error, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		db, err := cassi.OpenDB(path)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	default:
		table, err := cassi.LoadCSV(path)
		if err != nil {
			return nil, nil, err
		}
		return table, func() error { return nil }, nil
	}
}
