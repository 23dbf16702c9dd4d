package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matsen/bibclean/internal/bib"
	"github.com/matsen/bibclean/internal/pdfdoi"
	"github.com/matsen/bibclean/internal/transform"
)

var (
	checkTable   string
	checkPDFRoot string
)

func init() {
	checkCmd.Flags().StringVar(&checkTable, "table", "", "Reference table path (overrides config)")
	checkCmd.Flags().StringVar(&checkPDFRoot, "pdf-root", "", "Cross-check DOIs against PDFs under this directory")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <file.bib>",
	Short: "Report what clean would change, without writing anything",
	Long: `Report what clean would change, without writing anything.

Usage:
  bibclean check references.bib
  bibclean check references.bib --pdf-root ~/Papers

With --pdf-root, entries whose file or pdf field names a PDF are opened and
the DOI printed in the PDF is compared against the entry's doi field. This
is an offline check; no bibliographic database is contacted.

Warnings are diagnostics: the command exits 0 even when some are reported.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	resolver, closeTable, err := openResolver(resolveTablePath(checkTable, cfg))
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	defer closeTable()

	inputPath := args[0]
	records, err := bib.ParseFile(inputPath)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	// Cross-check PDFs before the transform: field removal may drop the
	// file and pdf fields the check needs.
	var pdfWarnings []transform.Warning
	if checkPDFRoot != "" {
		pdfWarnings = crossCheckPDFs(records, checkPDFRoot)
	}

	warnings := transform.Clean(records, resolver, cleanOptions(cfg))
	warnings = append(warnings, pdfWarnings...)

	logWarnings(warnings)

	result := CheckResult{
		Input:    inputPath,
		Entries:  len(records),
		Warnings: warnings,
	}
	if humanOutput {
		fmt.Printf("Checked %d entries: %d warning(s)\n", result.Entries, len(warnings))
		return nil
	}
	return outputJSON(result)
}

// crossCheckPDFs compares each entry's doi field with the DOI extracted from
// its linked PDF. Unreadable PDFs and entries without a link are skipped.
func crossCheckPDFs(records []bib.Record, pdfRoot string) []transform.Warning {
	var warnings []transform.Warning

	for i := range records {
		r := &records[i]

		var pdfPath string
		for _, field := range []string{"file", "pdf"} {
			if v, ok := r.Get(field); ok && v != "" {
				pdfPath = v
				break
			}
		}
		if pdfPath == "" {
			continue
		}
		if !filepath.IsAbs(pdfPath) {
			pdfPath = filepath.Join(pdfRoot, pdfPath)
		}

		extracted, err := pdfdoi.Extract(pdfPath)
		if err != nil || extracted == "" {
			continue
		}

		doi, ok := r.Get("doi")
		if !ok || doi == "" {
			continue // missing DOI is already warned about by the transform
		}
		if !pdfdoi.Equal(doi, extracted) {
			warnings = append(warnings, transform.Warning{
				EntryID: r.ID,
				Field:   "doi",
				Kind:    "doi_mismatch",
				Value:   extracted,
				Message: fmt.Sprintf("DOI %q disagrees with %q found in %s", doi, extracted, filepath.Base(pdfPath)),
			})
		}
	}

	return warnings
}
