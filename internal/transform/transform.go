// Package transform applies the cleaning pass to parsed BibTeX records.
//
// The pass mutates records in place and reports problems as structured
// warnings rather than printing, so callers decide how to render them.
// A warning on one record never stops processing of the rest.
package transform

import (
	"fmt"
	"strings"

	"github.com/matsen/bibclean/internal/bib"
	"github.com/matsen/bibclean/internal/cassi"
	"github.com/matsen/bibclean/internal/titlecase"
)

// Kind classifies a warning.
type Kind string

const (
	// KindUnknownJournal means the journal name was not in the reference table.
	KindUnknownJournal Kind = "unknown_journal"
	// KindSuspectDOI means a DOI does not start with "10.".
	KindSuspectDOI Kind = "suspect_doi"
	// KindMissingDOI means the entry has no DOI field at all.
	KindMissingDOI Kind = "missing_doi"
	// KindIncompleteAuthors means the author list contains "and others".
	KindIncompleteAuthors Kind = "incomplete_authors"
)

// Warning is one non-fatal finding from the cleaning pass.
type Warning struct {
	EntryID string `json:"entry"`
	Field   string `json:"field,omitempty"`
	Kind    Kind   `json:"kind"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// Options configures the cleaning pass.
type Options struct {
	Lists         titlecase.Lists
	RemoveEnabled bool
	RemoveFields  []string
}

// Clean transforms every record in place and returns the accumulated
// warnings, in record order.
func Clean(records []bib.Record, resolver cassi.Resolver, opts Options) []Warning {
	var warnings []Warning
	for i := range records {
		warnings = append(warnings, cleanRecord(&records[i], resolver, opts)...)
	}
	return warnings
}

func cleanRecord(r *bib.Record, resolver cassi.Resolver, opts Options) []Warning {
	var warnings []Warning

	if field, name, ok := r.Journal(); ok {
		if abbr, found := resolver.Resolve(name); found {
			r.Set(field, abbr)
		} else {
			warnings = append(warnings, Warning{
				EntryID: r.ID,
				Field:   field,
				Kind:    KindUnknownJournal,
				Value:   name,
				Message: fmt.Sprintf("unknown journal abbreviation for %q, check CASSI directly", name),
			})
		}
	}

	if title, ok := r.Title(); ok {
		r.Set("title", titlecase.Normalize(title, opts.Lists))
	}

	if doi, ok := r.Get("doi"); ok {
		cleaned := stripDOIPrefix(doi)
		if cleaned != doi {
			r.Set("doi", cleaned)
		}
		if !strings.HasPrefix(cleaned, "10.") {
			warnings = append(warnings, Warning{
				EntryID: r.ID,
				Field:   "doi",
				Kind:    KindSuspectDOI,
				Value:   cleaned,
				Message: fmt.Sprintf("DOI %q does not start with \"10.\"", cleaned),
			})
		}
	} else {
		warnings = append(warnings, Warning{
			EntryID: r.ID,
			Field:   "doi",
			Kind:    KindMissingDOI,
			Message: "no DOI field",
		})
	}

	if pages, ok := r.Get("pages"); ok {
		if fixed := fixPageRange(pages); fixed != pages {
			r.Set("pages", fixed)
		}
	}

	if authors, ok := r.Get("author"); ok {
		if strings.Contains(strings.ToLower(authors), "and others") {
			warnings = append(warnings, Warning{
				EntryID: r.ID,
				Field:   "author",
				Kind:    KindIncompleteAuthors,
				Message: "author list contains \"and others\" and may be incomplete",
			})
		}
	}

	if opts.RemoveEnabled {
		for _, field := range opts.RemoveFields {
			r.Delete(field)
		}
	}

	return warnings
}

// doiPrefixes are stripped from DOI values, longest first.
var doiPrefixes = []string{
	"https://dx.doi.org/",
	"http://dx.doi.org/",
	"https://doi.org/",
	"http://doi.org/",
	"dx.doi.org/",
	"doi.org/",
	"DOI:",
	"doi:",
}

// stripDOIPrefix removes hyperlink and label prefixes, leaving the bare DOI.
func stripDOIPrefix(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range doiPrefixes {
		if rest, ok := strings.CutPrefix(doi, prefix); ok {
			return strings.TrimSpace(rest)
		}
	}
	return doi
}

// fixPageRange rewrites "123-456" and "123 456" as "123--456". Ranges that
// already use "--" are left alone.
func fixPageRange(pages string) string {
	if strings.Contains(pages, "--") {
		return pages
	}
	if strings.Contains(pages, "-") {
		return strings.ReplaceAll(pages, "-", "--")
	}
	if strings.Contains(pages, " ") {
		return strings.ReplaceAll(pages, " ", "--")
	}
	return pages
}
