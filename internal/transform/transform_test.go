package transform

import (
	"testing"

	"github.com/matsen/bibclean/internal/bib"
	"github.com/matsen/bibclean/internal/cassi"
	"github.com/matsen/bibclean/internal/titlecase"
)

func testResolver() cassi.Resolver {
	return cassi.NewTable([]cassi.Entry{
		{Abbreviation: "J. Am. Chem. Soc.", PubTitle: "Journal of the American Chemical Society", CODEN: "JACSAT"},
		{Abbreviation: "J. Chem. Phys.", PubTitle: "Journal of Chemical Physics", CODEN: "JCPSA6"},
	})
}

func testOptions() Options {
	return Options{
		Lists: titlecase.Lists{
			Lower: []string{"of", "the"},
			Upper: []string{"DNA", "RNA"},
		},
		RemoveEnabled: true,
		RemoveFields:  []string{"abstract", "eprint", "mendeley-groups"},
	}
}

func warningsOfKind(warnings []Warning, kind Kind) []Warning {
	var out []Warning
	for _, w := range warnings {
		if w.Kind == kind {
			out = append(out, w)
		}
	}
	return out
}

func TestClean_JournalResolution(t *testing.T) {
	known := bib.NewRecord("article", "Known2020")
	known.Set("journal", "journal of the american chemical society")
	known.Set("doi", "10.1021/x")

	unknown := bib.NewRecord("article", "Unknown2021")
	unknown.Set("journal", "Unknown Journal XYZ")
	unknown.Set("doi", "10.1000/y")

	records := []bib.Record{known, unknown}
	warnings := Clean(records, testResolver(), testOptions())

	if got, _ := records[0].Get("journal"); got != "J. Am. Chem. Soc." {
		t.Errorf("known journal = %q, want %q", got, "J. Am. Chem. Soc.")
	}
	if got, _ := records[1].Get("journal"); got != "Unknown Journal XYZ" {
		t.Errorf("unknown journal = %q, must be left unchanged", got)
	}

	misses := warningsOfKind(warnings, KindUnknownJournal)
	if len(misses) != 1 {
		t.Fatalf("got %d unknown-journal warnings, want 1", len(misses))
	}
	if misses[0].EntryID != "Unknown2021" || misses[0].Value != "Unknown Journal XYZ" {
		t.Errorf("warning = %+v, must carry the entry ID and original name", misses[0])
	}
}

func TestClean_JournalTitleField(t *testing.T) {
	r := bib.NewRecord("article", "a")
	r.Set("journaltitle", "Journal of Chemical Physics")
	r.Set("doi", "10.1063/z")

	records := []bib.Record{r}
	Clean(records, testResolver(), testOptions())

	if got, _ := records[0].Get("journaltitle"); got != "J. Chem. Phys." {
		t.Errorf("journaltitle = %q, want %q", got, "J. Chem. Phys.")
	}
}

func TestClean_TitleCase(t *testing.T) {
	r := bib.NewRecord("article", "a")
	r.Set("title", "a study of the DNA of mice")
	r.Set("doi", "10.1000/x")

	records := []bib.Record{r}
	Clean(records, testResolver(), testOptions())

	if got, _ := records[0].Title(); got != "A Study of the DNA of Mice" {
		t.Errorf("title = %q, want %q", got, "A Study of the DNA of Mice")
	}
}

func TestClean_DOI(t *testing.T) {
	tests := []struct {
		name        string
		doi         string
		want        string
		wantSuspect bool
	}{
		{"doi.org prefix stripped", "https://doi.org/10.1021/ja000001", "10.1021/ja000001", false},
		{"dx.doi.org prefix stripped", "https://dx.doi.org/10.1021/ja000002", "10.1021/ja000002", false},
		{"doi label stripped", "doi:10.1021/ja000003", "10.1021/ja000003", false},
		{"bare DOI untouched", "10.1021/ja000004", "10.1021/ja000004", false},
		{"suspect DOI flagged", "99.1021/nope", "99.1021/nope", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := bib.NewRecord("article", "a")
			r.Set("doi", tt.doi)

			records := []bib.Record{r}
			warnings := Clean(records, testResolver(), testOptions())

			if got, _ := records[0].Get("doi"); got != tt.want {
				t.Errorf("doi = %q, want %q", got, tt.want)
			}
			suspect := warningsOfKind(warnings, KindSuspectDOI)
			if tt.wantSuspect && len(suspect) != 1 {
				t.Errorf("got %d suspect-DOI warnings, want 1", len(suspect))
			}
			if !tt.wantSuspect && len(suspect) != 0 {
				t.Errorf("unexpected suspect-DOI warning: %+v", suspect)
			}
		})
	}
}

func TestClean_MissingDOI(t *testing.T) {
	r := bib.NewRecord("article", "NoDoi2020")
	r.Set("title", "T")

	warnings := Clean([]bib.Record{r}, testResolver(), testOptions())

	missing := warningsOfKind(warnings, KindMissingDOI)
	if len(missing) != 1 || missing[0].EntryID != "NoDoi2020" {
		t.Errorf("missing-DOI warnings = %+v, want one for NoDoi2020", missing)
	}
}

func TestClean_PageRanges(t *testing.T) {
	tests := []struct {
		pages string
		want  string
	}{
		{"100-110", "100--110"},
		{"100 110", "100--110"},
		{"100--110", "100--110"},
		{"42", "42"},
	}

	for _, tt := range tests {
		r := bib.NewRecord("article", "a")
		r.Set("pages", tt.pages)
		r.Set("doi", "10.1000/x")

		records := []bib.Record{r}
		Clean(records, testResolver(), testOptions())

		if got, _ := records[0].Get("pages"); got != tt.want {
			t.Errorf("pages %q = %q, want %q", tt.pages, got, tt.want)
		}
	}
}

func TestClean_IncompleteAuthors(t *testing.T) {
	r := bib.NewRecord("article", "a")
	r.Set("author", "Smith, Jane and others")
	r.Set("doi", "10.1000/x")

	warnings := Clean([]bib.Record{r}, testResolver(), testOptions())

	if got := warningsOfKind(warnings, KindIncompleteAuthors); len(got) != 1 {
		t.Errorf("got %d incomplete-author warnings, want 1", len(got))
	}
}

func TestClean_FieldRemoval(t *testing.T) {
	r := bib.NewRecord("article", "a")
	r.Set("abstract", "long text")
	r.Set("eprint", "1234.5678")
	r.Set("title", "T")
	r.Set("doi", "10.1000/x")

	t.Run("enabled", func(t *testing.T) {
		records := []bib.Record{r}
		Clean(records, testResolver(), testOptions())

		if records[0].Has("abstract") || records[0].Has("eprint") {
			t.Error("removal fields survived the pass")
		}
		if !records[0].Has("title") {
			t.Error("unlisted field was removed")
		}
	})

	t.Run("disabled", func(t *testing.T) {
		r2 := bib.NewRecord("article", "b")
		r2.Set("abstract", "kept")
		r2.Set("doi", "10.1000/x")

		opts := testOptions()
		opts.RemoveEnabled = false

		records := []bib.Record{r2}
		Clean(records, testResolver(), opts)

		if !records[0].Has("abstract") {
			t.Error("field removed although removal is disabled")
		}
	})
}

func TestClean_MissLeavesOthersProcessed(t *testing.T) {
	bad := bib.NewRecord("article", "bad")
	bad.Set("journal", "No Such Journal")
	bad.Set("doi", "10.1/a")

	good := bib.NewRecord("article", "good")
	good.Set("journal", "Journal of Chemical Physics")
	good.Set("doi", "10.1/b")

	records := []bib.Record{bad, good}
	Clean(records, testResolver(), testOptions())

	if got, _ := records[1].Get("journal"); got != "J. Chem. Phys." {
		t.Errorf("record after a resolution miss = %q, want it fully processed", got)
	}
}

// Cleaning and serializing a second time must not change the output.
func TestClean_NoDriftAcrossPasses(t *testing.T) {
	src := `@article{Smith2020,
  author = {Smith, Jane},
  title = {a study of the DNA of mice},
  journal = {journal of the american chemical society},
  year = {2020},
  pages = {100-110},
  doi = {https://doi.org/10.1021/ja000001},
  abstract = {dropped on the first pass}
}
@article{Odd2021,
  author = {Doe, John},
  title = {unknown venues and the RNA world},
  journal = {Unknown Journal XYZ},
  year = {2021},
  doi = {10.1000/xyz}
}
`
	order := []string{"author", "title", "journal", "year", "volume", "number", "pages", "doi"}
	writeOpts := bib.WriteOptions{FieldOrder: order, Comments: bib.CommentsStrip}

	records, err := bib.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	Clean(records, testResolver(), testOptions())
	first := bib.Write(records, writeOpts)

	again, err := bib.Parse(first)
	if err != nil {
		t.Fatalf("re-parsing first output: %v", err)
	}
	secondOpts := testOptions()
	secondOpts.RemoveEnabled = false
	secondOpts.RemoveFields = nil
	Clean(again, testResolver(), secondOpts)
	second := bib.Write(again, writeOpts)

	if first != second {
		t.Errorf("output drifted between passes:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestStripDOIPrefix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"https://doi.org/10.1/x", "10.1/x"},
		{"http://dx.doi.org/10.1/x", "10.1/x"},
		{"doi.org/10.1/x", "10.1/x"},
		{"DOI:10.1/x", "10.1/x"},
		{"doi: 10.1/x", "10.1/x"},
		{"10.1/x", "10.1/x"},
	}

	for _, tt := range tests {
		if got := stripDOIPrefix(tt.input); got != tt.want {
			t.Errorf("stripDOIPrefix(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
