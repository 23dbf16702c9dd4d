package cassi

import (
	"os"
	"path/filepath"
	"testing"
)

func testEntries() []Entry {
	return []Entry{
		{Abbreviation: "J. Am. Chem. Soc.", PubTitle: "Journal of the American Chemical Society", CODEN: "JACSAT"},
		{Abbreviation: "J. Chem. Phys.", PubTitle: "Journal of Chemical Physics", CODEN: "JCPSA6"},
		{Abbreviation: "Z. Phys.", PubTitle: "Zeitschrift für Physik", CODEN: "ZEPYAA"},
	}
}

func TestTable_Resolve(t *testing.T) {
	table := NewTable(testEntries())

	tests := []struct {
		name  string
		query string
		want  string
		found bool
	}{
		{"exact title", "Journal of the American Chemical Society", "J. Am. Chem. Soc.", true},
		{"lowercase title", "journal of the american chemical society", "J. Am. Chem. Soc.", true},
		{"extra whitespace", "  Journal of  Chemical   Physics ", "J. Chem. Phys.", true},
		{"accented title via plain query", "zeitschrift fur physik", "Z. Phys.", true},
		{"coden lookup", "JACSAT", "J. Am. Chem. Soc.", true},
		{"abbreviation resolves to itself", "j. am. chem. soc.", "J. Am. Chem. Soc.", true},
		{"unknown journal", "Unknown Journal XYZ", "", false},
		{"empty name", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := table.Resolve(tt.query)
			if found != tt.found {
				t.Fatalf("Resolve(%q) found = %v, want %v", tt.query, found, tt.found)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}

func TestNewTable_FirstEntryWins(t *testing.T) {
	table := NewTable([]Entry{
		{Abbreviation: "First Abbrev.", PubTitle: "Ambiguous Journal"},
		{Abbreviation: "Second Abbrev.", PubTitle: "Ambiguous Journal"},
	})

	got, found := table.Resolve("Ambiguous Journal")
	if !found {
		t.Fatal("Resolve() found = false, want true")
	}
	if got != "First Abbrev." {
		t.Errorf("Resolve() = %q, want %q (first-loaded entry wins)", got, "First Abbrev.")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Journal of Chemical Physics", "journal of chemical physics"},
		{"  spaced   out  ", "spaced out"},
		{"Zeitschrift für Physik", "zeitschrift fur physik"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cassi.csv")
	csv := `Abbreviation,PubTitle,CODEN
"J. Am. Chem. Soc.","Journal of the American Chemical Society",JACSAT
"Biochemistry","Biochemistry",BICHAW
`
	if err := os.WriteFile(path, []byte(csv), 0644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadCSV(path)
	if err != nil {
		t.Fatalf("LoadCSV() error = %v", err)
	}
	if table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", table.Len())
	}

	abbr, found := table.Resolve("journal of the american chemical society")
	if !found || abbr != "J. Am. Chem. Soc." {
		t.Errorf("Resolve() = %q, %v; want %q, true", abbr, found, "J. Am. Chem. Soc.")
	}
}

func TestLoadCSV_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadCSV(filepath.Join(dir, "nope.csv")); err == nil {
			t.Error("LoadCSV() expected error for missing file")
		}
	})

	t.Run("missing columns", func(t *testing.T) {
		path := filepath.Join(dir, "bad_header.csv")
		os.WriteFile(path, []byte("Name,Value\na,b\n"), 0644)
		if _, err := LoadCSV(path); err == nil {
			t.Error("LoadCSV() expected error for missing columns")
		}
	})

	t.Run("empty title", func(t *testing.T) {
		path := filepath.Join(dir, "empty_title.csv")
		os.WriteFile(path, []byte("Abbreviation,PubTitle,CODEN\nAbbr.,,XYZ\n"), 0644)
		if _, err := LoadCSV(path); err == nil {
			t.Error("LoadCSV() expected error for empty publication title")
		}
	})
}
