// Package cassi loads CASSI-style reference tables and resolves journal
// names to their canonical abbreviations.
package cassi

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Entry is one row of the reference table.
type Entry struct {
	Abbreviation string
	PubTitle     string
	CODEN        string
}

// Resolver maps a journal name to its canonical abbreviation.
// The boolean is false when the name is unknown; resolution misses are not
// errors, the caller decides how to degrade.
type Resolver interface {
	Resolve(name string) (string, bool)
}

// Table is an in-memory reference table with normalized lookup keys.
type Table struct {
	entries []Entry
	byTitle map[string]string // normalized PubTitle -> abbreviation
	byCODEN map[string]string // normalized CODEN -> abbreviation
	byAbbr  map[string]string // normalized abbreviation -> canonical abbreviation
}

// NewTable builds a table from entries. When several entries share a
// publication title, the first one wins; later rows are ignored.
func NewTable(entries []Entry) *Table {
	t := &Table{
		entries: entries,
		byTitle: make(map[string]string, len(entries)),
		byCODEN: make(map[string]string, len(entries)),
		byAbbr:  make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		if k := Normalize(e.PubTitle); k != "" {
			if _, dup := t.byTitle[k]; !dup {
				t.byTitle[k] = e.Abbreviation
			}
		}
		if k := Normalize(e.CODEN); k != "" {
			if _, dup := t.byCODEN[k]; !dup {
				t.byCODEN[k] = e.Abbreviation
			}
		}
		if k := Normalize(e.Abbreviation); k != "" {
			if _, dup := t.byAbbr[k]; !dup {
				t.byAbbr[k] = e.Abbreviation
			}
		}
	}
	return t
}

// Resolve looks up a journal name. Publication titles are checked first,
// then CODEN codes. A name that already matches a known abbreviation
// resolves to the canonical form of that abbreviation.
func (t *Table) Resolve(name string) (string, bool) {
	k := Normalize(name)
	if k == "" {
		return "", false
	}
	if abbr, ok := t.byTitle[k]; ok {
		return abbr, true
	}
	if abbr, ok := t.byCODEN[k]; ok {
		return abbr, true
	}
	if abbr, ok := t.byAbbr[k]; ok {
		return abbr, true
	}
	return "", false
}

// Len returns the number of loaded entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns the loaded entries in input order.
func (t *Table) Entries() []Entry {
	return t.entries
}

// LoadCSV reads a reference table from a CSV file with header columns
// Abbreviation, PubTitle, and CODEN (any order, case-insensitive).
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening reference table: %w", err)
	}
	defer f.Close()

	entries, err := parseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("reading reference table %s: %w", path, err)
	}
	return NewTable(entries), nil
}

func parseCSV(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // CODEN column may be ragged

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	abbrCol, titleCol, codenCol := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "abbreviation":
			abbrCol = i
		case "pubtitle":
			titleCol = i
		case "coden":
			codenCol = i
		}
	}
	if abbrCol == -1 || titleCol == -1 {
		return nil, fmt.Errorf("header must name Abbreviation and PubTitle columns, got %v", header)
	}

	var entries []Entry
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		e := Entry{
			Abbreviation: strings.TrimSpace(columnValue(row, abbrCol)),
			PubTitle:     strings.TrimSpace(columnValue(row, titleCol)),
		}
		if codenCol != -1 {
			e.CODEN = strings.TrimSpace(columnValue(row, codenCol))
		}
		if e.PubTitle == "" || e.Abbreviation == "" {
			return nil, fmt.Errorf("row %d: missing publication title or abbreviation", line)
		}
		entries = append(entries, e)
	}

	return entries, nil
}

func columnValue(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// stripAccents removes combining marks after NFD decomposition, so that
// "Zeitschrift für Physik" and "Zeitschrift fur Physik" share a lookup key.
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize produces the lookup key for a name: case-folded, accent-stripped,
// with whitespace runs collapsed to single spaces.
func Normalize(name string) string {
	s, _, err := transform.String(stripAccents, strings.ToLower(name))
	if err != nil {
		s = strings.ToLower(name)
	}
	return strings.Join(strings.Fields(s), " ")
}
