// Package bib models BibTeX records and reads and writes .bib files.
package bib

import "strings"

// JournalFields lists the field names treated as journal-like, in lookup order.
var JournalFields = []string{"journal", "journaltitle"}

// Record is one BibTeX entry: an entry type, a citation key, and a field map.
// Field names are lowercased by the parser.
type Record struct {
	Type   string            `json:"type"`
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`

	// Comments holds the comment lines that preceded this entry in the input.
	Comments []string `json:"comments,omitempty"`
}

// NewRecord creates a record with an initialized field map.
func NewRecord(entryType, id string) Record {
	return Record{
		Type:   strings.ToLower(entryType),
		ID:     id,
		Fields: make(map[string]string),
	}
}

// Get returns a field value by its lowercased name.
func (r *Record) Get(field string) (string, bool) {
	v, ok := r.Fields[strings.ToLower(field)]
	return v, ok
}

// Set stores a field value under its lowercased name.
func (r *Record) Set(field, value string) {
	if r.Fields == nil {
		r.Fields = make(map[string]string)
	}
	r.Fields[strings.ToLower(field)] = value
}

// Delete removes a field. Removing an absent field is a no-op.
func (r *Record) Delete(field string) {
	delete(r.Fields, strings.ToLower(field))
}

// Has reports whether a field is present.
func (r *Record) Has(field string) bool {
	_, ok := r.Fields[strings.ToLower(field)]
	return ok
}

// Journal returns the record's journal-like field name and value.
// Both "journal" and "journaltitle" qualify; "journal" wins if both exist.
func (r *Record) Journal() (field, value string, ok bool) {
	for _, f := range JournalFields {
		if v, present := r.Fields[f]; present {
			return f, v, true
		}
	}
	return "", "", false
}

// Title returns the record's title field value.
func (r *Record) Title() (string, bool) {
	return r.Get("title")
}
