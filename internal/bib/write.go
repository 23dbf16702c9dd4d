package bib

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CommentPolicy controls where input comments end up in the output.
type CommentPolicy string

const (
	// CommentsInline keeps each comment adjacent to the entry it preceded.
	CommentsInline CommentPolicy = "inline"
	// CommentsGrouped collects all comments into one block before the first entry.
	CommentsGrouped CommentPolicy = "grouped"
	// CommentsStrip drops all comments.
	CommentsStrip CommentPolicy = "strip"
)

// ValidCommentPolicies lists the accepted comment policy values.
var ValidCommentPolicies = []CommentPolicy{CommentsInline, CommentsGrouped, CommentsStrip}

// WriteOptions controls serialization.
type WriteOptions struct {
	// FieldOrder lists field names to emit first, in order. Fields not
	// listed follow alphabetically.
	FieldOrder []string
	// Comments selects the comment placement policy. Empty means strip.
	Comments CommentPolicy
	// SortEntries emits entries in ascending citation-key order instead of
	// input order.
	SortEntries bool
	// Indent is the per-field indent. Defaults to two spaces.
	Indent string
}

// Write serializes records to BibTeX text. Output is deterministic for a
// given input and options.
func Write(records []Record, opts WriteOptions) string {
	indent := opts.Indent
	if indent == "" {
		indent = "  "
	}
	policy := opts.Comments
	if policy == "" {
		policy = CommentsStrip
	}

	out := records
	if opts.SortEntries {
		out = make([]Record, len(records))
		copy(out, records)
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	}

	var b strings.Builder

	if policy == CommentsGrouped {
		// Comments keep input order even when entries are sorted.
		var any bool
		for _, r := range records {
			for _, c := range r.Comments {
				b.WriteString(c)
				b.WriteString("\n")
				any = true
			}
		}
		if any {
			b.WriteString("\n")
		}
	}

	for i, r := range out {
		if i > 0 {
			b.WriteString("\n")
		}
		if policy == CommentsInline {
			for _, c := range r.Comments {
				b.WriteString(c)
				b.WriteString("\n")
			}
		}
		writeRecord(&b, r, opts.FieldOrder, indent)
	}

	return b.String()
}

// WriteFile serializes records and writes them atomically (temp file plus
// rename) so a failed run never leaves a partial output file.
func WriteFile(path string, records []Record, opts WriteOptions) error {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*.bib")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.WriteString(Write(records, opts)); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	success = true
	return nil
}

func writeRecord(b *strings.Builder, r Record, order []string, indent string) {
	fmt.Fprintf(b, "@%s{%s,\n", r.Type, r.ID)

	names := orderedFields(r, order)
	for i, name := range names {
		b.WriteString(indent)
		b.WriteString(name)
		b.WriteString(" = {")
		b.WriteString(r.Fields[name])
		b.WriteString("}")
		if i < len(names)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}

	b.WriteString("}\n")
}

// orderedFields returns the record's field names: those named in order first
// (skipping absent ones), then the rest alphabetically.
func orderedFields(r Record, order []string) []string {
	seen := make(map[string]bool, len(order))
	var names []string
	for _, name := range order {
		name = strings.ToLower(name)
		if seen[name] {
			continue
		}
		if _, ok := r.Fields[name]; ok {
			names = append(names, name)
			seen[name] = true
		}
	}

	var rest []string
	for name := range r.Fields {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)

	return append(names, rest...)
}
