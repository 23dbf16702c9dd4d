package bib

import (
	"fmt"
	"os"
	"strings"
)

// ParseFile reads and parses a .bib file.
func ParseFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	records, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return records, nil
}

// Parse parses BibTeX source into records. Field names and entry types are
// lowercased. Comment lines ('%' lines, free text between entries, and
// @comment/@string/@preamble blocks) are attached to the entry that follows
// them. Reused citation keys are an error.
func Parse(src string) ([]Record, error) {
	p := &parser{src: src, line: 1}
	var records []Record
	var pending []string
	seen := make(map[string]int)

	for {
		pending = append(pending, p.scanToEntry()...)
		if p.pos >= len(p.src) {
			break
		}

		entryLine := p.line
		rec, raw, err := p.parseEntry()
		if err != nil {
			return nil, err
		}
		if raw != "" {
			// @comment, @string, or @preamble block kept verbatim.
			pending = append(pending, raw)
			continue
		}

		if prev, dup := seen[rec.ID]; dup {
			return nil, fmt.Errorf("line %d: entry key %q reused (first seen at line %d)", entryLine, rec.ID, prev)
		}
		seen[rec.ID] = entryLine

		rec.Comments = pending
		pending = nil
		records = append(records, rec)
	}

	// Trailing comments have no following entry; keep them with the last one.
	if len(pending) > 0 && len(records) > 0 {
		last := &records[len(records)-1]
		last.Comments = append(last.Comments, pending...)
	}

	return records, nil
}

type parser struct {
	src  string
	pos  int
	line int
}

// scanToEntry consumes text up to the next '@', collecting comment lines.
func (p *parser) scanToEntry() []string {
	var comments []string
	for p.pos < len(p.src) {
		switch c := p.src[p.pos]; {
		case c == '@':
			return comments
		case c == '\n':
			p.line++
			p.pos++
		case c == ' ' || c == '\t' || c == '\r':
			p.pos++
		default:
			start := p.pos
			for p.pos < len(p.src) && p.src[p.pos] != '\n' {
				p.pos++
			}
			comments = append(comments, strings.TrimRight(p.src[start:p.pos], " \t\r"))
		}
	}
	return comments
}

// parseEntry parses one '@' block. For @comment, @string, and @preamble it
// returns the raw block text instead of a record.
func (p *parser) parseEntry() (Record, string, error) {
	start := p.pos
	p.pos++ // consume '@'

	entryType := strings.ToLower(p.scanIdentifier())
	if entryType == "" {
		return Record{}, "", fmt.Errorf("line %d: expected entry type after '@'", p.line)
	}

	if entryType == "comment" || entryType == "string" || entryType == "preamble" {
		if err := p.skipBalanced(); err != nil {
			return Record{}, "", err
		}
		return Record{}, p.src[start:p.pos], nil
	}

	p.skipSpace()
	if !p.consume('{') {
		return Record{}, "", fmt.Errorf("line %d: expected '{' after @%s", p.line, entryType)
	}

	key := p.scanUntil(",}")
	key = strings.TrimSpace(key)
	if key == "" {
		return Record{}, "", fmt.Errorf("line %d: @%s entry has no citation key", p.line, entryType)
	}

	rec := NewRecord(entryType, key)

	for {
		p.skipSpace()
		if p.consume('}') {
			return rec, "", nil
		}
		if !p.consume(',') {
			return Record{}, "", fmt.Errorf("line %d: expected ',' or '}' in entry %q", p.line, key)
		}
		p.skipSpace()
		if p.consume('}') {
			return rec, "", nil // trailing comma
		}

		name := p.scanFieldName()
		if name == "" {
			return Record{}, "", fmt.Errorf("line %d: expected field name in entry %q", p.line, key)
		}
		p.skipSpace()
		if !p.consume('=') {
			return Record{}, "", fmt.Errorf("line %d: expected '=' after field %q in entry %q", p.line, name, key)
		}
		p.skipSpace()

		value, err := p.scanValue(key, name)
		if err != nil {
			return Record{}, "", err
		}
		rec.Fields[strings.ToLower(name)] = collapseSpace(value)
	}
}

// scanValue reads a braced, quoted, or bare field value.
func (p *parser) scanValue(key, field string) (string, error) {
	if p.pos >= len(p.src) {
		return "", fmt.Errorf("line %d: unexpected end of input in entry %q", p.line, key)
	}

	switch p.src[p.pos] {
	case '{':
		start := p.pos + 1
		depth := 0
		for ; p.pos < len(p.src); p.pos++ {
			switch p.src[p.pos] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					value := p.src[start:p.pos]
					p.pos++
					return value, nil
				}
			case '\n':
				p.line++
			}
		}
		return "", fmt.Errorf("line %d: unbalanced braces in field %q of entry %q", p.line, field, key)
	case '"':
		p.pos++
		start := p.pos
		for ; p.pos < len(p.src); p.pos++ {
			switch p.src[p.pos] {
			case '"':
				value := p.src[start:p.pos]
				p.pos++
				return value, nil
			case '\n':
				p.line++
			}
		}
		return "", fmt.Errorf("line %d: unterminated quoted value in field %q of entry %q", p.line, field, key)
	default:
		// Bare value: a number or macro name, up to the field separator.
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] != ',' && p.src[p.pos] != '}' && p.src[p.pos] != '\n' {
			p.pos++
		}
		return strings.TrimSpace(p.src[start:p.pos]), nil
	}
}

// skipBalanced consumes a balanced {...} or (...) block.
func (p *parser) skipBalanced() error {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return fmt.Errorf("line %d: unexpected end of input", p.line)
	}
	open := p.src[p.pos]
	var closer byte
	switch open {
	case '{':
		closer = '}'
	case '(':
		closer = ')'
	default:
		return fmt.Errorf("line %d: expected '{' or '(' after block type", p.line)
	}

	depth := 0
	for ; p.pos < len(p.src); p.pos++ {
		switch p.src[p.pos] {
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				p.pos++
				return nil
			}
		case '\n':
			p.line++
		}
	}
	return fmt.Errorf("line %d: unbalanced block", p.line)
}

func (p *parser) scanIdentifier() string {
	start := p.pos
	for p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) scanFieldName() string {
	start := p.pos
	for p.pos < len(p.src) && isFieldNameByte(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

// scanUntil reads up to (not including) any byte in stop, tracking newlines.
func (p *parser) scanUntil(stop string) string {
	start := p.pos
	for p.pos < len(p.src) && !strings.ContainsRune(stop, rune(p.src[p.pos])) {
		if p.src[p.pos] == '\n' {
			p.line++
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case '\n':
			p.line++
			p.pos++
		case ' ', '\t', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) consume(c byte) bool {
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func isIdentByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isFieldNameByte(c byte) bool {
	return isIdentByte(c) || c >= '0' && c <= '9' ||
		c == '-' || c == '_' || c == '.' || c == '+' || c == ':'
}

// collapseSpace folds whitespace runs (including newlines in multi-line
// values) into single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
