// Package titlecase re-cases titles under configurable word-list overrides.
package titlecase

import (
	"strings"
	"unicode"
)

// Lists holds the word-level overrides applied during normalization.
// Precedence, highest first: Preserve, Upper, Lower, then the baseline
// title-case rules.
type Lists struct {
	Lower    []string // forced to all-lowercase
	Upper    []string // forced to all-uppercase
	Preserve []string // reproduced verbatim, byte-for-byte
}

// minorWords stay lowercase under the baseline rules: articles, short
// prepositions, and conjunctions.
var minorWords = map[string]bool{
	"a": true, "an": true, "the": true,
	"and": true, "but": true, "or": true, "nor": true,
	"as": true, "at": true, "by": true, "for": true, "in": true,
	"of": true, "off": true, "on": true, "per": true, "so": true,
	"to": true, "up": true, "via": true, "vs": true, "yet": true,
}

// Normalize converts a title to title case. Override-list matching is
// case-insensitive on each token's alphabetic core, but replacements come
// verbatim from the list entry. The first and last words are always
// capitalized under the baseline rules; overrides beat that too.
// Brace-protected tokens ({...}) are left untouched. Normalize is
// idempotent.
func Normalize(title string, lists Lists) string {
	words := strings.Fields(title)
	if len(words) == 0 {
		return title
	}

	ov := newOverrides(lists)

	for i, word := range words {
		// BibTeX brace protection: the author chose this casing.
		if strings.ContainsAny(word, "{}") {
			continue
		}

		edge := i == 0 || i == len(words)-1
		words[i] = normalizeWord(word, ov, edge)
	}

	return strings.Join(words, " ")
}

func normalizeWord(word string, ov overrides, edge bool) string {
	prefix, core, suffix := splitCore(word)
	if core == "" {
		return word
	}

	if v, ok := ov.apply(core); ok {
		return prefix + v + suffix
	}

	// Compound tokens: each hyphen-delimited segment stands alone.
	if strings.Contains(core, "-") {
		segments := strings.Split(core, "-")
		for j, seg := range segments {
			if v, ok := ov.apply(seg); ok {
				segments[j] = v
				continue
			}
			segments[j] = capitalize(seg)
		}
		return prefix + strings.Join(segments, "-") + suffix
	}

	if !edge && minorWords[strings.ToLower(core)] {
		return prefix + strings.ToLower(core) + suffix
	}
	return prefix + capitalize(core) + suffix
}

type overrides struct {
	preserve map[string]string
	upper    map[string]string
	lower    map[string]string
}

func newOverrides(lists Lists) overrides {
	ov := overrides{
		preserve: make(map[string]string, len(lists.Preserve)),
		upper:    make(map[string]string, len(lists.Upper)),
		lower:    make(map[string]string, len(lists.Lower)),
	}
	for _, w := range lists.Preserve {
		ov.preserve[strings.ToLower(w)] = w
	}
	for _, w := range lists.Upper {
		ov.upper[strings.ToLower(w)] = strings.ToUpper(w)
	}
	for _, w := range lists.Lower {
		ov.lower[strings.ToLower(w)] = strings.ToLower(w)
	}
	return ov
}

// apply returns the override replacement for a core or segment, if any.
func (ov overrides) apply(s string) (string, bool) {
	k := strings.ToLower(s)
	if v, ok := ov.preserve[k]; ok {
		return v, true
	}
	if v, ok := ov.upper[k]; ok {
		return v, true
	}
	if v, ok := ov.lower[k]; ok {
		return v, true
	}
	return "", false
}

// splitCore separates leading and trailing punctuation from a token so that
// "(DNA)," matches the list entry "DNA" and keeps its punctuation.
func splitCore(tok string) (prefix, core, suffix string) {
	runes := []rune(tok)

	start := 0
	for start < len(runes) && !isWordRune(runes[start]) {
		start++
	}
	end := len(runes)
	for end > start && !isWordRune(runes[end-1]) {
		end--
	}

	return string(runes[:start]), string(runes[start:end]), string(runes[end:])
}

// isWordRune reports whether a rune belongs to a token's core. Hyphens stay
// in the core so compounds can be split later.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-'
}

// capitalize uppercases the first letter and lowercases the rest.
func capitalize(s string) string {
	runes := []rune(s)
	for i, r := range runes {
		if i == 0 {
			runes[i] = unicode.ToUpper(r)
		} else {
			runes[i] = unicode.ToLower(r)
		}
	}
	return string(runes)
}
