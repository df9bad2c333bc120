// Package textnorm folds Greek text into the comparison form used by header
// matching and catalog search: diacritics removed, upper case, only Greek
// letters, ASCII digits and spaces kept.
package textnorm

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// keep reports whether r survives normalization.
func keep(r rune) bool {
	switch {
	case r >= 'Α' && r <= 'Ω':
		return true
	case r >= 'α' && r <= 'ω':
		return true
	case r >= '0' && r <= '9':
		return true
	}
	return r == ' '
}

// decompose splits base letters from combining marks and drops every rune
// outside the kept class, marks included.
var decompose = transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
	return !keep(r)
})))

// Normalize returns s decomposed, filtered and upper-cased with Greek rules.
// An empty input yields an empty result. Normalize is idempotent.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	folded, _, err := transform.String(decompose, s)
	if err != nil {
		return ""
	}

	// cases.Caser is stateful, one per call.
	return cases.Upper(language.Greek).String(folded)
}

// Compact is Normalize with all spaces removed.
func Compact(s string) string {
	return strings.ReplaceAll(Normalize(s), " ", "")
}

// Tokenize splits the normalized form of s into its non-empty words.
func Tokenize(s string) []string {
	normalized := Normalize(s)
	if normalized == "" {
		return []string{}
	}

	parts := strings.Split(normalized, " ")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}
