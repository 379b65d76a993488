// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package affil normalizes free-text affiliation strings into comparable
// keys. Two affiliations name the same institution iff their canonical
// forms are equal; equality is exact, not fuzzy.
package affil

import (
	"strings"
	"unicode"
)

// stopwords are tokens dropped from canonical forms: high-frequency glue
// words that vary between spellings of the same institution.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "at": true, "de": true,
	"der": true, "des": true, "di": true, "du": true, "for": true,
	"in": true, "la": true, "le": true, "of": true, "on": true,
	"the": true, "und": true, "von": true,
}

// Canonicalize lowercases the affiliation, strips digits and the
// punctuation set {, . ; -}, collapses whitespace, and drops stopword
// tokens. It is idempotent: Canonicalize(Canonicalize(s)) == Canonicalize(s).
// Empty input yields empty output.
func Canonicalize(affiliation string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(affiliation) {
		switch {
		case unicode.IsDigit(r):
		case r == ',' || r == '.' || r == ';' || r == '-':
		default:
			b.WriteRune(r)
		}
	}

	fields := strings.Fields(b.String())
	kept := fields[:0]
	for _, f := range fields {
		if !stopwords[f] {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}
