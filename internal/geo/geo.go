// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package geo extracts a canonical "city, country" label from free-text
// affiliation strings using an embedded gazetteer. Resolve is a pure
// function; a richer gazetteer can replace the word lists without
// touching callers.
package geo

import (
	"regexp"
	"strings"
)

// falsePositiveCity is a gazetteer place name that in affiliation text
// almost always means an institution, never the city.
const falsePositiveCity = "University"

// maxNameTokens bounds multi-word gazetteer lookups ("Rio de Janeiro").
const maxNameTokens = 3

// tokenRe splits text into word tokens for gazetteer matching.
var tokenRe = regexp.MustCompile(`[A-Za-z]+`)

func lower(s string) string { return strings.ToLower(s) }

// Resolve extracts recognized place names from an affiliation string and
// formats them as "<space-joined unique cities>, <country>". Cities keep
// first-seen order after set deduplication; only the first recognized
// country is used. Returns "" when nothing is recognized.
func Resolve(affiliation string) string {
	if affiliation == "" {
		return ""
	}

	tokens := tokenRe.FindAllString(affiliation, -1)

	var cities []string
	citySeen := make(map[string]bool)
	country := ""

	for i := 0; i < len(tokens); {
		matched := 1
		for n := maxNameTokens; n >= 1; n-- {
			if i+n > len(tokens) {
				continue
			}
			candidate := lower(strings.Join(tokens[i:i+n], " "))

			if name, ok := cityLookup[candidate]; ok && capitalized(tokens[i:i+n]) {
				if name != falsePositiveCity && !citySeen[name] {
					citySeen[name] = true
					cities = append(cities, name)
				}
				matched = n
				break
			}
			if name, ok := countryAliases[candidate]; ok {
				if country == "" {
					country = name
				}
				matched = n
				break
			}
		}
		i += matched
	}

	if len(cities) == 0 && country == "" {
		return ""
	}
	return strings.Join(cities, " ") + ", " + country
}

// capitalized reports whether every token starts with an upper-case
// letter. Gazetteer city matches require capitalization so that ordinary
// words ("nice", "bath") do not resolve as places.
func capitalized(tokens []string) bool {
	for _, t := range tokens {
		if t == "" || t[0] < 'A' || t[0] > 'Z' {
			return false
		}
	}
	return true
}
