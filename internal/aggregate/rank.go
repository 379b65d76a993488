// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"sort"

	"github.com/pdiddy/pubmed-atlas/pkg/types"
)

// Dimension selects the grouping key of the aggregation.
type Dimension string

const (
	// ByAuthor groups cross-index entries by author display name.
	ByAuthor Dimension = "author"

	// ByAffiliation groups by canonical affiliation string.
	ByAffiliation Dimension = "affiliation"
)

// Valid reports whether d is a known dimension.
func (d Dimension) Valid() bool {
	return d == ByAuthor || d == ByAffiliation
}

// candidateCap bounds the number of candidate groups considered for
// ranking. Values beyond the 200 most frequent are excluded.
const candidateCap = 200

// counter accumulates counts while remembering first-seen order, so ties
// rank in insertion order no matter how counting is scheduled.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string, n int) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key] += n
}

// top returns the n highest-count entries, count descending with
// first-seen order breaking ties. n <= 0 returns all entries.
func (c *counter) top(n int) []types.CountEntry {
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	sort.SliceStable(keys, func(i, j int) bool {
		return c.counts[keys[i]] > c.counts[keys[j]]
	})
	if n > 0 && len(keys) > n {
		keys = keys[:n]
	}

	entries := make([]types.CountEntry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, types.CountEntry{Value: k, Count: c.counts[k]})
	}
	return entries
}

// key projects the grouping value of an entry for the dimension.
func (d Dimension) key(e types.PAAEntry) string {
	if d == ByAffiliation {
		return e.CanonicalAffiliation
	}
	return e.AuthorKey
}

// complementKey projects the opposite dimension's value.
func (d Dimension) complementKey(e types.PAAEntry) string {
	if d == ByAffiliation {
		return e.AuthorKey
	}
	return e.RawAffiliation
}

// RankGroups groups the cross-index by the chosen dimension and returns
// ranked groups, total distinct-paper count descending with first-seen
// order breaking ties. At most candidateCap groups are considered.
// topCoOccur bounds the secondary aggregates: the complementary
// dimension and location summaries keep the 3×topCoOccur most frequent
// values. An empty entry sequence yields an empty group list; the caller
// decides between "no results" and "fully filtered".
func RankGroups(entries []types.PAAEntry, dim Dimension, topCoOccur int) []types.Group {
	if topCoOccur <= 0 {
		topCoOccur = 5
	}

	// Candidate selection by raw entry frequency.
	freq := newCounter()
	for _, e := range entries {
		if key := dim.key(e); key != "" {
			freq.add(key, 1)
		}
	}
	candidates := freq.top(candidateCap)

	firstSeen := make(map[string]int, len(candidates))
	for i, c := range candidates {
		firstSeen[c.Value] = i
	}

	groups := make([]types.Group, 0, len(candidates))
	for _, cand := range candidates {
		groups = append(groups, buildGroup(cand.Value, entries, dim, topCoOccur))
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].TotalPapers != groups[j].TotalPapers {
			return groups[i].TotalPapers > groups[j].TotalPapers
		}
		return firstSeen[groups[i].Key] < firstSeen[groups[j].Key]
	})
	return groups
}

// buildGroup computes the aggregates for one candidate key.
func buildGroup(key string, entries []types.PAAEntry, dim Dimension, topCoOccur int) types.Group {
	bound := topCoOccur * 3

	distinctPapers := make(map[string]struct{})
	complement := newCounter()
	locations := newCounter()
	pairSeen := make(map[[2]string]struct{})

	// pmid → complementary value → count, trimmed to the kept values below.
	byPaper := make(map[string]map[string]int)
	var rawVariants map[string]map[string]int
	if dim == ByAffiliation {
		rawVariants = make(map[string]map[string]int)
	}

	for _, e := range entries {
		if dim.key(e) != key {
			continue
		}
		distinctPapers[e.PMID] = struct{}{}

		// Complementary values count once per (paper, value) pair so one
		// paper cannot dominate a co-occurrence ranking.
		comp := dim.complementKey(e)
		if comp != "" {
			pair := [2]string{e.PMID, comp}
			if _, dup := pairSeen[pair]; !dup {
				pairSeen[pair] = struct{}{}
				complement.add(comp, 1)
			}
			if byPaper[e.PMID] == nil {
				byPaper[e.PMID] = make(map[string]int)
			}
			byPaper[e.PMID][comp]++
		}

		if e.Location != "" {
			locations.add(e.Location, 1)
		}

		if rawVariants != nil && e.RawAffiliation != "" {
			if rawVariants[e.PMID] == nil {
				rawVariants[e.PMID] = make(map[string]int)
			}
			rawVariants[e.PMID][e.RawAffiliation]++
		}
	}

	topComplement := complement.top(bound)
	kept := make(map[string]struct{}, len(topComplement))
	for _, ce := range topComplement {
		kept[ce.Value] = struct{}{}
	}
	for pmid, values := range byPaper {
		for v := range values {
			if _, ok := kept[v]; !ok {
				delete(values, v)
			}
		}
		if len(values) == 0 {
			delete(byPaper, pmid)
		}
	}

	g := types.Group{
		Key:              key,
		TotalPapers:      len(distinctPapers),
		TopLocations:     locations.top(bound),
		CoOccurByPaper:   byPaper,
		RawVariantCounts: rawVariants,
	}
	if dim == ByAffiliation {
		g.TopAuthors = topComplement
	} else {
		g.TopAffiliations = topComplement
	}
	return g
}
