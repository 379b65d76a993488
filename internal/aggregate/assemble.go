// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"sort"

	"github.com/pdiddy/pubmed-atlas/internal/geo"
	"github.com/pdiddy/pubmed-atlas/pkg/types"
)

// AssembleBundle joins a ranked group with its matched paper details
// into the final per-group payload. Details are deduplicated by PMID
// (first occurrence wins) before histogram counting, so a paper matched
// through several raw variants counts its keywords once.
func AssembleBundle(group types.Group, details []types.PaperDetail, dim Dimension) types.ResultBundle {
	var papers []types.PaperDetail
	seen := make(map[string]struct{}, len(details))
	for _, d := range details {
		if _, dup := seen[d.PMID]; dup {
			continue
		}
		seen[d.PMID] = struct{}{}
		papers = append(papers, d)
	}

	links := make([]types.PaperLink, 0, len(papers))
	keywords := newCounter()
	pubTypes := newCounter()
	for _, d := range papers {
		links = append(links, types.PaperLink{PMID: d.PMID, Title: d.Title, Link: d.Link})
		for _, kw := range d.MeshKeywords {
			keywords.add(kw, 1)
		}
		// Count from the list, not the joined display string: type names
		// like "Research Support, Non-U.S. Gov't" contain commas.
		for _, pt := range d.PubTypeList {
			pubTypes.add(pt, 1)
		}
	}

	bundle := types.ResultBundle{
		Group:            group,
		Papers:           papers,
		PaperLinks:       links,
		KeywordHistogram: keywords.top(0),
		PubTypeHistogram: pubTypes.top(0),
	}
	if dim == ByAffiliation {
		bundle.LocationHistogram = locationHistogram(group.RawVariantCounts)
	}
	return bundle
}

// locationHistogram re-resolves every recorded raw affiliation variant.
// Variants that resolve to nothing are skipped. Map keys are visited in
// sorted order so tie order is stable.
func locationHistogram(rawVariants map[string]map[string]int) []types.CountEntry {
	if len(rawVariants) == 0 {
		return nil
	}

	pmids := make([]string, 0, len(rawVariants))
	for pmid := range rawVariants {
		pmids = append(pmids, pmid)
	}
	sort.Strings(pmids)

	locations := newCounter()
	for _, pmid := range pmids {
		raws := make([]string, 0, len(rawVariants[pmid]))
		for raw := range rawVariants[pmid] {
			raws = append(raws, raw)
		}
		sort.Strings(raws)

		for _, raw := range raws {
			if loc := geo.Resolve(raw); loc != "" {
				locations.add(loc, rawVariants[pmid][raw])
			}
		}
	}
	return locations.top(0)
}
