// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"strings"

	"github.com/pdiddy/pubmed-atlas/pkg/types"
)

// MatchPapers retrieves the papers backing one group and renders them as
// flat detail records. A paper matches when at least one cross-index
// entry for it carries the group key: exact author-key equality for
// author groups, canonical-string equality for affiliation groups.
// Details come back in paper order, keyed "{group key}_{pmid}" so keys
// stay unique across groups sharing a paper.
func MatchPapers(group types.Group, dim Dimension, entries []types.PAAEntry, papers []types.Paper) []types.PaperDetail {
	// First matching entry per paper supplies the raw display value.
	rawKeys := make(map[string]string)
	for _, e := range entries {
		if dim.key(e) != group.Key {
			continue
		}
		if _, seen := rawKeys[e.PMID]; seen {
			continue
		}
		if dim == ByAffiliation {
			rawKeys[e.PMID] = e.RawAffiliation
		} else {
			rawKeys[e.PMID] = e.AuthorKey
		}
	}

	details := make([]types.PaperDetail, 0, len(rawKeys))
	for _, p := range papers {
		rawKey, ok := rawKeys[p.PMID]
		if !ok {
			continue
		}
		details = append(details, renderDetail(p, group.Key, rawKey))
	}
	return details
}

func renderDetail(p types.Paper, joinKey, rawKey string) types.PaperDetail {
	names := make([]string, 0, len(p.Authors))
	for _, a := range p.Authors {
		names = append(names, a.DisplayName)
	}

	ids := make([]string, 0, len(p.OtherIDs))
	for _, id := range p.OtherIDs {
		ids = append(ids, id.Value)
	}

	return types.PaperDetail{
		Key:          joinKey + "_" + p.PMID,
		JoinKey:      joinKey,
		RawKey:       rawKey,
		Title:        p.Title,
		PubDate:      p.PubDate,
		Link:         p.Link,
		PMID:         p.PMID,
		PubTypes:     strings.Join(p.PublicationTypes, ","),
		PubTypeList:  p.PublicationTypes,
		AllAuthors:   strings.Join(names, ","),
		MeshKeywords: p.KeywordNames(),
		OtherIDs:     strings.Join(ids, ","),
	}
}
