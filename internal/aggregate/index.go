// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate implements the aggregation engine: the
// paper-author-affiliation cross-index, grouping and ranking by author
// or canonical affiliation, paper matching, and result-bundle assembly.
package aggregate

import (
	"context"
	"sync"

	"github.com/pdiddy/pubmed-atlas/internal/affil"
	"github.com/pdiddy/pubmed-atlas/internal/geo"
	"github.com/pdiddy/pubmed-atlas/pkg/types"
)

// BuildIndex flattens papers into PAA entries, one per (paper, author,
// affiliation) triple, with the canonical affiliation and resolved
// location computed per entry. Expansion runs across workers goroutines;
// each paper writes to its own output slot so entry order matches paper
// order regardless of scheduling.
func BuildIndex(ctx context.Context, papers []types.Paper, workers int) ([]types.PAAEntry, error) {
	if workers <= 0 {
		workers = 1
	}

	slots := make([][]types.PAAEntry, len(papers))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexes {
				slots[idx] = expandPaper(papers[idx])
			}
		}()
	}

feed:
	for i := range papers {
		select {
		case <-ctx.Done():
			break feed
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entries []types.PAAEntry
	for _, slot := range slots {
		entries = append(entries, slot...)
	}
	return entries, nil
}

// expandPaper emits one entry per author affiliation. Authors without
// affiliations contribute nothing.
func expandPaper(p types.Paper) []types.PAAEntry {
	var entries []types.PAAEntry
	for _, author := range p.Authors {
		for _, raw := range author.Affiliations {
			entries = append(entries, types.PAAEntry{
				PMID:                 p.PMID,
				AuthorKey:            author.DisplayName,
				RawAffiliation:       raw,
				CanonicalAffiliation: affil.Canonicalize(raw),
				Location:             geo.Resolve(raw),
				Title:                p.Title,
			})
		}
	}
	return entries
}
