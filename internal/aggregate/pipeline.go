// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/pdiddy/pubmed-atlas/pkg/types"
)

// Options configures one aggregation run.
type Options struct {
	// Dimension selects the grouping key (default ByAuthor).
	Dimension Dimension

	// TopGroups is the number of ranked groups to assemble bundles for
	// (default 25).
	TopGroups int

	// TopCoOccur is the co-occurrence breadth per group (default 5).
	TopCoOccur int

	// Workers bounds the parallel stages (default 4).
	Workers int
}

func (o Options) withDefaults() Options {
	if o.Dimension == "" {
		o.Dimension = ByAuthor
	}
	if o.TopGroups <= 0 {
		o.TopGroups = 25
	}
	if o.TopCoOccur <= 0 {
		o.TopCoOccur = 5
	}
	if o.Workers <= 0 {
		o.Workers = 4
	}
	return o
}

// Run executes the aggregation stages over parsed papers: cross-index,
// rank, match, assemble. upstreamCount is the result count the upstream
// search reported; droppedByFilter is the number of articles the record
// parser excluded. Together they distinguish "no results" from "results
// fully filtered away" when no group survives.
//
// Bundles come back in ranking order. The order and all counts are
// deterministic for a given input regardless of Workers. Cancellation
// aborts between stages and returns the context error; a partial result
// is never returned as complete.
func Run(ctx context.Context, papers []types.Paper, upstreamCount, droppedByFilter int, opts Options, w io.Writer) (types.AggregationResult, error) {
	opts = opts.withDefaults()
	if !opts.Dimension.Valid() {
		return types.AggregationResult{}, fmt.Errorf("unknown dimension %q", opts.Dimension)
	}
	if w == nil {
		w = io.Discard
	}

	if upstreamCount == 0 && len(papers) == 0 {
		return types.AggregationResult{Outcome: types.OutcomeNoResults}, nil
	}

	entries, err := BuildIndex(ctx, papers, opts.Workers)
	if err != nil {
		return types.AggregationResult{}, fmt.Errorf("building cross-index: %w", err)
	}
	fmt.Fprintf(w, "indexed %d papers into %d entries\n", len(papers), len(entries))

	groups := RankGroups(entries, opts.Dimension, opts.TopCoOccur)
	if len(groups) == 0 {
		if droppedByFilter > 0 {
			return types.AggregationResult{Outcome: types.OutcomeFullyFiltered}, nil
		}
		return types.AggregationResult{Outcome: types.OutcomeNoResults}, nil
	}
	if len(groups) > opts.TopGroups {
		groups = groups[:opts.TopGroups]
	}

	bundles, err := assembleAll(ctx, groups, opts, entries, papers)
	if err != nil {
		return types.AggregationResult{}, err
	}
	return types.AggregationResult{Outcome: types.OutcomeOK, Bundles: bundles}, nil
}

// assembleAll matches and assembles the ranked groups across a bounded
// worker pool. Each group writes its bundle to its own slot, so the
// output order is the ranking order regardless of scheduling.
func assembleAll(ctx context.Context, groups []types.Group, opts Options, entries []types.PAAEntry, papers []types.Paper) ([]types.ResultBundle, error) {
	bundles := make([]types.ResultBundle, len(groups))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexes {
				details := MatchPapers(groups[idx], opts.Dimension, entries, papers)
				bundles[idx] = AssembleBundle(groups[idx], details, opts.Dimension)
			}
		}()
	}

feed:
	for i := range groups {
		select {
		case <-ctx.Done():
			break feed
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("assembling bundles: %w", err)
	}
	return bundles, nil
}
