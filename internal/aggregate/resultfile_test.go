// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"path/filepath"
	"testing"

	"github.com/pdiddy/pubmed-atlas/pkg/types"
)

func TestResultFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	original := ResultFile{
		Query: ResultFileQuery{
			Text:      "crispr",
			FromYear:  2019,
			Locations: []string{"boston"},
		},
		Params: ResultFileParams{
			Dimension:  ByAuthor,
			TopGroups:  25,
			MaxResults: 15000,
		},
		Result: types.AggregationResult{
			Outcome: types.OutcomeOK,
			Bundles: []types.ResultBundle{
				{
					Group: types.Group{Key: "Chen, Wei", TotalPapers: 3},
					Papers: []types.PaperDetail{
						{Key: "Chen, Wei_1", PMID: "1", Title: "alpha"},
					},
					KeywordHistogram: []types.CountEntry{{Value: "Proteins", Count: 2}},
				},
			},
		},
		Summary: ResultFileSummary{UpstreamCount: 3, ParsedPapers: 3},
	}

	if err := WriteResultFile(path, original); err != nil {
		t.Fatalf("WriteResultFile() error = %v", err)
	}

	loaded, err := ReadResultFile(path)
	if err != nil {
		t.Fatalf("ReadResultFile() error = %v", err)
	}

	if loaded.Query.Text != "crispr" || loaded.Query.FromYear != 2019 {
		t.Errorf("Query = %+v", loaded.Query)
	}
	if loaded.Params.Dimension != ByAuthor {
		t.Errorf("Dimension = %q", loaded.Params.Dimension)
	}
	if !loaded.Result.OK() || len(loaded.Result.Bundles) != 1 {
		t.Fatalf("Result = %+v", loaded.Result)
	}
	if g := loaded.Result.Bundles[0].Group; g.Key != "Chen, Wei" || g.TotalPapers != 3 {
		t.Errorf("Group = %+v", g)
	}
	if loaded.Summary.Timestamp.IsZero() {
		t.Error("Timestamp not set on write")
	}
}

func TestReadResultFileMissing(t *testing.T) {
	if _, err := ReadResultFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
