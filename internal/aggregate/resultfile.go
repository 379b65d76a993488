// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubmed-atlas/pkg/types"
)

// ResultFile is the on-disk representation of one aggregation run: the
// query that produced it, the run parameters, and the full result. A
// saved run can be reloaded and re-rendered without hitting EUtils again.
type ResultFile struct {
	Query   ResultFileQuery         `yaml:"query"`
	Params  ResultFileParams        `yaml:"params"`
	Result  types.AggregationResult `yaml:"result"`
	Summary ResultFileSummary       `yaml:"summary"`
}

// ResultFileQuery stores the user-facing query inputs.
type ResultFileQuery struct {
	Text         string   `yaml:"text"`
	FromYear     int      `yaml:"from_year,omitempty"`
	Locations    []string `yaml:"locations,omitempty"`
	Affiliations []string `yaml:"affiliations,omitempty"`
}

// ResultFileParams stores the aggregation parameters that produced the result.
type ResultFileParams struct {
	Dimension  Dimension `yaml:"dimension"`
	TopGroups  int       `yaml:"top_groups"`
	MaxResults int       `yaml:"max_results"`
}

// ResultFileSummary stores run statistics and a timestamp.
type ResultFileSummary struct {
	UpstreamCount   int       `yaml:"upstream_count"`
	ParsedPapers    int       `yaml:"parsed_papers"`
	DroppedByFilter int       `yaml:"dropped_by_filter"`
	Timestamp       time.Time `yaml:"timestamp"`
}

// WriteResultFile saves an aggregation run to a YAML file.
func WriteResultFile(path string, rf ResultFile) error {
	if rf.Summary.Timestamp.IsZero() {
		rf.Summary.Timestamp = time.Now()
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved aggregation run from disk.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}
