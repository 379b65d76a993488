package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "pubmed-atlas/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the PubMed EUtils fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults caps the upstream result count. Queries reporting more
	// results are rejected before any article XML is fetched (default 15000).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// ChunkSize is the efetch page size (default 5000).
	ChunkSize int `json:"chunk_size" yaml:"chunk_size"`

	// APIKey is an optional NCBI API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the retry budget for rate-limited requests (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// DefaultMaxResults is used when FetchConfig.MaxResults is unset.
const DefaultMaxResults = 15000

// DefaultChunkSize is used when FetchConfig.ChunkSize is unset.
const DefaultChunkSize = 5000

// AggregateConfig holds settings for the aggregation stage.
type AggregateConfig struct {
	// TopGroups is the number of ranked groups to assemble bundles for
	// (default 25).
	TopGroups int `json:"top_groups" yaml:"top_groups"`

	// TopCoOccur is the co-occurrence breadth per group: the secondary
	// aggregates keep the 3×TopCoOccur most frequent values (default 5).
	TopCoOccur int `json:"top_co_occur" yaml:"top_co_occur"`

	// Workers bounds the per-group assembly worker pool (default 4).
	Workers int `json:"workers" yaml:"workers"`
}

// HistoryConfig holds settings for the query-history store.
type HistoryConfig struct {
	// Path is the SQLite database file (default "atlas/history.db").
	Path string `json:"path" yaml:"path"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Fetch     FetchConfig     `json:"fetch" yaml:"fetch"`
	Aggregate AggregateConfig `json:"aggregate" yaml:"aggregate"`
	History   HistoryConfig   `json:"history" yaml:"history"`
}
