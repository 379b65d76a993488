// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// CountEntry is one (value, count) pair of a ranked histogram. Histograms
// are ordered by count descending, ties broken by first appearance.
type CountEntry struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// Group is one ranking unit, keyed by an author display name or a
// canonical affiliation string.
type Group struct {
	// Key is the author display name or canonical affiliation.
	Key string `json:"key" yaml:"key"`

	// TotalPapers counts distinct PMIDs among the group's cross-index
	// entries. An author listed on one paper under two affiliations
	// counts that paper once.
	TotalPapers int `json:"total_papers" yaml:"total_papers"`

	// TopLocations ranks resolved locations co-occurring with the group.
	TopLocations []CountEntry `json:"top_locations,omitempty" yaml:"top_locations,omitempty"`

	// TopAffiliations ranks co-occurring raw affiliations (author groups).
	TopAffiliations []CountEntry `json:"top_affiliations,omitempty" yaml:"top_affiliations,omitempty"`

	// TopAuthors ranks co-occurring author keys (affiliation groups).
	TopAuthors []CountEntry `json:"top_authors,omitempty" yaml:"top_authors,omitempty"`

	// CoOccurByPaper re-buckets the complementary-dimension counts by
	// PMID, restricted to the values kept in TopAffiliations/TopAuthors,
	// to support per-paper detail joins.
	CoOccurByPaper map[string]map[string]int `json:"co_occur_by_paper,omitempty" yaml:"co_occur_by_paper,omitempty"`

	// RawVariantCounts maps PMID to the raw affiliation spellings that
	// collapsed into this group and their occurrence counts. Populated
	// only when grouping by affiliation.
	RawVariantCounts map[string]map[string]int `json:"raw_variant_counts,omitempty" yaml:"raw_variant_counts,omitempty"`
}

// PaperDetail is one matched paper rendered flat for display. Key is
// "{join key}_{pmid}" so details stay unique across groups sharing a paper.
type PaperDetail struct {
	Key     string `json:"key" yaml:"key"`
	JoinKey string `json:"join_key" yaml:"join_key"`

	// RawKey is one literal raw value that produced the match: the author
	// key itself, or a raw affiliation spelling for affiliation groups.
	RawKey string `json:"raw_key" yaml:"raw_key"`

	Title   string `json:"title" yaml:"title"`
	PubDate string `json:"pubdate,omitempty" yaml:"pubdate,omitempty"`
	Link    string `json:"link" yaml:"link"`
	PMID    string `json:"pmid" yaml:"pmid"`

	// PubTypes is the comma-joined publication-type display string.
	// Individual type names may themselves contain commas, so counting
	// uses PubTypeList, never this string.
	PubTypes string `json:"pubtypes,omitempty" yaml:"pubtypes,omitempty"`

	// PubTypeList holds the publication types as a list, in source order.
	PubTypeList []string `json:"pubtype_list,omitempty" yaml:"pubtype_list,omitempty"`

	// AllAuthors comma-joins every author on the paper, not just the
	// matched one, in source order.
	AllAuthors string `json:"all_authors" yaml:"all_authors"`

	// MeshKeywords lists the MeSH descriptor names.
	MeshKeywords []string `json:"mesh_keywords,omitempty" yaml:"mesh_keywords,omitempty"`

	// OtherIDs is the comma-joined alternate identifier values.
	OtherIDs string `json:"other_ids,omitempty" yaml:"other_ids,omitempty"`
}

// PaperLink is one distinct (pmid, title, link) triple for compact display.
type PaperLink struct {
	PMID  string `json:"pmid" yaml:"pmid"`
	Title string `json:"title" yaml:"title"`
	Link  string `json:"link" yaml:"link"`
}

// ResultBundle is the fully assembled per-group payload.
type ResultBundle struct {
	Group Group `json:"group" yaml:"group"`

	// Papers holds the matched paper details, deduplicated by PMID
	// (first occurrence wins).
	Papers []PaperDetail `json:"papers" yaml:"papers"`

	// PaperLinks holds the distinct (pmid, title, link) triples.
	PaperLinks []PaperLink `json:"paper_links" yaml:"paper_links"`

	// KeywordHistogram counts MeSH keyword occurrences across the
	// deduplicated papers, sorted by count descending.
	KeywordHistogram []CountEntry `json:"keyword_histogram" yaml:"keyword_histogram"`

	// PubTypeHistogram counts publication-type occurrences across the
	// deduplicated papers, sorted by count descending.
	PubTypeHistogram []CountEntry `json:"pubtype_histogram" yaml:"pubtype_histogram"`

	// LocationHistogram re-resolves every recorded raw affiliation
	// variant. Populated only when grouping by affiliation.
	LocationHistogram []CountEntry `json:"location_histogram,omitempty" yaml:"location_histogram,omitempty"`
}

// Outcome tags an AggregationResult. Only OutcomeOK carries bundles.
type Outcome string

const (
	// OutcomeOK means the aggregation produced ranked bundles.
	OutcomeOK Outcome = "ok"

	// OutcomeNoResults means the upstream query returned zero records.
	OutcomeNoResults Outcome = "no_results"

	// OutcomeFullyFiltered means records existed upstream but the
	// location/affiliation filters eliminated every candidate group.
	OutcomeFullyFiltered Outcome = "fully_filtered"

	// OutcomeTooLarge means the upstream result count exceeded the
	// configured maximum and nothing was fetched or parsed.
	OutcomeTooLarge Outcome = "query_too_large"
)

// AggregationResult is the tagged outcome of one aggregation call.
// The bundle order is the ranking order and is deterministic for a given
// input regardless of worker count.
type AggregationResult struct {
	Outcome Outcome        `json:"outcome" yaml:"outcome"`
	Bundles []ResultBundle `json:"bundles,omitempty" yaml:"bundles,omitempty"`

	// Limit and Actual are set for OutcomeTooLarge: the configured
	// maximum and the upstream result count.
	Limit  int `json:"limit,omitempty" yaml:"limit,omitempty"`
	Actual int `json:"actual,omitempty" yaml:"actual,omitempty"`
}

// OK reports whether the result carries bundles.
func (r AggregationResult) OK() bool { return r.Outcome == OutcomeOK }

// TooLargeResult builds the query_too_large outcome.
func TooLargeResult(limit, actual int) AggregationResult {
	return AggregationResult{Outcome: OutcomeTooLarge, Limit: limit, Actual: actual}
}
