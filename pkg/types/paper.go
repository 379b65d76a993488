// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pubmed-atlas pipeline:
// parsed bibliographic records, the flattened paper-author-affiliation
// cross-index, ranked groups, and assembled result bundles.
package types

// AuthorErrorName is the display name assigned when an author element
// carries neither a parseable (forename, initials, lastname) triple nor a
// collective name. Downstream stages treat it as an ordinary author key.
const AuthorErrorName = "error"

// Author is one entry of a paper's author list.
type Author struct {
	// DisplayName is "lastname, forename", a collective/group name, or
	// AuthorErrorName when no name could be extracted.
	DisplayName string `json:"display_name" yaml:"display_name"`

	// Affiliations holds the raw affiliation strings in source order.
	// May be empty; such authors contribute no cross-index entries.
	Affiliations []string `json:"affiliations,omitempty" yaml:"affiliations,omitempty"`
}

// MeshHeading is one MeSH descriptor with its qualifier terms, in source order.
type MeshHeading struct {
	Descriptor string   `json:"descriptor" yaml:"descriptor"`
	Qualifiers []string `json:"qualifiers,omitempty" yaml:"qualifiers,omitempty"`
}

// ArticleID is an alternate identifier attached to an article (doi, pmc).
type ArticleID struct {
	Type  string `json:"type" yaml:"type"`
	Value string `json:"value" yaml:"value"`
}

// AbstractSection is one labeled section of a structured abstract.
type AbstractSection struct {
	Label string `json:"label" yaml:"label"`
	Text  string `json:"text" yaml:"text"`
}

// Journal holds journal metadata for an article. ISSN and ISSNType are
// empty when the source record carries no ISSN.
type Journal struct {
	Title     string `json:"title" yaml:"title"`
	ISOAbbrev string `json:"iso_abbrev" yaml:"iso_abbrev"`
	ISSN      string `json:"issn,omitempty" yaml:"issn,omitempty"`
	ISSNType  string `json:"issn_type,omitempty" yaml:"issn_type,omitempty"`
}

// Paper is one bibliographic record parsed from a PubMed efetch response.
// PMID is unique within a query result set. Authors preserve source order;
// the "all authors" display string depends on it.
type Paper struct {
	// PMID is the PubMed identifier.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title with embedded markup flattened to text.
	Title string `json:"title" yaml:"title"`

	// PubDate is the year the article entered PubMed, or "" when absent.
	PubDate string `json:"pubdate,omitempty" yaml:"pubdate,omitempty"`

	// Link is the canonical PubMed URL for the article.
	Link string `json:"link" yaml:"link"`

	// PublicationTypes lists publication-type names in source order.
	PublicationTypes []string `json:"publication_types,omitempty" yaml:"publication_types,omitempty"`

	// MeshHeadings lists MeSH descriptor/qualifier pairs in source order.
	MeshHeadings []MeshHeading `json:"mesh_headings,omitempty" yaml:"mesh_headings,omitempty"`

	// Keywords lists free-form article keywords in source order.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// Authors lists the article authors in source order.
	Authors []Author `json:"authors,omitempty" yaml:"authors,omitempty"`

	// OtherIDs holds alternate identifiers (doi, pmc) in a fixed order.
	OtherIDs []ArticleID `json:"other_ids,omitempty" yaml:"other_ids,omitempty"`

	// AbstractSections holds the structured abstract. Unlabeled sections
	// get the default label "Abstract".
	AbstractSections []AbstractSection `json:"abstract_sections,omitempty" yaml:"abstract_sections,omitempty"`

	// Journal is the journal metadata, zero-valued when absent.
	Journal Journal `json:"journal,omitempty" yaml:"journal,omitempty"`
}

// KeywordNames returns the MeSH descriptor names in source order.
func (p Paper) KeywordNames() []string {
	names := make([]string, 0, len(p.MeshHeadings))
	for _, mh := range p.MeshHeadings {
		names = append(names, mh.Descriptor)
	}
	return names
}

// PAAEntry is one flattened (paper, author, affiliation) triple, the unit
// of the cross-index. A paper expands to one entry per affiliation of
// each author; authors without affiliations contribute none.
type PAAEntry struct {
	PMID                 string `json:"pmid" yaml:"pmid"`
	AuthorKey            string `json:"author_key" yaml:"author_key"`
	RawAffiliation       string `json:"raw_affiliation" yaml:"raw_affiliation"`
	CanonicalAffiliation string `json:"canonical_affiliation" yaml:"canonical_affiliation"`
	Location             string `json:"location,omitempty" yaml:"location,omitempty"`

	// Title is denormalized from the paper for downstream convenience.
	Title string `json:"title" yaml:"title"`
}
