// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed fetches and parses PubMed article metadata: an EUtils
// client for esearch/efetch and a record parser that decodes efetch XML
// into typed Paper records with early location/affiliation filtering.
package pubmed

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/pubmed-atlas/internal/geo"
	"github.com/pdiddy/pubmed-atlas/pkg/types"
)

const linkPrefix = "https://www.ncbi.nlm.nih.gov/pubmed/"

// defaultAbstractLabel is applied to unlabeled abstract sections.
const defaultAbstractLabel = "Abstract"

// Filters holds the user-supplied early filters. Terms are lowercase
// substrings. Affiliation terms match raw affiliation text; location
// terms match the resolved location of each affiliation.
type Filters struct {
	Locations    []string
	Affiliations []string
}

// Active reports whether any filter list is non-empty.
func (f Filters) Active() bool {
	return len(f.Locations) > 0 || len(f.Affiliations) > 0
}

// ParseOutput is the record parser result. DroppedByFilter counts
// articles excluded by the early filters; Skipped counts malformed
// article elements. Both let callers tell "no results" from "results
// fully filtered away".
type ParseOutput struct {
	Papers          []types.Paper
	DroppedByFilter int
	Skipped         int
}

// efetch XML structures.

type articleSet struct {
	Articles []xmlArticle `xml:"PubmedArticle"`
}

type xmlArticle struct {
	Citation xmlCitation `xml:"MedlineCitation"`
	Data     xmlData     `xml:"PubmedData"`
}

type xmlCitation struct {
	PMID         string           `xml:"PMID"`
	Article      xmlArticleBody   `xml:"Article"`
	MeshHeadings []xmlMeshHeading `xml:"MeshHeadingList>MeshHeading"`
	Keywords     []string         `xml:"KeywordList>Keyword"`
}

type xmlArticleBody struct {
	Title            innerText         `xml:"ArticleTitle"`
	Journal          xmlJournal        `xml:"Journal"`
	AbstractSections []xmlAbstractText `xml:"Abstract>AbstractText"`
	Authors          []xmlAuthor       `xml:"AuthorList>Author"`
	PublicationTypes []string          `xml:"PublicationTypeList>PublicationType"`
}

type xmlJournal struct {
	Title     string  `xml:"Title"`
	ISOAbbrev string  `xml:"ISOAbbreviation"`
	ISSN      xmlISSN `xml:"ISSN"`
}

type xmlISSN struct {
	Type  string `xml:"IssnType,attr"`
	Value string `xml:",chardata"`
}

type xmlAbstractText struct {
	Label string `xml:"Label,attr"`
	Text  string `xml:",chardata"`
}

type xmlAuthor struct {
	LastName       string   `xml:"LastName"`
	ForeName       string   `xml:"ForeName"`
	Initials       string   `xml:"Initials"`
	CollectiveName string   `xml:"CollectiveName"`
	Affiliations   []string `xml:"AffiliationInfo>Affiliation"`
}

type xmlMeshHeading struct {
	Descriptor string   `xml:"DescriptorName"`
	Qualifiers []string `xml:"QualifierName"`
}

type xmlData struct {
	History []xmlPubDate   `xml:"History>PubMedPubDate"`
	IDs     []xmlArticleID `xml:"ArticleIdList>ArticleId"`
}

type xmlPubDate struct {
	Status string `xml:"PubStatus,attr"`
	Year   string `xml:"Year"`
}

type xmlArticleID struct {
	Type  string `xml:"IdType,attr"`
	Value string `xml:",chardata"`
}

// innerText flattens a mixed-content element (titles may embed italics
// or sub/superscript markup) into whitespace-normalized text.
type innerText struct {
	Value string
}

func (t *innerText) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch tk := tok.(type) {
		case xml.CharData:
			b.Write(tk)
			b.WriteByte(' ')
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	t.Value = strings.Join(strings.Fields(b.String()), " ")
	return nil
}

// ParseBatch parses a sequence of efetch XML documents, applying the
// early filters to each. Warnings for malformed articles go to w.
func ParseBatch(ctx context.Context, chunks [][]byte, filters Filters, w io.Writer) (ParseOutput, error) {
	var out ParseOutput
	for _, chunk := range chunks {
		chunkOut, err := Parse(ctx, chunk, filters, w)
		if err != nil {
			return out, err
		}
		out.Papers = append(out.Papers, chunkOut.Papers...)
		out.DroppedByFilter += chunkOut.DroppedByFilter
		out.Skipped += chunkOut.Skipped
	}
	return out, nil
}

// Parse decodes one efetch XML document into Paper records.
//
// Filtering is article-level: with a non-empty affiliation filter an
// article survives if any affiliation of any author matches any term;
// the location filter works the same against resolved locations. A kept
// article keeps all its authors, matching or not. Malformed article
// elements are skipped with a warning and never abort the batch.
func Parse(ctx context.Context, data []byte, filters Filters, w io.Writer) (ParseOutput, error) {
	if w == nil {
		w = io.Discard
	}

	var set articleSet
	if err := xml.Unmarshal(data, &set); err != nil {
		return ParseOutput{}, fmt.Errorf("parsing efetch response: %w", err)
	}

	var out ParseOutput
	for _, art := range set.Articles {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		default:
		}

		if art.Citation.PMID == "" {
			fmt.Fprintf(w, "warning: skipping article without PMID (title %q)\n", art.Citation.Article.Title.Value)
			out.Skipped++
			continue
		}

		authors, allAffils := convertAuthors(art.Citation.Article.Authors)

		if !passesFilters(allAffils, filters) {
			out.DroppedByFilter++
			continue
		}

		out.Papers = append(out.Papers, convertArticle(art, authors))
	}
	return out, nil
}

// convertAuthors maps author elements to typed Authors and collects every
// affiliation string across the article for filtering.
func convertAuthors(xmlAuthors []xmlAuthor) ([]types.Author, []string) {
	var authors []types.Author
	var allAffils []string

	for _, xa := range xmlAuthors {
		name := types.AuthorErrorName
		switch {
		case xa.CollectiveName != "":
			name = xa.CollectiveName
		case xa.ForeName != "" && xa.Initials != "" && xa.LastName != "":
			name = xa.LastName + ", " + xa.ForeName
		}

		allAffils = append(allAffils, xa.Affiliations...)
		authors = append(authors, types.Author{
			DisplayName:  name,
			Affiliations: xa.Affiliations,
		})
	}
	return authors, allAffils
}

// passesFilters applies the article-level early filters. An article with
// no affiliations fails any active filter.
func passesFilters(affils []string, filters Filters) bool {
	if len(filters.Affiliations) > 0 && !anyContains(affils, filters.Affiliations, func(s string) string { return s }) {
		return false
	}
	if len(filters.Locations) > 0 && !anyContains(affils, filters.Locations, geo.Resolve) {
		return false
	}
	return true
}

// anyContains reports whether any transformed value case-insensitively
// contains any filter term.
func anyContains(values, terms []string, transform func(string) string) bool {
	for _, v := range values {
		haystack := strings.ToLower(transform(v))
		for _, term := range terms {
			if term != "" && strings.Contains(haystack, term) {
				return true
			}
		}
	}
	return false
}

func convertArticle(art xmlArticle, authors []types.Author) types.Paper {
	p := types.Paper{
		PMID:             art.Citation.PMID,
		Title:            art.Citation.Article.Title.Value,
		Link:             linkPrefix + art.Citation.PMID,
		PublicationTypes: art.Citation.Article.PublicationTypes,
		Keywords:         art.Citation.Keywords,
		Authors:          authors,
	}

	// Year the article entered PubMed; absent when no matching history entry.
	for _, pd := range art.Data.History {
		if pd.Status == "pubmed" {
			p.PubDate = pd.Year
		}
	}

	j := art.Citation.Article.Journal
	p.Journal = types.Journal{
		Title:     j.Title,
		ISOAbbrev: j.ISOAbbrev,
		ISSN:      j.ISSN.Value,
		ISSNType:  j.ISSN.Type,
	}

	for _, ab := range art.Citation.Article.AbstractSections {
		label := ab.Label
		if label == "" {
			label = defaultAbstractLabel
		}
		p.AbstractSections = append(p.AbstractSections, types.AbstractSection{
			Label: label,
			Text:  strings.TrimSpace(ab.Text),
		})
	}

	for _, mh := range art.Citation.MeshHeadings {
		p.MeshHeadings = append(p.MeshHeadings, types.MeshHeading{
			Descriptor: mh.Descriptor,
			Qualifiers: mh.Qualifiers,
		})
	}

	// Alternate identifiers in a fixed order.
	for _, wanted := range []string{"pmc", "doi"} {
		for _, id := range art.Data.IDs {
			if id.Type == wanted && id.Value != "" {
				p.OtherIDs = append(p.OtherIDs, types.ArticleID{Type: id.Type, Value: id.Value})
			}
		}
	}

	return p
}
