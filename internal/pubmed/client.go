// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/pubmed-atlas/internal/httputil"
	"github.com/pdiddy/pubmed-atlas/pkg/types"
)

// EUtils endpoints. Variables so tests can point at an httptest server.
var (
	esearchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	efetchBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
)

// TooLargeError reports a query whose upstream result count exceeds the
// configured cap. No article XML is fetched when this is returned.
type TooLargeError struct {
	Limit  int
	Actual int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("query matched %d results, limit is %d; narrow the query", e.Actual, e.Limit)
}

// Client talks to the NCBI EUtils esearch and efetch endpoints.
type Client struct {
	httpClient *http.Client
	cfg        types.FetchConfig
}

// NewClient builds a Client, applying defaults for unset config fields.
func NewClient(cfg types.FetchConfig) *Client {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = types.DefaultMaxResults
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = types.DefaultChunkSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}
}

// SearchHandle identifies a server-side result set on the NCBI history
// server, used by subsequent efetch pages.
type SearchHandle struct {
	Count    int
	QueryKey string
	WebEnv   string
}

type esearchResult struct {
	Count    int    `xml:"Count"`
	QueryKey string `xml:"QueryKey"`
	WebEnv   string `xml:"WebEnv"`
}

// Search runs esearch with history enabled and returns a handle for
// paged fetching. fromYear, when positive, restricts results to entries
// added since that year via an Entrez date window. If the result count
// exceeds the configured cap, Search returns a *TooLargeError.
func (c *Client) Search(ctx context.Context, query string, fromYear int) (SearchHandle, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("term", query)
	params.Set("usehistory", "y")
	if fromYear > 0 {
		days := (time.Now().Year() - fromYear) * 365
		if days < 0 {
			days = 0
		}
		params.Set("datetype", "edat")
		params.Set("reldate", fmt.Sprintf("%d", days))
	}
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}

	body, err := c.get(ctx, esearchBase, params, nil)
	if err != nil {
		return SearchHandle{}, fmt.Errorf("esearch: %w", err)
	}

	var result esearchResult
	if err := xml.Unmarshal(body, &result); err != nil {
		return SearchHandle{}, fmt.Errorf("parsing esearch response: %w", err)
	}

	if result.Count > c.cfg.MaxResults {
		return SearchHandle{}, &TooLargeError{Limit: c.cfg.MaxResults, Actual: result.Count}
	}

	return SearchHandle{Count: result.Count, QueryKey: result.QueryKey, WebEnv: result.WebEnv}, nil
}

// Fetch downloads all article XML for a search handle in ChunkSize
// pages. It returns one raw efetch document per page, in page order.
// Progress and retry notices go to w.
func (c *Client) Fetch(ctx context.Context, handle SearchHandle, w io.Writer) ([][]byte, error) {
	if w == nil {
		w = io.Discard
	}

	var chunks [][]byte
	for start := 0; start < handle.Count; start += c.cfg.ChunkSize {
		fmt.Fprintf(w, "fetching records %d-%d of %d\n", start+1, min(start+c.cfg.ChunkSize, handle.Count), handle.Count)

		params := url.Values{}
		params.Set("db", "pubmed")
		params.Set("query_key", handle.QueryKey)
		params.Set("WebEnv", handle.WebEnv)
		params.Set("rettype", "abstract")
		params.Set("retmode", "xml")
		params.Set("retmax", fmt.Sprintf("%d", c.cfg.ChunkSize))
		params.Set("retstart", fmt.Sprintf("%d", start))
		if c.cfg.APIKey != "" {
			params.Set("api_key", c.cfg.APIKey)
		}

		body, err := c.get(ctx, efetchBase, params, w)
		if err != nil {
			return nil, fmt.Errorf("efetch at offset %d: %w", start, err)
		}
		chunks = append(chunks, body)
	}
	return chunks, nil
}

// FetchAll runs the full acquisition stage: esearch, the size check, and
// paged efetch. It returns the raw XML chunks and the upstream result
// count.
func (c *Client) FetchAll(ctx context.Context, query string, fromYear int, w io.Writer) ([][]byte, int, error) {
	handle, err := c.Search(ctx, query, fromYear)
	if err != nil {
		return nil, 0, err
	}
	if handle.Count == 0 {
		return nil, 0, nil
	}

	chunks, err := c.Fetch(ctx, handle, w)
	if err != nil {
		return nil, handle.Count, err
	}
	return chunks, handle.Count, nil
}

func (c *Client) get(ctx context.Context, base string, params url.Values, w io.Writer) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.cfg.MaxRetries, w)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}
