// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/pdiddy/pubmed-atlas/pkg/types"
)

const esearchResponse = `<?xml version="1.0" ?>
<eSearchResult>
  <Count>%d</Count>
  <RetMax>20</RetMax>
  <RetStart>0</RetStart>
  <QueryKey>1</QueryKey>
  <WebEnv>MCID_abc123</WebEnv>
</eSearchResult>`

// fakeEUtils points the package endpoint variables at a test server and
// restores them on cleanup.
func fakeEUtils(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	oldSearch, oldFetch := esearchBase, efetchBase
	esearchBase = ts.URL + "/esearch.fcgi"
	efetchBase = ts.URL + "/efetch.fcgi"
	t.Cleanup(func() {
		esearchBase, efetchBase = oldSearch, oldFetch
		ts.Close()
	})
	return ts
}

func TestSearch(t *testing.T) {
	var gotQuery, gotHistory, gotDB string
	fakeEUtils(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("term")
		gotHistory = r.URL.Query().Get("usehistory")
		gotDB = r.URL.Query().Get("db")
		fmt.Fprintf(w, esearchResponse, 42)
	}))

	client := NewClient(types.FetchConfig{})
	handle, err := client.Search(context.Background(), "crispr", 0)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if handle.Count != 42 {
		t.Errorf("Count = %d, want 42", handle.Count)
	}
	if handle.QueryKey != "1" || handle.WebEnv != "MCID_abc123" {
		t.Errorf("handle = %+v", handle)
	}
	if gotQuery != "crispr" || gotDB != "pubmed" || gotHistory != "y" {
		t.Errorf("query params: term=%q db=%q usehistory=%q", gotQuery, gotDB, gotHistory)
	}
}

func TestSearchFromYearSetsDateWindow(t *testing.T) {
	var gotDateType, gotRelDate string
	fakeEUtils(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDateType = r.URL.Query().Get("datetype")
		gotRelDate = r.URL.Query().Get("reldate")
		fmt.Fprintf(w, esearchResponse, 1)
	}))

	client := NewClient(types.FetchConfig{})
	if _, err := client.Search(context.Background(), "crispr", 2019); err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if gotDateType != "edat" {
		t.Errorf("datetype = %q, want edat", gotDateType)
	}
	if gotRelDate == "" || gotRelDate == "0" {
		t.Errorf("reldate = %q, want a positive day count", gotRelDate)
	}
}

func TestSearchTooLarge(t *testing.T) {
	fakeEUtils(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, esearchResponse, 20000)
	}))

	client := NewClient(types.FetchConfig{MaxResults: 15000})
	_, err := client.Search(context.Background(), "cancer", 0)

	var tooLarge *TooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("Search() error = %v, want *TooLargeError", err)
	}
	if tooLarge.Actual != 20000 || tooLarge.Limit != 15000 {
		t.Errorf("TooLargeError = %+v", tooLarge)
	}
}

func TestFetchAllSkipsFetchWhenTooLarge(t *testing.T) {
	var efetchCalls int32
	fakeEUtils(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/efetch.fcgi" {
			atomic.AddInt32(&efetchCalls, 1)
			fmt.Fprint(w, "<PubmedArticleSet></PubmedArticleSet>")
			return
		}
		fmt.Fprintf(w, esearchResponse, 20000)
	}))

	client := NewClient(types.FetchConfig{MaxResults: 100})
	_, _, err := client.FetchAll(context.Background(), "cancer", 0, nil)

	var tooLarge *TooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("FetchAll() error = %v, want *TooLargeError", err)
	}
	if n := atomic.LoadInt32(&efetchCalls); n != 0 {
		t.Errorf("efetch called %d times for an oversized query, want 0", n)
	}
}

func TestFetchAllPages(t *testing.T) {
	var starts []string
	fakeEUtils(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/efetch.fcgi" {
			q := r.URL.Query()
			starts = append(starts, q.Get("retstart"))
			if q.Get("retmax") != "5" {
				t.Errorf("retmax = %q, want 5", q.Get("retmax"))
			}
			if q.Get("rettype") != "abstract" || q.Get("retmode") != "xml" {
				t.Errorf("rettype=%q retmode=%q", q.Get("rettype"), q.Get("retmode"))
			}
			if q.Get("WebEnv") != "MCID_abc123" || q.Get("query_key") != "1" {
				t.Errorf("history params: WebEnv=%q query_key=%q", q.Get("WebEnv"), q.Get("query_key"))
			}
			fmt.Fprint(w, "<PubmedArticleSet></PubmedArticleSet>")
			return
		}
		fmt.Fprintf(w, esearchResponse, 12)
	}))

	client := NewClient(types.FetchConfig{MaxResults: 100, ChunkSize: 5})
	chunks, count, err := client.FetchAll(context.Background(), "crispr", 0, nil)
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	if count != 12 {
		t.Errorf("count = %d, want 12", count)
	}
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	want := []string{"0", "5", "10"}
	for i, s := range starts {
		if s != want[i] {
			t.Errorf("retstart[%d] = %q, want %q", i, s, want[i])
		}
	}
}

func TestFetchAllZeroResults(t *testing.T) {
	var efetchCalls int32
	fakeEUtils(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/efetch.fcgi" {
			atomic.AddInt32(&efetchCalls, 1)
			return
		}
		fmt.Fprintf(w, esearchResponse, 0)
	}))

	client := NewClient(types.FetchConfig{})
	chunks, count, err := client.FetchAll(context.Background(), "zzzznothing", 0, nil)
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if count != 0 || chunks != nil {
		t.Errorf("got count=%d chunks=%v, want zero results", count, chunks)
	}
	if atomic.LoadInt32(&efetchCalls) != 0 {
		t.Error("efetch called for a zero-result query")
	}
}

func TestFetchAllSendsAPIKey(t *testing.T) {
	var gotKey string
	fakeEUtils(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("api_key")
		fmt.Fprintf(w, esearchResponse, 0)
	}))

	client := NewClient(types.FetchConfig{APIKey: "secret-key"})
	if _, _, err := client.FetchAll(context.Background(), "crispr", 0, nil); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if gotKey != "secret-key" {
		t.Errorf("api_key = %q, want secret-key", gotKey)
	}
}
