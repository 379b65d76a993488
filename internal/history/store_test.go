// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubmed-atlas/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.HistoryConfig{Path: filepath.Join(t.TempDir(), "history.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Record(ctx, Entry{
		QueryText:     "crispr gene editing",
		Dimension:     "author",
		FromYear:      2019,
		Locations:     []string{"boston", "cambridge"},
		Outcome:       types.OutcomeOK,
		GroupCount:    25,
		UpstreamCount: 1200,
	})
	require.NoError(t, err)
	assert.Positive(t, first)

	_, err = s.Record(ctx, Entry{
		QueryText: "protein folding",
		Dimension: "affiliation",
		Outcome:   types.OutcomeNoResults,
	})
	require.NoError(t, err)

	entries, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "protein folding", entries[0].QueryText)
	assert.Equal(t, types.OutcomeNoResults, entries[0].Outcome)

	assert.Equal(t, "crispr gene editing", entries[1].QueryText)
	assert.Equal(t, []string{"boston", "cambridge"}, entries[1].Locations)
	assert.Equal(t, 1200, entries[1].UpstreamCount)
	assert.False(t, entries[1].RanAt.IsZero())
}

func TestListLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.Record(ctx, Entry{QueryText: "q", Dimension: "author", Outcome: types.OutcomeOK})
		require.NoError(t, err)
	}

	entries, err := s.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestSearch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	queries := []string{
		"crispr gene editing",
		"protein folding dynamics",
		"crispr off-target effects",
	}
	for _, q := range queries {
		_, err := s.Record(ctx, Entry{QueryText: q, Dimension: "author", Outcome: types.OutcomeOK})
		require.NoError(t, err)
	}

	entries, err := s.Search(ctx, "crispr", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "crispr off-target effects", entries[0].QueryText)

	entries, err = s.Search(ctx, "folding", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "protein folding dynamics", entries[0].QueryText)
}

func TestSearchNoMatches(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Record(context.Background(), Entry{QueryText: "crispr", Dimension: "author", Outcome: types.OutcomeOK})
	require.NoError(t, err)

	entries, err := s.Search(context.Background(), "nanotubes", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStoreReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := NewStore(types.HistoryConfig{Path: path})
	require.NoError(t, err)
	_, err = s.Record(context.Background(), Entry{QueryText: "persisted", Dimension: "author", Outcome: types.OutcomeOK})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := NewStore(types.HistoryConfig{Path: path})
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "persisted", entries[0].QueryText)
}
