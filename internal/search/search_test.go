package search

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookcatalog/internal/domain"
)

// setupTestIndex creates an index holding the seed books plus Dune.
func setupTestIndex(t *testing.T) *BookIndex {
	t.Helper()

	index, err := NewBookIndex(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	books := append(domain.SeedBooks(), domain.Book{ID: "3", Title: "Dune", Author: "Frank Herbert"})
	require.NoError(t, index.IndexBooks(books))
	return index
}

func hitIDs(result *SearchResult) []string {
	ids := make([]string, 0, len(result.Hits))
	for _, h := range result.Hits {
		ids = append(ids, h.ID)
	}
	return ids
}

func TestNewBookIndex(t *testing.T) {
	index, err := NewBookIndex(nil)
	require.NoError(t, err)
	defer index.Close()

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestBookIndex_IndexBook(t *testing.T) {
	index := setupTestIndex(t)

	require.NoError(t, index.IndexBook(domain.Book{ID: "4", Title: "Beloved", Author: "Toni Morrison"}))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), count)
}

func TestBookIndex_ReindexReplaces(t *testing.T) {
	index := setupTestIndex(t)

	require.NoError(t, index.IndexBook(domain.Book{ID: "3", Title: "Dune", Author: "Frank Herbert"}))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestSearch_ByTitle(t *testing.T) {
	index := setupTestIndex(t)

	result, err := index.Search(context.Background(), SearchParams{Query: "glass"})
	require.NoError(t, err)

	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "2", result.Hits[0].ID)
	assert.Equal(t, "City of Glass", result.Hits[0].Title)
	assert.Equal(t, "Paul Auster", result.Hits[0].Author)
	assert.Equal(t, "glass", result.Query)
}

func TestSearch_ByAuthor(t *testing.T) {
	index := setupTestIndex(t)

	result, err := index.Search(context.Background(), SearchParams{Query: "Chopin"})
	require.NoError(t, err)

	assert.Equal(t, []string{"1"}, hitIDs(result))
}

func TestSearch_Stemming(t *testing.T) {
	index := setupTestIndex(t)

	result, err := index.Search(context.Background(), SearchParams{Query: "awaken"})
	require.NoError(t, err)

	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "1", result.Hits[0].ID)
}

func TestSearch_Fuzzy(t *testing.T) {
	index := setupTestIndex(t)

	result, err := index.Search(context.Background(), SearchParams{Query: "glas"})
	require.NoError(t, err)

	assert.Contains(t, hitIDs(result), "2")
}

func TestSearch_Prefix(t *testing.T) {
	index := setupTestIndex(t)

	result, err := index.Search(context.Background(), SearchParams{Query: "herb"})
	require.NoError(t, err)

	assert.Contains(t, hitIDs(result), "3")
}

func TestSearch_NoMatch(t *testing.T) {
	index := setupTestIndex(t)

	result, err := index.Search(context.Background(), SearchParams{Query: "zzzzzz"})
	require.NoError(t, err)

	assert.Empty(t, result.Hits)
	assert.Equal(t, uint64(0), result.Total)
}

func TestSearch_EmptyQueryMatchesAll(t *testing.T) {
	index := setupTestIndex(t)

	result, err := index.Search(context.Background(), SearchParams{Query: "  "})
	require.NoError(t, err)

	assert.Equal(t, uint64(3), result.Total)
	assert.ElementsMatch(t, []string{"1", "2", "3"}, hitIDs(result))
}

func TestSearch_TiesOrderByNumericID(t *testing.T) {
	index, err := NewBookIndex(nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	require.NoError(t, index.IndexBooks([]domain.Book{
		{ID: "10", Title: "Dune", Author: "Frank Herbert"},
		{ID: "2", Title: "Dune", Author: "Frank Herbert"},
		{ID: "9", Title: "Dune", Author: "Frank Herbert"},
	}))

	result, err := index.Search(context.Background(), SearchParams{Query: "dune"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "9", "10"}, hitIDs(result))

	result, err = index.Search(context.Background(), SearchParams{})
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "9", "10"}, hitIDs(result))
}

func TestBookDocument_Seq(t *testing.T) {
	assert.Equal(t, float64(12), NewBookDocument(domain.Book{ID: "12"}).ToMap()["seq"])
	assert.NotContains(t, NewBookDocument(domain.Book{ID: "abc"}).ToMap(), "seq")
}

func TestSearch_Limit(t *testing.T) {
	index := setupTestIndex(t)

	result, err := index.Search(context.Background(), SearchParams{Limit: 1})
	require.NoError(t, err)

	assert.Len(t, result.Hits, 1)
	assert.Equal(t, uint64(3), result.Total)
}

func TestSearch_Highlight(t *testing.T) {
	index := setupTestIndex(t)

	result, err := index.Search(context.Background(), SearchParams{Query: "glass", Highlight: true})
	require.NoError(t, err)

	require.NotEmpty(t, result.Hits)
	assert.Contains(t, result.Hits[0].Highlights["title"], "Glass")
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, clampLimit(0))
	assert.Equal(t, DefaultLimit, clampLimit(-5))
	assert.Equal(t, 7, clampLimit(7))
	assert.Equal(t, MaxLimit, clampLimit(MaxLimit+1))
}

func TestBookIndex_Closed(t *testing.T) {
	index, err := NewBookIndex(nil)
	require.NoError(t, err)
	require.NoError(t, index.Close())
	require.NoError(t, index.Close())

	_, err = index.Search(context.Background(), SearchParams{Query: "dune"})
	assert.True(t, errors.Is(err, ErrIndexClosed))
	assert.ErrorIs(t, index.IndexBook(domain.Book{ID: "1"}), ErrIndexClosed)
	_, err = index.DocumentCount()
	assert.ErrorIs(t, err, ErrIndexClosed)
}

func TestBuildSearchQuery_Empty(t *testing.T) {
	assert.NotNil(t, buildSearchQuery(""))
	assert.NotNil(t, buildSearchQuery("dune"))
}
