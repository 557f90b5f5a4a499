package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Result size bounds.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// SearchParams configures a search query.
type SearchParams struct {
	Query     string // User's search query; empty matches every book
	Limit     int    // Maximum hits, clamped to [1, MaxLimit]
	Highlight bool   // Include match highlighting
}

// SearchResult represents the search results.
type SearchResult struct {
	Query  string      `json:"query" doc:"The query that was run"`
	Total  uint64      `json:"total" doc:"Number of matching books"`
	TookMs int64       `json:"took_ms" doc:"Search time in milliseconds"`
	Hits   []SearchHit `json:"hits" doc:"Matching books by descending relevance"`
}

// SearchHit represents a single search result.
type SearchHit struct {
	ID         string            `json:"id" doc:"Book ID"`
	Score      float64           `json:"score" doc:"Relevance score"`
	Title      string            `json:"title" doc:"Book title"`
	Author     string            `json:"author" doc:"Book author"`
	Highlights map[string]string `json:"highlights,omitempty" doc:"Highlighted fragments by field"`
}

// Search executes a search query.
func (s *BookIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrIndexClosed
	}

	limit := clampLimit(params.Limit)
	searchRequest := bleve.NewSearchRequestOptions(buildSearchQuery(params.Query), limit, 0, false)
	// Ties order by id numerically ("2" before "10"); non-numeric ids sort last.
	searchRequest.SortBy([]string{"-_score", "seq", "_id"})
	searchRequest.Fields = []string{"id", "title", "author"}

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("title")
		searchRequest.Highlight.AddField("author")
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		searchHit := SearchHit{
			ID:    hit.ID,
			Score: hit.Score,
		}
		if t, ok := hit.Fields["title"].(string); ok {
			searchHit.Title = t
		}
		if a, ok := hit.Fields["author"].(string); ok {
			searchHit.Author = a
		}

		if len(hit.Fragments) > 0 {
			searchHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	return result, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// buildSearchQuery matches titles ahead of authors, with fuzzy and prefix
// fallbacks on the title for typos and partially typed words.
func buildSearchQuery(q string) query.Query {
	q = strings.TrimSpace(q)
	if q == "" {
		return bleve.NewMatchAllQuery()
	}

	titleMatch := bleve.NewMatchQuery(q)
	titleMatch.SetField("title")
	titleMatch.SetBoost(3.0)

	authorMatch := bleve.NewMatchQuery(q)
	authorMatch.SetField("author")
	authorMatch.SetBoost(2.0)

	fuzzyQuery := bleve.NewFuzzyQuery(strings.ToLower(q))
	fuzzyQuery.SetFuzziness(1)
	fuzzyQuery.SetField("title")
	fuzzyQuery.SetBoost(0.8)

	textQueries := []query.Query{titleMatch, authorMatch, fuzzyQuery}

	// Prefix query for autocomplete (minimum 2 chars)
	if len(q) >= 2 {
		for _, field := range []string{"title", "author"} {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(q))
			prefixQuery.SetField(field)
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}
	}

	return bleve.NewDisjunctionQuery(textQueries...)
}
