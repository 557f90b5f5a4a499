// Package search provides full-text book search using Bleve.
// Books are indexed by title and author with English stemming, fuzzy
// matching and prefix matching for partially typed words.
package search

import (
	"strconv"

	"github.com/listenupapp/bookcatalog/internal/domain"
)

// BookDocument is the document stored in the Bleve index for one book.
type BookDocument struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// NewBookDocument builds the index document for book.
func NewBookDocument(book domain.Book) *BookDocument {
	return &BookDocument{
		ID:     book.ID,
		Title:  book.Title,
		Author: book.Author,
	}
}

// ToMap converts the document to the field map Bleve indexes. Field names
// must match the mapping. Decimal ids are also indexed as the numeric seq
// field so results can be ordered by id numerically.
func (d *BookDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":     d.ID,
		"title":  d.Title,
		"author": d.Author,
	}
	if n, err := strconv.ParseUint(d.ID, 10, 64); err == nil {
		m["seq"] = float64(n)
	}
	return m
}
