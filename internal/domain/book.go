// Package domain contains the core entities of the book catalog.
package domain

// Book is a single catalog record. ID is the sole key and is never reused.
type Book struct {
	ID     string `json:"id" doc:"Catalog identifier (decimal string)"`
	Title  string `json:"title" doc:"Book title"`
	Author string `json:"author" doc:"Book author"`
}

// BookInput carries the fields a caller supplies when adding a book.
// It has no identity; the catalog assigns one on append.
type BookInput struct {
	Title  string `json:"title" doc:"Book title"`
	Author string `json:"author" doc:"Book author"`
}

// NewBook builds the record appended for input under the given id.
func NewBook(id string, in BookInput) Book {
	return Book{
		ID:     id,
		Title:  in.Title,
		Author: in.Author,
	}
}

// SeedBooks returns the records the catalog starts with.
// A fresh slice is returned on every call so callers may not alias each other.
func SeedBooks() []Book {
	return []Book{
		{ID: "1", Title: "The Awakening", Author: "Kate Chopin"},
		{ID: "2", Title: "City of Glass", Author: "Paul Auster"},
	}
}
