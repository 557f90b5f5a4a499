// Package service contains the catalog's business operations, shared by the
// GraphQL and REST transports.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/listenupapp/bookcatalog/internal/domain"
	domainerrors "github.com/listenupapp/bookcatalog/internal/errors"
	"github.com/listenupapp/bookcatalog/internal/search"
	"github.com/listenupapp/bookcatalog/internal/store"
)

// ErrSearchUnavailable is returned by search operations when no index is set.
var ErrSearchUnavailable = domainerrors.Unavailable("search is not available")

// CatalogObserver is notified after the catalog size changes.
type CatalogObserver interface {
	CatalogSize(count int)
}

// BookIndex keeps a searchable copy of the catalog.
type BookIndex interface {
	IndexBook(book domain.Book) error
	IndexBooks(books []domain.Book) error
	Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error)
	DocumentCount() (uint64, error)
}

// CatalogService answers list, lookup and add requests against a catalog.
type CatalogService struct {
	catalog  store.Catalog
	observer CatalogObserver
	index    BookIndex
	logger   *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(catalog store.Catalog, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CatalogService{
		catalog: catalog,
		logger:  logger,
	}
}

// SetObserver registers o to receive catalog size updates.
func (s *CatalogService) SetObserver(o CatalogObserver) {
	s.observer = o
	s.notify(context.Background())
}

// SetIndex registers idx for search and indexes the books already in the
// catalog. Later additions are indexed as they are appended.
func (s *CatalogService) SetIndex(ctx context.Context, idx BookIndex) error {
	books, err := s.catalog.List(ctx)
	if err != nil {
		return err
	}
	if err := idx.IndexBooks(books); err != nil {
		return err
	}
	s.index = idx
	s.logger.Info("Search index built", "books", len(books))
	return nil
}

// Seed loads books into the catalog. Used once at startup.
func (s *CatalogService) Seed(ctx context.Context, books []domain.Book) error {
	if err := store.Seed(ctx, s.catalog, books); err != nil {
		return err
	}
	if s.index != nil {
		if err := s.index.IndexBooks(books); err != nil {
			s.logger.Warn("Failed to index seed books", "error", err)
		}
	}
	s.logger.Info("Catalog seeded", "books", len(books))
	s.notify(ctx)
	return nil
}

// ListBooks returns every book in insertion order.
func (s *CatalogService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return s.catalog.List(ctx)
}

// GetBookByID returns the book with exactly this id.
// A missing book is not an error: it returns (nil, nil).
func (s *CatalogService) GetBookByID(ctx context.Context, id string) (*domain.Book, error) {
	book, err := s.catalog.Get(ctx, id)
	if errors.Is(err, store.ErrBookNotFound) {
		s.logger.Debug("Book not found", "id", id)
		return nil, nil
	}
	return book, err
}

// AddBook appends a new book and returns it. Identical inputs produce
// distinct books.
func (s *CatalogService) AddBook(ctx context.Context, in domain.BookInput) (*domain.Book, error) {
	book, err := s.catalog.Append(ctx, in)
	if err != nil {
		s.logger.Error("Failed to add book", "title", in.Title, "error", err)
		return nil, err
	}

	s.logger.Info("Book added", "id", book.ID, "title", book.Title, "author", book.Author)
	if s.index != nil {
		// The book is already in the catalog; a stale index only affects search.
		if err := s.index.IndexBook(*book); err != nil {
			s.logger.Warn("Failed to index book", "id", book.ID, "error", err)
		}
	}
	s.notify(ctx)
	return book, nil
}

// SearchBooks runs a full-text search over titles and authors.
func (s *CatalogService) SearchBooks(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	if s.index == nil {
		return nil, ErrSearchUnavailable
	}
	return s.index.Search(ctx, params)
}

// SearchEnabled reports whether a search index is set.
func (s *CatalogService) SearchEnabled() bool {
	return s.index != nil
}

// IndexedBooks returns how many books the search index holds.
func (s *CatalogService) IndexedBooks() (uint64, error) {
	if s.index == nil {
		return 0, ErrSearchUnavailable
	}
	return s.index.DocumentCount()
}

// CountBooks returns the catalog size.
func (s *CatalogService) CountBooks(ctx context.Context) (int, error) {
	return s.catalog.Count(ctx)
}

func (s *CatalogService) notify(ctx context.Context) {
	if s.observer == nil {
		return
	}
	count, err := s.catalog.Count(ctx)
	if err != nil {
		s.logger.Warn("Failed to count books", "error", err)
		return
	}
	s.observer.CatalogSize(count)
}
