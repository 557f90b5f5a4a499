package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/listenupapp/bookcatalog/internal/domain"
)

// MemoryCatalog keeps the catalog in a slice.
type MemoryCatalog struct {
	mu     sync.RWMutex
	books  []domain.Book
	byID   map[string]int
	seq    sequence
	closed bool
	logger *slog.Logger
}

// NewMemoryCatalog creates an empty slice-backed catalog.
func NewMemoryCatalog(logger *slog.Logger) *MemoryCatalog {
	if logger != nil {
		logger.Debug("Memory catalog created")
	}
	return &MemoryCatalog{
		books:  make([]domain.Book, 0, 16),
		byID:   make(map[string]int),
		logger: logger,
	}
}

// List returns every book in insertion order.
func (c *MemoryCatalog) List(_ context.Context) ([]domain.Book, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, ErrCatalogClosed
	}

	out := make([]domain.Book, len(c.books))
	copy(out, c.books)
	return out, nil
}

// Get returns the book with the given id.
func (c *MemoryCatalog) Get(_ context.Context, id string) (*domain.Book, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, ErrCatalogClosed
	}

	i, ok := c.byID[id]
	if !ok {
		return nil, ErrBookNotFound
	}
	book := c.books[i]
	return &book, nil
}

// Append stores a new book under the next id.
func (c *MemoryCatalog) Append(_ context.Context, in domain.BookInput) (*domain.Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrCatalogClosed
	}

	book := domain.NewBook(c.seq.next(), in)
	c.put(book)
	return &book, nil
}

// Insert stores a book under its own id.
func (c *MemoryCatalog) Insert(_ context.Context, book domain.Book) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrCatalogClosed
	}
	if _, exists := c.byID[book.ID]; exists {
		return ErrBookExists
	}
	if !c.seq.accepts(book.ID) {
		return ErrIDOutOfOrder
	}

	c.seq.observe(book.ID)
	c.put(book)
	return nil
}

// Count returns the number of books.
func (c *MemoryCatalog) Count(_ context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return 0, ErrCatalogClosed
	}
	return len(c.books), nil
}

// Close marks the catalog closed and drops its contents.
func (c *MemoryCatalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.books = nil
	c.byID = nil
	return nil
}

// put appends book. Caller holds the write lock.
func (c *MemoryCatalog) put(book domain.Book) {
	c.byID[book.ID] = len(c.books)
	c.books = append(c.books, book)
}
