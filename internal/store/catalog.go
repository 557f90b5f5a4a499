// Package store holds the book catalog behind a small storage interface.
//
// Two backends are available: a slice guarded by a RWMutex, and an in-memory
// Badger database. Neither persists across restarts.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/listenupapp/bookcatalog/internal/domain"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
)

// Catalog is the ordered, append-only sequence of books.
//
// Implementations are safe for concurrent use. Append allocates the id and
// stores the record in one critical section, so concurrent appends never
// share an id and ids stay strictly increasing in sequence order.
type Catalog interface {
	// List returns every book in insertion order. The slice is a copy.
	List(ctx context.Context) ([]domain.Book, error)
	// Get returns the book with exactly this id, or ErrBookNotFound.
	Get(ctx context.Context, id string) (*domain.Book, error)
	// Append stores a new book under the next id and returns it.
	Append(ctx context.Context, in domain.BookInput) (*domain.Book, error)
	// Insert stores a book under its own id. The id must be a decimal
	// greater than every id already in the catalog.
	Insert(ctx context.Context, book domain.Book) error
	// Count returns the number of books.
	Count(ctx context.Context) (int, error)
	// Close releases the backend. Further calls return ErrCatalogClosed.
	Close() error
}

// Open creates an empty catalog for the named backend.
func Open(backend string, logger *slog.Logger) (Catalog, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemoryCatalog(logger), nil
	case BackendBadger:
		return NewBadgerCatalog(logger)
	default:
		return nil, ErrUnknownBackend.WithDetails(map[string]string{"backend": backend})
	}
}

// Seed inserts books in order. It stops at the first failure.
func Seed(ctx context.Context, c Catalog, books []domain.Book) error {
	for _, b := range books {
		if err := c.Insert(ctx, b); err != nil {
			return fmt.Errorf("seed book %s: %w", b.ID, err)
		}
	}
	return nil
}
