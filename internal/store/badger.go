package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"github.com/listenupapp/bookcatalog/internal/domain"
)

const (
	// bookPrefix keys hold the JSON record, ordered by insertion position.
	bookPrefix = "book:"
	// bookByIDPrefix keys map a book id to its bookPrefix key.
	bookByIDPrefix = "book_id:"
)

// BadgerCatalog keeps the catalog in an in-memory Badger database.
//
// Records are keyed by a zero-padded insertion position so that prefix
// iteration returns them in insertion order.
type BadgerCatalog struct {
	db     *badger.DB
	logger *slog.Logger

	// mu serialises writers. Badger transactions alone would let two
	// appends read the same sequence value.
	mu  sync.Mutex
	seq sequence
	pos uint64
}

// NewBadgerCatalog opens an empty in-memory Badger catalog.
func NewBadgerCatalog(logger *slog.Logger) (*BadgerCatalog, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil // Disable Badger's internal logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger catalog: %w", err)
	}

	if logger != nil {
		logger.Info("Badger catalog opened", "in_memory", true)
	}

	return &BadgerCatalog{db: db, logger: logger}, nil
}

func positionKey(pos uint64) []byte {
	return fmt.Appendf(nil, "%s%020d", bookPrefix, pos)
}

func idKey(id string) []byte {
	return []byte(bookByIDPrefix + id)
}

// List returns every book in insertion order.
func (c *BadgerCatalog) List(ctx context.Context) ([]domain.Book, error) {
	books := make([]domain.Book, 0, 16)

	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(bookPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var book domain.Book
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &book)
			}); err != nil {
				return fmt.Errorf("decode book: %w", err)
			}
			books = append(books, book)
		}
		return nil
	})
	if err != nil {
		return nil, c.mapErr("list books", err)
	}
	return books, nil
}

// Get returns the book with the given id.
func (c *BadgerCatalog) Get(_ context.Context, id string) (*domain.Book, error) {
	var book domain.Book

	err := c.db.View(func(txn *badger.Txn) error {
		ref, err := txn.Get(idKey(id))
		if err != nil {
			return err
		}
		key, err := ref.ValueCopy(nil)
		if err != nil {
			return err
		}

		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &book)
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, c.mapErr("get book", err)
	}
	return &book, nil
}

// Append stores a new book under the next id.
func (c *BadgerCatalog) Append(_ context.Context, in domain.BookInput) (*domain.Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Reserve on a copy so a failed write does not burn the id.
	seq := c.seq
	book := domain.NewBook(seq.next(), in)

	if err := c.write(book); err != nil {
		return nil, c.mapErr("append book", err)
	}

	c.seq = seq
	c.pos++
	return &book, nil
}

// Insert stores a book under its own id.
func (c *BadgerCatalog) Insert(_ context.Context, book domain.Book) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(idKey(book.ID))
		return err
	})
	switch {
	case err == nil:
		return ErrBookExists
	case !errors.Is(err, badger.ErrKeyNotFound):
		return c.mapErr("insert book", err)
	}

	if !c.seq.accepts(book.ID) {
		return ErrIDOutOfOrder
	}

	if err := c.write(book); err != nil {
		return c.mapErr("insert book", err)
	}

	c.seq.observe(book.ID)
	c.pos++
	return nil
}

// Count returns the number of books.
func (c *BadgerCatalog) Count(_ context.Context) (int, error) {
	count := 0
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(bookPrefix)
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, c.mapErr("count books", err)
	}
	return count, nil
}

// Close closes the underlying database.
func (c *BadgerCatalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db.IsClosed() {
		return nil
	}
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("close badger catalog: %w", err)
	}
	return nil
}

// write stores book at the next position together with its id index.
// Caller holds mu.
func (c *BadgerCatalog) write(book domain.Book) error {
	data, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("marshal book: %w", err)
	}

	key := positionKey(c.pos + 1)
	return c.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(idKey(book.ID), key)
	})
}

func (c *BadgerCatalog) mapErr(op string, err error) error {
	if errors.Is(err, badger.ErrDBClosed) {
		return ErrCatalogClosed
	}
	if c.logger != nil {
		c.logger.Error("Badger catalog operation failed", "op", op, "error", err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
