package search

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/listenupapp/bookcatalog/internal/domain"
)

// BookIndex wraps an in-memory Bleve index of catalog books.
//
// Thread safety: All public methods are safe for concurrent use.
type BookIndex struct {
	index  bleve.Index
	logger *slog.Logger
	mu     sync.RWMutex
	closed bool
}

// NewBookIndex creates an empty in-memory index.
func NewBookIndex(logger *slog.Logger) (*BookIndex, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	logger.Debug("created in-memory search index")

	return &BookIndex{
		index:  index,
		logger: logger,
	}, nil
}

// Close closes the index and releases resources. Close is idempotent.
func (s *BookIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.index.Close()
}

// IndexBook indexes a single book, replacing any document with the same id.
func (s *BookIndex) IndexBook(book domain.Book) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrIndexClosed
	}
	return s.index.Index(book.ID, NewBookDocument(book).ToMap())
}

// IndexBooks indexes books in one batch.
func (s *BookIndex) IndexBooks(books []domain.Book) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrIndexClosed
	}

	batch := s.index.NewBatch()
	for _, book := range books {
		if err := batch.Index(book.ID, NewBookDocument(book).ToMap()); err != nil {
			return fmt.Errorf("batch index %s: %w", book.ID, err)
		}
	}

	if err := s.index.Batch(batch); err != nil {
		return fmt.Errorf("commit batch of %d: %w", len(books), err)
	}
	return nil
}

// DocumentCount returns the total number of indexed documents.
func (s *BookIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrIndexClosed
	}
	return s.index.DocCount()
}
