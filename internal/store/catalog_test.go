package store

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/bookcatalog/internal/domain"
	domainerrors "github.com/listenupapp/bookcatalog/internal/errors"
)

// forEachBackend runs fn against a fresh, empty catalog of every backend.
func forEachBackend(t *testing.T, fn func(t *testing.T, c Catalog)) {
	t.Helper()

	for _, backend := range []string{BackendMemory, BackendBadger} {
		t.Run(backend, func(t *testing.T) {
			c, err := Open(backend, nil)
			require.NoError(t, err)
			t.Cleanup(func() { _ = c.Close() })

			fn(t, c)
		})
	}
}

// seeded returns c after loading the default seed books.
func seeded(t *testing.T, c Catalog) Catalog {
	t.Helper()
	require.NoError(t, Seed(context.Background(), c, domain.SeedBooks()))
	return c
}

func TestCatalog_ListSeeded(t *testing.T) {
	forEachBackend(t, func(t *testing.T, c Catalog) {
		seeded(t, c)

		books, err := c.List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.SeedBooks(), books)
	})
}

func TestCatalog_ListReturnsCopy(t *testing.T) {
	forEachBackend(t, func(t *testing.T, c Catalog) {
		ctx := context.Background()
		seeded(t, c)

		books, err := c.List(ctx)
		require.NoError(t, err)
		books[0].Title = "mutated"

		again, err := c.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, "The Awakening", again[0].Title)
	})
}

func TestCatalog_GetByID(t *testing.T) {
	forEachBackend(t, func(t *testing.T, c Catalog) {
		ctx := context.Background()
		seeded(t, c)

		for _, want := range domain.SeedBooks() {
			got, err := c.Get(ctx, want.ID)
			require.NoError(t, err)
			assert.Equal(t, want, *got)
		}
	})
}

func TestCatalog_GetMissing(t *testing.T) {
	forEachBackend(t, func(t *testing.T, c Catalog) {
		ctx := context.Background()
		seeded(t, c)

		for _, id := range []string{"99", "", "01", " 1", "3"} {
			book, err := c.Get(ctx, id)
			assert.Nil(t, book, id)
			assert.ErrorIs(t, err, ErrBookNotFound, id)
			assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound), id)
		}
	})
}

func TestCatalog_AppendAssignsNextID(t *testing.T) {
	forEachBackend(t, func(t *testing.T, c Catalog) {
		ctx := context.Background()
		seeded(t, c)

		book, err := c.Append(ctx, domain.BookInput{Title: "Dune", Author: "Frank Herbert"})
		require.NoError(t, err)
		assert.Equal(t, domain.Book{ID: "3", Title: "Dune", Author: "Frank Herbert"}, *book)

		books, err := c.List(ctx)
		require.NoError(t, err)
		require.Len(t, books, 3)
		assert.Equal(t, *book, books[2])

		stored, err := c.Get(ctx, "3")
		require.NoError(t, err)
		assert.Equal(t, *book, *stored)
	})
}

func TestCatalog_AppendIsNotIdempotent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, c Catalog) {
		ctx := context.Background()
		seeded(t, c)

		in := domain.BookInput{Title: "Dune", Author: "Frank Herbert"}
		first, err := c.Append(ctx, in)
		require.NoError(t, err)
		second, err := c.Append(ctx, in)
		require.NoError(t, err)

		assert.Equal(t, "3", first.ID)
		assert.Equal(t, "4", second.ID)
		assert.NotEqual(t, first.ID, second.ID)

		count, err := c.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, count)
	})
}

func TestCatalog_AppendOnEmptyCatalogStartsAtOne(t *testing.T) {
	forEachBackend(t, func(t *testing.T, c Catalog) {
		ctx := context.Background()

		book, err := c.Append(ctx, domain.BookInput{Title: "Dune", Author: "Frank Herbert"})
		require.NoError(t, err)
		assert.Equal(t, "1", book.ID)
	})
}

func TestCatalog_LengthTracksAppends(t *testing.T) {
	forEachBackend(t, func(t *testing.T, c Catalog) {
		ctx := context.Background()
		seeded(t, c)

		for i := range 10 {
			_, err := c.Append(ctx, domain.BookInput{Title: "T" + strconv.Itoa(i), Author: "A"})
			require.NoError(t, err)

			books, err := c.List(ctx)
			require.NoError(t, err)
			assert.Len(t, books, 2+i+1)
		}

		books, err := c.List(ctx)
		require.NoError(t, err)
		for i := 1; i < len(books); i++ {
			prev, _ := strconv.Atoi(books[i-1].ID)
			cur, _ := strconv.Atoi(books[i].ID)
			assert.Greater(t, cur, prev, "ids must increase in sequence order")
		}
	})
}

func TestCatalog_InsertRejectsDuplicatesAndOutOfOrder(t *testing.T) {
	forEachBackend(t, func(t *testing.T, c Catalog) {
		ctx := context.Background()
		seeded(t, c)

		err := c.Insert(ctx, domain.Book{ID: "2", Title: "again", Author: "x"})
		assert.ErrorIs(t, err, ErrBookExists)

		err = c.Insert(ctx, domain.Book{ID: "abc", Title: "x", Author: "y"})
		assert.ErrorIs(t, err, ErrIDOutOfOrder)

		require.NoError(t, c.Insert(ctx, domain.Book{ID: "10", Title: "Ten", Author: "T"}))

		err = c.Insert(ctx, domain.Book{ID: "7", Title: "Seven", Author: "S"})
		assert.ErrorIs(t, err, ErrIDOutOfOrder)

		book, err := c.Append(ctx, domain.BookInput{Title: "Eleven", Author: "E"})
		require.NoError(t, err)
		assert.Equal(t, "11", book.ID)
	})
}

func TestCatalog_ConcurrentAppendsGetUniqueIDs(t *testing.T) {
	forEachBackend(t, func(t *testing.T, c Catalog) {
		ctx := context.Background()
		seeded(t, c)

		const workers = 16
		const perWorker = 25

		var wg sync.WaitGroup
		ids := make(chan string, workers*perWorker)
		for range workers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range perWorker {
					book, err := c.Append(ctx, domain.BookInput{Title: "T", Author: "A"})
					if assert.NoError(t, err) {
						ids <- book.ID
					}
				}
			}()
		}
		wg.Wait()
		close(ids)

		seen := make(map[string]bool)
		for id := range ids {
			assert.False(t, seen[id], "duplicate id %s", id)
			seen[id] = true
		}
		assert.Len(t, seen, workers*perWorker)

		count, err := c.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2+workers*perWorker, count)
	})
}

func TestCatalog_ClosedCatalog(t *testing.T) {
	forEachBackend(t, func(t *testing.T, c Catalog) {
		ctx := context.Background()
		seeded(t, c)
		require.NoError(t, c.Close())

		_, err := c.List(ctx)
		assert.ErrorIs(t, err, ErrCatalogClosed)
		_, err = c.Append(ctx, domain.BookInput{Title: "x", Author: "y"})
		assert.Error(t, err)

		// Closing twice is harmless.
		assert.NoError(t, c.Close())
	})
}

func TestOpen_UnknownBackend(t *testing.T) {
	c, err := Open("postgres", nil)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestOpen_DefaultsToMemory(t *testing.T) {
	c, err := Open("", nil)
	require.NoError(t, err)
	defer c.Close()

	_, ok := c.(*MemoryCatalog)
	assert.True(t, ok)
}

func TestSeed_StopsAtFirstFailure(t *testing.T) {
	c := NewMemoryCatalog(nil)
	ctx := context.Background()

	err := Seed(ctx, c, []domain.Book{
		{ID: "1", Title: "a", Author: "a"},
		{ID: "1", Title: "b", Author: "b"},
		{ID: "2", Title: "c", Author: "c"},
	})
	assert.ErrorIs(t, err, ErrBookExists)

	count, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
