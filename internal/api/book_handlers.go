package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/bookcatalog/internal/domain"
	"github.com/listenupapp/bookcatalog/internal/search"
	"github.com/listenupapp/bookcatalog/internal/service"
	"github.com/listenupapp/bookcatalog/internal/store"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns every book in the catalog in insertion order",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/search",
		Summary:     "Search books",
		Description: "Full-text search over book titles and authors, best matches first",
		Tags:        []string{"Books"},
		Errors:      []int{http.StatusServiceUnavailable},
	}, s.handleSearchBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns the book with the given id",
		Tags:        []string{"Books"},
		Errors:      []int{http.StatusNotFound},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addBook",
		Method:        http.MethodPost,
		Path:          "/api/v1/books",
		Summary:       "Add book",
		Description:   "Appends a book to the catalog and returns it with its assigned id",
		Tags:          []string{"Books"},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddBook)
}

// BookListResponse contains the catalog listing.
type BookListResponse struct {
	Books []domain.Book `json:"books" doc:"Books in insertion order"`
	Total int           `json:"total" doc:"Number of books"`
}

// ListBooksOutput wraps the listing for Huma.
type ListBooksOutput struct {
	Body BookListResponse
}

// GetBookInput contains parameters for getting a book.
type GetBookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// SearchBooksInput contains search parameters.
type SearchBooksInput struct {
	Query     string `query:"q" doc:"Search text; empty matches every book"`
	Limit     int    `query:"limit" minimum:"0" maximum:"100" default:"20" doc:"Maximum number of hits"`
	Highlight bool   `query:"highlight" doc:"Include highlighted fragments"`
}

// SearchBooksOutput wraps search results for Huma.
type SearchBooksOutput struct {
	Body search.SearchResult
}

// BookOutput wraps a single book for Huma.
type BookOutput struct {
	Body domain.Book
}

// AddBookInput carries the new book. Both fields are required; empty strings
// are accepted the same way the GraphQL mutation accepts them.
type AddBookInput struct {
	Body struct {
		Title  string `json:"title" doc:"Book title"`
		Author string `json:"author" doc:"Book author"`
	}
}

func (s *Server) handleListBooks(ctx context.Context, _ *struct{}) (*ListBooksOutput, error) {
	books, err := s.services.Catalog.ListBooks(ctx)
	if err != nil {
		return nil, s.fail(ctx, "list books", err)
	}
	if books == nil {
		books = []domain.Book{}
	}

	return &ListBooksOutput{
		Body: BookListResponse{
			Books: books,
			Total: len(books),
		},
	}, nil
}

func (s *Server) handleSearchBooks(ctx context.Context, input *SearchBooksInput) (*SearchBooksOutput, error) {
	if s.services == nil || s.services.Catalog == nil {
		return nil, toAPIError(service.ErrSearchUnavailable)
	}

	result, err := s.services.Catalog.SearchBooks(ctx, search.SearchParams{
		Query:     input.Query,
		Limit:     input.Limit,
		Highlight: input.Highlight,
	})
	if err != nil {
		return nil, s.fail(ctx, "search books", err)
	}

	return &SearchBooksOutput{Body: *result}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	book, err := s.services.Catalog.GetBookByID(ctx, input.ID)
	if err != nil {
		return nil, s.fail(ctx, "get book", err)
	}
	if book == nil {
		return nil, toAPIError(store.ErrBookNotFound.WithDetails(map[string]string{"id": input.ID}))
	}

	return &BookOutput{Body: *book}, nil
}

func (s *Server) handleAddBook(ctx context.Context, input *AddBookInput) (*BookOutput, error) {
	book, err := s.services.Catalog.AddBook(ctx, domain.BookInput{
		Title:  input.Body.Title,
		Author: input.Body.Author,
	})
	if err != nil {
		return nil, s.fail(ctx, "add book", err)
	}

	return &BookOutput{Body: *book}, nil
}

// fail logs err and converts it for huma.
func (s *Server) fail(ctx context.Context, op string, err error) error {
	apiErr := toAPIError(err)
	if apiErr.status >= http.StatusInternalServerError {
		s.logger.ErrorContext(ctx, "Catalog request failed", "op", op, "error", err)
	} else {
		s.logger.DebugContext(ctx, "Catalog request rejected", "op", op, "error", err)
	}
	return apiErr
}
