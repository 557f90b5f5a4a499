package graphql

import (
	"context"

	"github.com/listenupapp/bookcatalog/internal/domain"
	domainerrors "github.com/listenupapp/bookcatalog/internal/errors"
)

// BookService is the catalog the resolvers read from and write to.
type BookService interface {
	ListBooks(ctx context.Context) ([]domain.Book, error)
	GetBookByID(ctx context.Context, id string) (*domain.Book, error)
	AddBook(ctx context.Context, in domain.BookInput) (*domain.Book, error)
}

// CatalogResolvers binds the catalog schema to svc.
func CatalogResolvers(svc BookService) *ResolverFactory {
	return NewResolverFactory().
		WithQueryResolver("books", func(ctx context.Context, _ ResolveParams) (any, error) {
			books, err := svc.ListBooks(ctx)
			if err != nil {
				return nil, err
			}
			if books == nil {
				books = []domain.Book{}
			}
			return books, nil
		}).
		WithQueryResolver("getBookById", func(ctx context.Context, p ResolveParams) (any, error) {
			id, ok := p.Args["id"].(string)
			if !ok {
				return nil, domainerrors.Validation("id must be a string")
			}
			book, err := svc.GetBookByID(ctx, id)
			if err != nil || book == nil {
				return nil, err
			}
			return book, nil
		}).
		WithMutationResolver("addBook", func(ctx context.Context, p ResolveParams) (any, error) {
			in, err := bookInputFromArgs(p.Args)
			if err != nil {
				return nil, err
			}
			return svc.AddBook(ctx, in)
		}).
		WithFieldResolver("Book", "id", bookField(func(b *domain.Book) string { return b.ID })).
		WithFieldResolver("Book", "title", bookField(func(b *domain.Book) string { return b.Title })).
		WithFieldResolver("Book", "author", bookField(func(b *domain.Book) string { return b.Author }))
}

// bookInputFromArgs reads the BookInput passed as the data argument. The
// schema has already checked its shape.
func bookInputFromArgs(args map[string]any) (domain.BookInput, error) {
	data, ok := args["data"].(map[string]any)
	if !ok {
		return domain.BookInput{}, domainerrors.Validation("data must be a BookInput object")
	}

	title, ok := data["title"].(string)
	if !ok {
		return domain.BookInput{}, domainerrors.Validation("data.title must be a string")
	}
	author, ok := data["author"].(string)
	if !ok {
		return domain.BookInput{}, domainerrors.Validation("data.author must be a string")
	}

	return domain.BookInput{Title: title, Author: author}, nil
}

func bookField(get func(*domain.Book) string) FieldResolver {
	return func(_ context.Context, p ResolveParams) (any, error) {
		switch b := p.Source.(type) {
		case *domain.Book:
			return get(b), nil
		case domain.Book:
			return get(&b), nil
		}
		return nil, domainerrors.Internalf("unexpected %T resolving Book.%s", p.Source, p.Field.Name)
	}
}
