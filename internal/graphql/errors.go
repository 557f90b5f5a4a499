package graphql

import (
	"errors"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	domainerrors "github.com/listenupapp/bookcatalog/internal/errors"
)

// asGQLErrors formats err as a list of GraphQL errors. A gqlerror.List is
// returned as is, a *gqlerror.Error becomes a one item list, and any other
// error is printed into a new GraphQL error. Nil (including a nil
// *gqlerror.Error stored in an error interface) yields nil.
func asGQLErrors(err error) gqlerror.List {
	// Type switch first: a nil *gqlerror.Error must not reach errors.As,
	// which would call Unwrap on it.
	switch e := err.(type) {
	case nil:
		return nil
	case *gqlerror.Error:
		if e == nil {
			return nil
		}
		return gqlerror.List{e}
	case gqlerror.List:
		if len(e) == 0 {
			return nil
		}
		return e
	}

	var list gqlerror.List
	if errors.As(err, &list) && len(list) > 0 {
		return list
	}
	return gqlerror.List{toGQLError(err)}
}

// toGQLError converts a resolver or request error into a GraphQL error.
// Domain errors keep their message and expose their code in extensions;
// internal domain errors never leak their cause.
func toGQLError(err error) *gqlerror.Error {
	var gqlErr *gqlerror.Error
	if errors.As(err, &gqlErr) && gqlErr != nil {
		return gqlErr
	}

	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		return &gqlerror.Error{
			Message:    domainErr.Message,
			Extensions: domainErr.Extensions(),
		}
	}

	return &gqlerror.Error{Message: err.Error()}
}

// fieldError builds the error reported for a field at path.
func fieldError(err error, field *ast.Field, path ast.Path) *gqlerror.Error {
	src := toGQLError(err)

	out := &gqlerror.Error{
		Message:    src.Message,
		Path:       path,
		Extensions: src.Extensions,
	}
	if field != nil && field.Position != nil {
		out.Locations = []gqlerror.Location{{Line: field.Position.Line, Column: field.Position.Column}}
	}
	return out
}
