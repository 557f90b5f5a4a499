// Package graphql serves the book catalog over GraphQL.
//
// The schema is plain SDL embedded in the binary. Resolvers are bound to
// schema fields through a ResolverFactory registration table, and an
// Executor walks validated operations against it.
package graphql

import (
	_ "embed"
	"fmt"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

//go:embed schema.graphql
var catalogSDL string

// Schema is a loaded and validated GraphQL schema.
type Schema struct {
	schema *ast.Schema
}

// LoadSchema parses and validates sdl. The introspection prelude is added
// automatically.
func LoadSchema(sdl string) (*Schema, error) {
	s, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: sdl})
	if errs := asGQLErrors(err); len(errs) > 0 {
		return nil, fmt.Errorf("load schema: %w", errs)
	}
	return &Schema{schema: s}, nil
}

// CatalogSchema loads the book catalog schema.
func CatalogSchema() (*Schema, error) {
	return LoadSchema(catalogSDL)
}

// AST returns the parsed schema.
func (s *Schema) AST() *ast.Schema {
	return s.schema
}
