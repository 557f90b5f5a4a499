package graphql

import (
	"context"

	"github.com/vektah/gqlparser/v2/ast"

	domainerrors "github.com/listenupapp/bookcatalog/internal/errors"
)

// ResolveParams describes a single field resolution.
type ResolveParams struct {
	// Source is the resolved value of the parent object; nil for root fields.
	Source any
	// Args holds the field's arguments with variables substituted.
	Args map[string]any
	// Field is the field as written in the query.
	Field *ast.Field
	// Path locates the field in the response.
	Path ast.Path
	// Schema is the schema the operation was validated against.
	Schema *ast.Schema
}

// FieldResolver produces the value of one field.
type FieldResolver func(ctx context.Context, p ResolveParams) (any, error)

// ErrIntrospectionDisabled is returned for __schema and __type when the
// factory was built without WithSchemaIntrospection.
var ErrIntrospectionDisabled = domainerrors.Validation("introspection is disabled")

// A ResolverFactory is the registration table binding schema fields to
// resolvers. Root query and mutation fields are registered by name; fields
// of other object types by type and field name.
//
// Fields without a registered resolver fall back to reading the field name
// from a map[string]any source.
type ResolverFactory struct {
	queries   map[string]FieldResolver
	mutations map[string]FieldResolver
	fields    map[string]map[string]FieldResolver
}

// NewResolverFactory returns an empty registration table.
func NewResolverFactory() *ResolverFactory {
	return &ResolverFactory{
		queries:   make(map[string]FieldResolver),
		mutations: make(map[string]FieldResolver),
		fields:    make(map[string]map[string]FieldResolver),
	}
}

// WithQueryResolver binds a root query field.
func (rf *ResolverFactory) WithQueryResolver(name string, r FieldResolver) *ResolverFactory {
	rf.queries[name] = r
	return rf
}

// WithMutationResolver binds a root mutation field.
func (rf *ResolverFactory) WithMutationResolver(name string, r FieldResolver) *ResolverFactory {
	rf.mutations[name] = r
	return rf
}

// WithFieldResolver binds field on the object type typeName.
func (rf *ResolverFactory) WithFieldResolver(typeName, field string, r FieldResolver) *ResolverFactory {
	byField, ok := rf.fields[typeName]
	if !ok {
		byField = make(map[string]FieldResolver)
		rf.fields[typeName] = byField
	}
	byField[field] = r
	return rf
}

// WithSchemaIntrospection enables __schema and __type and binds the
// resolvers of the introspection types.
func (rf *ResolverFactory) WithSchemaIntrospection() *ResolverFactory {
	rf.queries["__schema"] = resolveSchema
	rf.queries["__type"] = resolveType
	for typeName, fields := range introspectionResolvers() {
		for field, r := range fields {
			rf.WithFieldResolver(typeName, field, r)
		}
	}
	return rf
}

// resolverFor finds the resolver for field on objType.
func (rf *ResolverFactory) resolverFor(schema *ast.Schema, objType *ast.Definition, field string) FieldResolver {
	switch {
	case schema.Query != nil && objType.Name == schema.Query.Name:
		if r, ok := rf.queries[field]; ok {
			return r
		}
		if field == "__schema" || field == "__type" {
			return introspectionDisabled
		}
		return unbound(objType.Name, field)
	case schema.Mutation != nil && objType.Name == schema.Mutation.Name:
		if r, ok := rf.mutations[field]; ok {
			return r
		}
		return unbound(objType.Name, field)
	}

	if r, ok := rf.fields[objType.Name][field]; ok {
		return r
	}
	return defaultResolver(objType.Name, field)
}

func introspectionDisabled(context.Context, ResolveParams) (any, error) {
	return nil, ErrIntrospectionDisabled
}

func unbound(typeName, field string) FieldResolver {
	return func(context.Context, ResolveParams) (any, error) {
		return nil, domainerrors.Internalf("no resolver registered for %s.%s", typeName, field)
	}
}

func defaultResolver(typeName, field string) FieldResolver {
	return func(_ context.Context, p ResolveParams) (any, error) {
		if m, ok := p.Source.(map[string]any); ok {
			return m[field], nil
		}
		return nil, domainerrors.Internalf("no resolver registered for %s.%s", typeName, field)
	}
}
