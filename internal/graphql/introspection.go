package graphql

import (
	"context"

	"github.com/99designs/gqlgen/graphql/introspection"
	"github.com/vektah/gqlparser/v2/ast"

	domainerrors "github.com/listenupapp/bookcatalog/internal/errors"
)

func resolveSchema(_ context.Context, p ResolveParams) (any, error) {
	return introspection.WrapSchema(p.Schema), nil
}

func resolveType(_ context.Context, p ResolveParams) (any, error) {
	name, _ := p.Args["name"].(string)
	def := p.Schema.Types[name]
	if def == nil {
		return nil, nil
	}
	return introspection.WrapTypeFromDef(p.Schema, def), nil
}

// definition returns the named definition behind t, or nil for LIST and
// NON_NULL wrappers.
func definition(t *introspection.Type, schema *ast.Schema) *ast.Definition {
	name := t.Name()
	if name == nil {
		return nil
	}
	return schema.Types[*name]
}

// kindIs reports whether the named type behind t has one of kinds.
func kindIs(t *introspection.Type, schema *ast.Schema, kinds ...ast.DefinitionKind) bool {
	def := definition(t, schema)
	if def == nil {
		return false
	}
	for _, k := range kinds {
		if def.Kind == k {
			return true
		}
	}
	return false
}

func includeDeprecated(p ResolveParams) bool {
	b, _ := p.Args["includeDeprecated"].(bool)
	return b
}

// on adapts fn into a FieldResolver for sources of type T. Lists of
// introspection values hold them by value, single values by pointer.
func on[T any](fn func(*T, ResolveParams) any) FieldResolver {
	return func(_ context.Context, p ResolveParams) (any, error) {
		switch src := p.Source.(type) {
		case *T:
			if src != nil {
				return fn(src, p), nil
			}
		case T:
			return fn(&src, p), nil
		}
		return nil, domainerrors.Internalf("unexpected %T resolving introspection field %s", p.Source, p.Field.Name)
	}
}

// introspectionResolvers binds the fields of the introspection types.
func introspectionResolvers() map[string]map[string]FieldResolver {
	return map[string]map[string]FieldResolver{
		"__Schema": {
			"description": on(func(*introspection.Schema, ResolveParams) any { return nil }),
			"types": on(func(s *introspection.Schema, _ ResolveParams) any { return s.Types() }),
			"queryType": on(func(s *introspection.Schema, _ ResolveParams) any { return s.QueryType() }),
			"mutationType": on(func(s *introspection.Schema, _ ResolveParams) any {
				return s.MutationType()
			}),
			"subscriptionType": on(func(s *introspection.Schema, _ ResolveParams) any {
				return s.SubscriptionType()
			}),
			"directives": on(func(s *introspection.Schema, _ ResolveParams) any { return s.Directives() }),
		},

		"__Type": {
			"kind":        on(func(t *introspection.Type, _ ResolveParams) any { return t.Kind() }),
			"name":        on(func(t *introspection.Type, _ ResolveParams) any { return t.Name() }),
			"description": on(func(t *introspection.Type, _ ResolveParams) any { return t.Description() }),
			"specifiedByURL": on(func(t *introspection.Type, p ResolveParams) any {
				def := definition(t, p.Schema)
				if def == nil || def.Kind != ast.Scalar {
					return nil
				}
				if d := def.Directives.ForName("specifiedBy"); d != nil {
					if url := d.Arguments.ForName("url"); url != nil && url.Value != nil {
						return url.Value.Raw
					}
				}
				return nil
			}),
			"fields": on(func(t *introspection.Type, p ResolveParams) any {
				if !kindIs(t, p.Schema, ast.Object, ast.Interface) {
					return nil
				}
				return t.Fields(includeDeprecated(p))
			}),
			"interfaces": on(func(t *introspection.Type, p ResolveParams) any {
				if !kindIs(t, p.Schema, ast.Object, ast.Interface) {
					return nil
				}
				return t.Interfaces()
			}),
			"possibleTypes": on(func(t *introspection.Type, p ResolveParams) any {
				if !kindIs(t, p.Schema, ast.Interface, ast.Union) {
					return nil
				}
				return t.PossibleTypes()
			}),
			"enumValues": on(func(t *introspection.Type, p ResolveParams) any {
				if !kindIs(t, p.Schema, ast.Enum) {
					return nil
				}
				return t.EnumValues(includeDeprecated(p))
			}),
			"inputFields": on(func(t *introspection.Type, p ResolveParams) any {
				if !kindIs(t, p.Schema, ast.InputObject) {
					return nil
				}
				return t.InputFields()
			}),
			"ofType": on(func(t *introspection.Type, _ ResolveParams) any { return t.OfType() }),
			"isOneOf": on(func(t *introspection.Type, p ResolveParams) any {
				if !kindIs(t, p.Schema, ast.InputObject) {
					return nil
				}
				return definition(t, p.Schema).Directives.ForName("oneOf") != nil
			}),
		},

		"__Field": {
			"name":        on(func(f *introspection.Field, _ ResolveParams) any { return f.Name }),
			"description": on(func(f *introspection.Field, _ ResolveParams) any { return f.Description() }),
			"args":        on(func(f *introspection.Field, _ ResolveParams) any { return f.Args }),
			"type":        on(func(f *introspection.Field, _ ResolveParams) any { return f.Type }),
			"isDeprecated": on(func(f *introspection.Field, _ ResolveParams) any {
				return f.IsDeprecated()
			}),
			"deprecationReason": on(func(f *introspection.Field, _ ResolveParams) any {
				return f.DeprecationReason()
			}),
		},

		"__InputValue": {
			"name": on(func(v *introspection.InputValue, _ ResolveParams) any { return v.Name }),
			"description": on(func(v *introspection.InputValue, _ ResolveParams) any {
				return v.Description()
			}),
			"type":         on(func(v *introspection.InputValue, _ ResolveParams) any { return v.Type }),
			"defaultValue": on(func(v *introspection.InputValue, _ ResolveParams) any { return v.DefaultValue }),
			// Wrapped input values do not carry their directives.
			"isDeprecated":      on(func(*introspection.InputValue, ResolveParams) any { return false }),
			"deprecationReason": on(func(*introspection.InputValue, ResolveParams) any { return nil }),
		},

		"__EnumValue": {
			"name": on(func(v *introspection.EnumValue, _ ResolveParams) any { return v.Name }),
			"description": on(func(v *introspection.EnumValue, _ ResolveParams) any {
				return v.Description()
			}),
			"isDeprecated": on(func(v *introspection.EnumValue, _ ResolveParams) any {
				return v.IsDeprecated()
			}),
			"deprecationReason": on(func(v *introspection.EnumValue, _ ResolveParams) any {
				return v.DeprecationReason()
			}),
		},

		"__Directive": {
			"name": on(func(d *introspection.Directive, _ ResolveParams) any { return d.Name }),
			"description": on(func(d *introspection.Directive, _ ResolveParams) any {
				return d.Description()
			}),
			"locations":    on(func(d *introspection.Directive, _ ResolveParams) any { return d.Locations }),
			"args":         on(func(d *introspection.Directive, _ ResolveParams) any { return d.Args }),
			"isRepeatable": on(func(d *introspection.Directive, _ ResolveParams) any { return d.IsRepeatable }),
		},
	}
}
