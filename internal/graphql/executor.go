package graphql

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"reflect"
	"runtime/debug"
	"strconv"
	"time"

	gqlgen "github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	domainerrors "github.com/listenupapp/bookcatalog/internal/errors"
)

// Operation outcomes reported to a Recorder.
const (
	StatusSuccess  = "success"
	StatusPartial  = "partial"
	StatusRejected = "rejected"
)

// Recorder receives execution measurements.
type Recorder interface {
	// ObserveOperation counts one request by operation type and outcome.
	ObserveOperation(operation, status string)
	// ObserveField records how long a root field resolver ran.
	ObserveField(field string, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveOperation(string, string)       {}
func (nopRecorder) ObserveField(string, time.Duration) {}

// Executor runs requests against a schema using a resolver table.
type Executor struct {
	schema    *Schema
	resolvers *ResolverFactory
	recorder  Recorder
	logger    *slog.Logger
}

// NewExecutor creates an executor.
func NewExecutor(schema *Schema, resolvers *ResolverFactory, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Executor{
		schema:    schema,
		resolvers: resolvers,
		recorder:  nopRecorder{},
		logger:    logger,
	}
}

// SetRecorder registers r to receive execution measurements.
func (e *Executor) SetRecorder(r Recorder) {
	if r == nil {
		r = nopRecorder{}
	}
	e.recorder = r
}

// Execute validates and runs req. The returned response is never nil.
//
// Validation failures produce a response without data. Once execution
// starts, resolver failures are reported per field and the affected value
// becomes null, propagating to the nearest nullable parent.
func (e *Executor) Execute(ctx context.Context, req *Request) *Response {
	op, errs := prepare(e.schema.AST(), req)
	if len(errs) > 0 {
		e.recorder.ObserveOperation("unknown", StatusRejected)
		e.logger.Debug("GraphQL request rejected", "errors", errs.Error())
		return &Response{Errors: errs, status: http.StatusBadRequest}
	}

	start := time.Now()
	ex := &execution{
		Executor: e,
		schema:   e.schema.AST(),
		opctx: &gqlgen.OperationContext{
			Doc:       op.doc,
			Operation: op.op,
			Variables: op.vars,
		},
		vars: op.vars,
	}

	// Fields run one after another, which gives mutations their required
	// serial order.
	root := ex.schema.Query
	if op.op.Operation == ast.Mutation {
		root = ex.schema.Mutation
	}

	resp := &Response{executed: true}
	if root == nil {
		resp.Errors = gqlerror.List{gqlerror.Errorf("schema does not support %s operations", op.op.Operation)}
	} else {
		data, ok := ex.executeSelectionSet(ctx, root, nil, op.op.SelectionSet, nil)
		if ok {
			resp.Data = data
		}
		resp.Errors = ex.errs
	}

	status := StatusSuccess
	if len(resp.Errors) > 0 {
		status = StatusPartial
	}
	e.recorder.ObserveOperation(string(op.op.Operation), status)
	e.logger.Debug("GraphQL operation executed",
		"operation", string(op.op.Operation),
		"name", op.op.Name,
		"errors", len(resp.Errors),
		"duration", time.Since(start))

	return resp
}

// execution holds the state of one operation.
type execution struct {
	*Executor
	schema *ast.Schema
	opctx  *gqlgen.OperationContext
	vars   map[string]any
	errs   gqlerror.List
}

func (ex *execution) report(err error, field *ast.Field, path ast.Path) {
	ex.errs = append(ex.errs, fieldError(err, field, path))
}

// executeSelectionSet resolves sel against source of type objType. A false
// result means a non-null field failed and the whole object must be null.
func (ex *execution) executeSelectionSet(ctx context.Context, objType *ast.Definition, source any, sel ast.SelectionSet, path ast.Path) (*ResultMap, bool) {
	fields := gqlgen.CollectFields(ex.opctx, sel, ex.satisfies(objType))

	result := newResultMap(len(fields))
	for _, field := range fields {
		key := field.Alias
		if key == "" {
			key = field.Name
		}
		val, ok := ex.resolveField(ctx, objType, source, field, appendPath(path, ast.PathName(key)), len(path) == 0)
		if !ok {
			return nil, false
		}
		result.Set(key, val)
	}
	return result, true
}

// satisfies lists the type conditions a fragment may name to apply to
// objType.
func (ex *execution) satisfies(objType *ast.Definition) []string {
	names := []string{objType.Name}
	for _, def := range ex.schema.GetImplements(objType) {
		names = append(names, def.Name)
	}
	return names
}

// resolveField runs the resolver for field and completes the value. A false
// result means null must propagate to the parent.
func (ex *execution) resolveField(ctx context.Context, objType *ast.Definition, source any, field gqlgen.CollectedField, path ast.Path, root bool) (any, bool) {
	if field.Name == "__typename" {
		return objType.Name, true
	}

	def := field.Definition
	if def == nil {
		def = objType.Fields.ForName(field.Name)
	}
	if def == nil {
		ex.report(domainerrors.Internalf("field %s.%s is not defined", objType.Name, field.Name), field.Field, path)
		return nil, true
	}

	if err := ctx.Err(); err != nil {
		ex.report(domainerrors.Unavailable("request cancelled").WithCause(err), field.Field, path)
		return nil, !def.Type.NonNull
	}

	resolver := ex.resolvers.resolverFor(ex.schema, objType, field.Name)
	params := ResolveParams{
		Source: source,
		Args:   field.ArgumentMap(ex.vars),
		Field:  field.Field,
		Path:   path,
		Schema: ex.schema,
	}

	start := time.Now()
	val, err := ex.call(ctx, resolver, objType.Name+"."+field.Name, params)
	if root {
		ex.recorder.ObserveField(objType.Name+"."+field.Name, time.Since(start))
	}
	if err != nil {
		ex.report(err, field.Field, path)
		return nil, !def.Type.NonNull
	}

	return ex.completeValue(ctx, def.Type, field, val, path)
}

// call runs r, turning a panic into an internal error.
func (ex *execution) call(ctx context.Context, r FieldResolver, name string, p ResolveParams) (val any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			ex.logger.Error("Resolver panicked",
				"field", name,
				"panic", rec,
				"stack", string(debug.Stack()))
			val, err = nil, domainerrors.Internal("internal server error")
		}
	}()
	return r(ctx, p)
}

// completeValue shapes val according to typ. A false result means val
// is null in a non-null position and the parent must become null.
func (ex *execution) completeValue(ctx context.Context, typ *ast.Type, field gqlgen.CollectedField, val any, path ast.Path) (any, bool) {
	if isNull(val) {
		if typ.NonNull {
			ex.report(domainerrors.Internalf("Cannot return null for non-nullable field %s.", fieldName(field.Field)), field.Field, path)
			return nil, false
		}
		return nil, true
	}

	if typ.Elem != nil {
		rv := reflect.ValueOf(val)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			ex.report(domainerrors.Internalf("expected a list for field %s, got %T", fieldName(field.Field), val), field.Field, path)
			return nil, !typ.NonNull
		}
		items := make([]any, rv.Len())
		for i := range items {
			item, ok := ex.completeValue(ctx, typ.Elem, field, rv.Index(i).Interface(), appendPath(path, ast.PathIndex(i)))
			if !ok {
				return nil, !typ.NonNull
			}
			items[i] = item
		}
		return items, true
	}

	def := ex.schema.Types[typ.NamedType]
	if def == nil {
		ex.report(domainerrors.Internalf("unknown type %s", typ.NamedType), field.Field, path)
		return nil, !typ.NonNull
	}

	switch def.Kind {
	case ast.Scalar, ast.Enum:
		out, err := serialize(def, val)
		if err != nil {
			ex.report(err, field.Field, path)
			return nil, !typ.NonNull
		}
		return out, true

	case ast.Object, ast.Interface, ast.Union:
		objType, err := ex.concreteType(def, val)
		if err != nil {
			ex.report(err, field.Field, path)
			return nil, !typ.NonNull
		}

		obj, ok := ex.executeSelectionSet(ctx, objType, val, field.Selections, path)
		if !ok {
			return nil, !typ.NonNull
		}
		return obj, true
	}

	ex.report(domainerrors.Internalf("cannot output values of %s type %s", def.Kind, def.Name), field.Field, path)
	return nil, !typ.NonNull
}

// concreteType resolves the object type of val for an output of type def.
func (ex *execution) concreteType(def *ast.Definition, val any) (*ast.Definition, error) {
	if def.Kind == ast.Object {
		return def, nil
	}

	var name string
	if m, ok := val.(map[string]any); ok {
		name, _ = m["__typename"].(string)
	}

	possible := ex.schema.GetPossibleTypes(def)
	if name == "" && len(possible) == 1 {
		return possible[0], nil
	}
	for _, t := range possible {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, domainerrors.Internalf("cannot resolve the concrete type of %s for %T", def.Name, val)
}

func fieldName(f *ast.Field) string {
	if f.ObjectDefinition != nil {
		return f.ObjectDefinition.Name + "." + f.Name
	}
	return f.Name
}

func appendPath(path ast.Path, el ast.PathElement) ast.Path {
	out := make(ast.Path, len(path), len(path)+1)
	copy(out, path)
	return append(out, el)
}

// isNull reports whether val is a GraphQL null. Nil slices are empty lists,
// not nulls.
func isNull(val any) bool {
	if val == nil {
		return true
	}
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// serialize converts a resolved leaf value to its JSON output form.
func serialize(def *ast.Definition, val any) (any, error) {
	if rv := reflect.ValueOf(val); rv.Kind() == reflect.Pointer {
		val = rv.Elem().Interface()
	}

	if def.Kind == ast.Enum {
		name := fmt.Sprint(val)
		if def.EnumValues.ForName(name) == nil {
			return nil, domainerrors.Internalf("Enum %q cannot represent value: %q", def.Name, name)
		}
		return name, nil
	}

	switch def.Name {
	case "String", "ID":
		switch v := val.(type) {
		case string:
			return v, nil
		case fmt.Stringer:
			return v.String(), nil
		case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
			return fmt.Sprint(v), nil
		}
		return nil, domainerrors.Internalf("%s cannot represent value: %v", def.Name, val)

	case "Int":
		n, ok := toFloat(val)
		if !ok || n != math.Trunc(n) {
			return nil, domainerrors.Internalf("Int cannot represent non-integer value: %v", val)
		}
		if n > math.MaxInt32 || n < math.MinInt32 {
			return nil, domainerrors.Internalf("Int cannot represent non 32-bit signed integer value: %v", val)
		}
		return int64(n), nil

	case "Float":
		n, ok := toFloat(val)
		if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, domainerrors.Internalf("Float cannot represent non numeric value: %v", val)
		}
		return n, nil

	case "Boolean":
		b, ok := val.(bool)
		if !ok {
			return nil, domainerrors.Internalf("Boolean cannot represent a non boolean value: %v", val)
		}
		return b, nil
	}

	// Custom scalars are passed through.
	return val, nil
}

func toFloat(val any) (float64, bool) {
	switch v := val.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}
