package graphql

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
)

// maxRequestBytes bounds the size of a POST body after decompression.
const maxRequestBytes = 1 << 20

// A Request represents a GraphQL request. It makes no guarantees that the
// request is valid.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
	Extensions    map[string]any `json:"extensions,omitempty"`

	// queryOnly is set for GET requests, which must not run mutations.
	queryOnly bool
}

// requestError is a failure to read a request off the wire.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

func newRequestError(status int, format string, args ...any) *requestError {
	return &requestError{status: status, msg: fmt.Sprintf(format, args...)}
}

// operation is a parsed, validated request ready to execute.
type operation struct {
	doc  *ast.QueryDocument
	op   *ast.OperationDefinition
	vars map[string]any
}

// prepare parses and validates req against schema and picks the operation
// to run. Any returned errors mean execution must not start.
func prepare(schema *ast.Schema, req *Request) (*operation, gqlerror.List) {
	if req == nil || strings.TrimSpace(req.Query) == "" {
		return nil, gqlerror.List{gqlerror.Errorf("no query string supplied in request")}
	}

	doc, err := parser.ParseQuery(&ast.Source{Name: "request", Input: req.Query})
	if errs := asGQLErrors(err); len(errs) > 0 {
		return nil, errs
	}

	if errs := validator.Validate(schema, doc); len(errs) > 0 {
		return nil, errs
	}

	if len(doc.Operations) > 1 && req.OperationName == "" {
		return nil, gqlerror.List{gqlerror.Errorf(
			"operation name must be supplied when the query has more than one operation")}
	}

	op := doc.Operations.ForName(req.OperationName)
	if op == nil {
		return nil, gqlerror.List{gqlerror.Errorf("unknown operation named %q", req.OperationName)}
	}

	switch op.Operation {
	case ast.Mutation:
		if req.queryOnly {
			return nil, gqlerror.List{gqlerror.Errorf("mutations must be sent with POST")}
		}
	case ast.Subscription:
		return nil, gqlerror.List{gqlerror.Errorf("subscriptions are not supported")}
	}

	vars, err := validator.VariableValues(schema, op, req.Variables)
	if errs := asGQLErrors(err); len(errs) > 0 {
		return nil, errs
	}

	return &operation{doc: doc, op: op, vars: vars}, nil
}

type gzreadCloser struct {
	*gzip.Reader
	io.Closer
}

func (gz gzreadCloser) Close() error {
	if err := gz.Reader.Close(); err != nil {
		return err
	}
	return gz.Closer.Close()
}

// readRequest decodes a GraphQL request from GET query parameters or a
// JSON POST body. Numbers in variables decode as float64, so a number
// supplied for a String variable fails variable coercion.
func readRequest(w http.ResponseWriter, r *http.Request) (*Request, error) {
	req := &Request{}

	switch r.Method {
	case http.MethodGet:
		query := r.URL.Query()
		req.Query = query.Get("query")
		req.OperationName = query.Get("operationName")
		req.queryOnly = true

		if variables := query.Get("variables"); variables != "" {
			if err := json.Unmarshal([]byte(variables), &req.Variables); err != nil {
				return nil, newRequestError(http.StatusBadRequest, "variables are not valid JSON: %v", err)
			}
		}

	case http.MethodPost:
		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil {
			return nil, newRequestError(http.StatusUnsupportedMediaType, "unable to parse media type: %v", err)
		}
		if mediaType != "application/json" {
			return nil, newRequestError(http.StatusUnsupportedMediaType,
				"unrecognised Content-Type %q, please use application/json for GraphQL requests", mediaType)
		}

		body := r.Body
		if r.Header.Get("Content-Encoding") == "gzip" {
			zr, err := gzip.NewReader(body)
			if err != nil {
				return nil, newRequestError(http.StatusBadRequest, "unable to read gzip body: %v", err)
			}
			body = gzreadCloser{zr, body}
		}
		body = http.MaxBytesReader(w, body, maxRequestBytes)
		defer body.Close()

		if err := json.NewDecoder(body).Decode(req); err != nil {
			return nil, newRequestError(http.StatusBadRequest, "not a valid GraphQL request body: %v", err)
		}

	default:
		return nil, newRequestError(http.StatusMethodNotAllowed,
			"unrecognised request method %s, please use GET or POST for GraphQL requests", r.Method)
	}

	return req, nil
}
