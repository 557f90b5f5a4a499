package graphql

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/vektah/gqlparser/v2/gqlerror"
)

// Response is the result of executing a GraphQL request.
//
// Data is omitted entirely when the request failed before execution; once
// execution started it is always present, possibly as null.
type Response struct {
	Errors     gqlerror.List
	Data       *ResultMap
	Extensions map[string]any

	executed bool
	status   int
}

// ErrorResponse creates a response for a request that failed before
// execution.
func ErrorResponse(err error) *Response {
	status := http.StatusBadRequest
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		status = reqErr.status
		err = gqlerror.Errorf("%s", reqErr.msg)
	}
	return &Response{Errors: asGQLErrors(err), status: status}
}

// Executed reports whether execution started.
func (r *Response) Executed() bool {
	return r.executed
}

// HTTPStatus is the status code the response should be written with.
func (r *Response) HTTPStatus() int {
	if r.executed {
		return http.StatusOK
	}
	if r.status != 0 {
		return r.status
	}
	return http.StatusBadRequest
}

// WithExtension adds a top level extension entry.
func (r *Response) WithExtension(key string, val any) {
	if r.Extensions == nil {
		r.Extensions = make(map[string]any)
	}
	r.Extensions[key] = val
}

// MarshalJSON renders the response in the standard GraphQL shape.
func (r *Response) MarshalJSON() ([]byte, error) {
	out := struct {
		Errors     gqlerror.List   `json:"errors,omitempty"`
		Data       json.RawMessage `json:"data,omitempty"`
		Extensions map[string]any  `json:"extensions,omitempty"`
	}{
		Errors:     r.Errors,
		Extensions: r.Extensions,
	}

	if r.executed {
		if r.Data == nil {
			out.Data = json.RawMessage("null")
		} else {
			data, err := json.Marshal(r.Data)
			if err != nil {
				return nil, err
			}
			out.Data = data
		}
	}

	return json.Marshal(out)
}

// WriteTo writes the JSON response to w.
func (r *Response) WriteTo(w io.Writer) (int64, error) {
	b, err := json.Marshal(r)
	if err != nil {
		b, _ = json.Marshal(ErrorResponse(err))
	}
	n, err := w.Write(b)
	return int64(n), err
}

// ResultMap is a JSON object that keeps its keys in insertion order, so
// results follow the order of the selection set.
type ResultMap struct {
	keys   []string
	values map[string]any
}

func newResultMap(size int) *ResultMap {
	return &ResultMap{
		keys:   make([]string, 0, size),
		values: make(map[string]any, size),
	}
}

// Set stores val under key. Re-setting a key keeps its original position.
func (m *ResultMap) Set(key string, val any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = val
}

// Get returns the value stored under key.
func (m *ResultMap) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in order.
func (m *ResultMap) Keys() []string {
	return m.keys
}

// MarshalJSON implements json.Marshaler.
func (m *ResultMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
