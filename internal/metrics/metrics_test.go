package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveOperation(t *testing.T) {
	m := New()

	m.ObserveOperation("query", "success")
	m.ObserveOperation("query", "success")
	m.ObserveOperation("mutation", "partial")

	assert.InDelta(t, 2, testutil.ToFloat64(m.operations.WithLabelValues("query", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.operations.WithLabelValues("mutation", "partial")), 0)
}

func TestObserveField(t *testing.T) {
	m := New()

	m.ObserveField("Query.books", 2*time.Millisecond)
	m.ObserveField("Query.books", 3*time.Millisecond)

	assert.Equal(t, 1, testutil.CollectAndCount(m.fields, "bookcatalog_graphql_field_duration_seconds"))
}

func TestCatalogSize(t *testing.T) {
	m := New()

	m.CatalogSize(2)
	assert.InDelta(t, 2, testutil.ToFloat64(m.books), 0)

	m.CatalogSize(3)
	assert.InDelta(t, 3, testutil.ToFloat64(m.books), 0)
}

func TestHandler(t *testing.T) {
	m := New()
	m.CatalogSize(2)
	m.ObserveOperation("query", "success")

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "bookcatalog_catalog_books 2")
	assert.Contains(t, body, `bookcatalog_graphql_operations_total{operation="query",status="success"} 1`)
	assert.True(t, strings.Contains(body, "go_goroutines"), "runtime collector registered")
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()

	a.CatalogSize(5)

	assert.InDelta(t, 5, testutil.ToFloat64(a.books), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(b.books), 0)
}
