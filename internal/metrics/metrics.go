// Package metrics exposes Prometheus metrics for the GraphQL executor and
// the catalog. Metrics live on a private registry so tests and multiple
// servers in one process never collide.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "bookcatalog"

// Metrics records GraphQL and catalog activity. It satisfies
// graphql.Recorder and service.CatalogObserver.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	fields     *prometheus.HistogramVec
	books      prometheus.Gauge
}

// New creates the metrics and registers them, along with the Go runtime
// and process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "graphql",
			Name:      "operations_total",
			Help:      "GraphQL operations by operation type and outcome.",
		}, []string{"operation", "status"}),
		fields: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "graphql",
			Name:      "field_duration_seconds",
			Help:      "Time spent in root field resolvers.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"field"}),
		books: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "catalog",
			Name:      "books",
			Help:      "Number of books in the catalog.",
		}),
	}

	m.registry.MustRegister(
		m.operations,
		m.fields,
		m.books,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveOperation counts one executed or rejected operation.
func (m *Metrics) ObserveOperation(operation, status string) {
	m.operations.WithLabelValues(operation, status).Inc()
}

// ObserveField records how long a root field took to resolve.
func (m *Metrics) ObserveField(field string, d time.Duration) {
	m.fields.WithLabelValues(field).Observe(d.Seconds())
}

// CatalogSize sets the catalog size gauge.
func (m *Metrics) CatalogSize(count int) {
	m.books.Set(float64(count))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		Registry:          m.registry,
		EnableOpenMetrics: true,
	})
}
