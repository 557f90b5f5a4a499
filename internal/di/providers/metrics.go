package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/bookcatalog/internal/metrics"
)

// ProvideMetrics provides the Prometheus metrics registry.
func ProvideMetrics(_ do.Injector) (*metrics.Metrics, error) {
	return metrics.New(), nil
}
