package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Books      int                        `json:"books" doc:"Number of books in the catalog"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := make(map[string]ComponentHealth)
	overall := "healthy"

	catalogHealth, books := s.checkCatalog(ctx)
	components["catalog"] = catalogHealth
	if catalogHealth.Status != "healthy" {
		overall = catalogHealth.Status
	}

	searchHealth := s.checkSearchIndex()
	components["search"] = searchHealth
	if searchHealth.Status == "unhealthy" {
		overall = "unhealthy"
	} else if searchHealth.Status == "degraded" && overall == "healthy" {
		overall = "degraded"
	}

	graphqlHealth := s.checkGraphQL()
	components["graphql"] = graphqlHealth
	if graphqlHealth.Status == "unhealthy" {
		overall = "unhealthy"
	} else if graphqlHealth.Status == "degraded" && overall == "healthy" {
		overall = "degraded"
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Books:      books,
			Components: components,
		},
	}, nil
}

// checkCatalog verifies the catalog store answers a count.
func (s *Server) checkCatalog(ctx context.Context) (ComponentHealth, int) {
	// Handle nil service (e.g., in tests)
	if s.services == nil || s.services.Catalog == nil {
		return ComponentHealth{
			Status:  "degraded",
			Message: "catalog not configured",
		}, 0
	}

	start := time.Now()
	count, err := s.services.Catalog.CountBooks(ctx)
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Latency: latency.String(),
			Message: "catalog read failed",
		}, 0
	}

	return ComponentHealth{
		Status:  "healthy",
		Latency: latency.String(),
	}, count
}

// checkSearchIndex verifies the Bleve index is accessible.
func (s *Server) checkSearchIndex() ComponentHealth {
	if s.services == nil || s.services.Catalog == nil || !s.services.Catalog.SearchEnabled() {
		return ComponentHealth{
			Status:  "degraded",
			Message: "search not configured",
		}
	}

	start := time.Now()
	docCount, err := s.services.Catalog.IndexedBooks()
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Latency: latency.String(),
			Message: "search index unreachable",
		}
	}

	return ComponentHealth{
		Status:  "healthy",
		Latency: latency.String(),
		Message: fmt.Sprintf("%d books indexed", docCount),
	}
}

// checkGraphQL reports whether the GraphQL endpoint is mounted.
func (s *Server) checkGraphQL() ComponentHealth {
	if s.opts.GraphQL == nil {
		return ComponentHealth{
			Status:  "degraded",
			Message: "graphql endpoint not mounted",
		}
	}
	return ComponentHealth{Status: "healthy"}
}
