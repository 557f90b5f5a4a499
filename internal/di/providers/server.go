package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/listenupapp/bookcatalog/internal/api"
	"github.com/listenupapp/bookcatalog/internal/config"
	"github.com/listenupapp/bookcatalog/internal/graphql"
	"github.com/listenupapp/bookcatalog/internal/logger"
	"github.com/listenupapp/bookcatalog/internal/metrics"
	"github.com/listenupapp/bookcatalog/internal/service"
)

// shutdownTimeout bounds how long in-flight requests get to finish.
const shutdownTimeout = 30 * time.Second

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	// URL is where clients reach the server. It reflects the bound port,
	// which differs from the configured one when port 0 is requested.
	URL string
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server. The listener is bound before
// returning so address errors surface during bootstrap.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	catalogService := do.MustInvoke[*service.CatalogService](i)
	executor := do.MustInvoke[*graphql.Executor](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	limiter := do.MustInvoke[*RateLimiterHandle](i)

	handler := api.NewServer(
		&api.Services{Catalog: catalogService},
		api.Options{
			GraphQL:        graphql.NewHandler(executor, log.Component("graphql")),
			Metrics:        m.Handler(),
			RateLimiter:    limiter.Limiter,
			AllowedOrigins: cfg.Server.AllowedOrigins,
		},
		log.Logger,
	)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}

	url := cfg.Server.URL()
	if tcpAddr, ok := ln.Addr().(*net.TCPAddr); ok && tcpAddr.Port != cfg.Server.Port {
		url = fmt.Sprintf("http://%s/", net.JoinHostPort(cfg.Server.Host, fmt.Sprint(tcpAddr.Port)))
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv, URL: url}, nil
}
