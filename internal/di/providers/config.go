// Package providers contains dependency injection providers for the book catalog server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/bookcatalog/internal/config"
	"github.com/listenupapp/bookcatalog/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(_ do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting book catalog server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"catalog_backend", cfg.Catalog.Backend,
	)

	return log, nil
}
