package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/bookcatalog/internal/config"
	"github.com/listenupapp/bookcatalog/internal/logger"
	"github.com/listenupapp/bookcatalog/internal/store"
)

// CatalogHandle wraps the catalog store with shutdown capability.
type CatalogHandle struct {
	store.Catalog
}

// Shutdown implements do.Shutdownable.
func (h *CatalogHandle) Shutdown() error {
	return h.Close()
}

// ProvideCatalog provides an empty catalog store for the configured backend.
func ProvideCatalog(i do.Injector) (*CatalogHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	catalog, err := store.Open(cfg.Catalog.Backend, log.Component("store"))
	if err != nil {
		return nil, err
	}

	log.Info("Catalog store opened", "backend", cfg.Catalog.Backend)

	return &CatalogHandle{Catalog: catalog}, nil
}
