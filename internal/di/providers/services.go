package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/listenupapp/bookcatalog/internal/config"
	"github.com/listenupapp/bookcatalog/internal/domain"
	"github.com/listenupapp/bookcatalog/internal/logger"
	"github.com/listenupapp/bookcatalog/internal/metrics"
	"github.com/listenupapp/bookcatalog/internal/service"
)

// ProvideCatalogService provides the catalog service, seeded when configured
// and backed by the search index.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	catalogHandle := do.MustInvoke[*CatalogHandle](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	log := do.MustInvoke[*logger.Logger](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)

	svc := service.NewCatalogService(catalogHandle.Catalog, log.Component("catalog"))

	if cfg.Catalog.Seed {
		if err := svc.Seed(context.Background(), domain.SeedBooks()); err != nil {
			return nil, err
		}
	} else {
		log.Info("Catalog seeding disabled, starting empty")
	}

	// Index after seeding so the seed books are searchable.
	if err := svc.SetIndex(context.Background(), indexHandle.BookIndex); err != nil {
		return nil, err
	}

	svc.SetObserver(m)

	return svc, nil
}
