package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/bookcatalog/internal/config"
	"github.com/listenupapp/bookcatalog/internal/graphql"
	"github.com/listenupapp/bookcatalog/internal/logger"
	"github.com/listenupapp/bookcatalog/internal/metrics"
	"github.com/listenupapp/bookcatalog/internal/service"
)

// ProvideGraphQLExecutor provides the GraphQL executor bound to the catalog.
func ProvideGraphQLExecutor(i do.Injector) (*graphql.Executor, error) {
	cfg := do.MustInvoke[*config.Config](i)
	catalogService := do.MustInvoke[*service.CatalogService](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	log := do.MustInvoke[*logger.Logger](i)

	schema, err := graphql.CatalogSchema()
	if err != nil {
		return nil, err
	}

	resolvers := graphql.CatalogResolvers(catalogService)
	if cfg.GraphQL.Introspection {
		resolvers = resolvers.WithSchemaIntrospection()
	} else {
		log.Info("GraphQL introspection disabled")
	}

	executor := graphql.NewExecutor(schema, resolvers, log.Component("graphql"))
	executor.SetRecorder(m)

	return executor, nil
}
