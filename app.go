package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"go.uber.org/zap"

	"brunch/database"
	"brunch/internal/backend"
	catalogapp "brunch/internal/catalog/application"
	exportinfra "brunch/internal/export/infrastructure"
	ordersapp "brunch/internal/orders/application"
	planningapp "brunch/internal/planning/application"
	planninginfra "brunch/internal/planning/infrastructure"
	sharedapp "brunch/internal/shared/application"
	"brunch/internal/shared/config"
	sharedinfra "brunch/internal/shared/infrastructure"
	"brunch/internal/shared/notify"
)

// app regroupe les services construits à partir de la configuration
type app struct {
	client   *backend.Client
	planning *planningapp.PlanningService
	catalog  *catalogapp.CatalogService
	orders   *ordersapp.OrderService
	cache    *sharedinfra.InMemoryCache
	db       *sql.DB
}

// newApp câble le client REST, le cache, la séquence d'étapes et les services
// Les notifications sont écrites sur out
func newApp(ctx context.Context, cfg *config.Config, out io.Writer, logger *zap.Logger) (*app, error) {
	client := backend.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger)

	policy := sharedapp.StopOnFirstFailure
	if cfg.Saga.RollbackOnFailure {
		policy = sharedapp.StopAndCompensate
	}
	sequence := sharedapp.NewSequence(policy, logger)
	notifier := notify.NewConsoleNotifier(out, logger)
	cache := sharedinfra.NewInMemoryCache(cfg.Planning.ReferenceTTL)

	a := &app{
		client:  client,
		catalog: catalogapp.NewCatalogService(client, cache, cfg.Planning.ReferenceTTL, sequence, notifier, logger),
		orders:  ordersapp.NewOrderService(client, sequence, notifier, logger),
		cache:   cache,
	}

	var provider planningapp.Provider = client
	if cfg.Planning.Source == config.PlanningSourcePostgres {
		db, err := database.Open(ctx, cfg.Database.ConnString())
		if err != nil {
			cache.Close()
			return nil, fmt.Errorf("connexion PostgreSQL: %w", err)
		}
		a.db = db
		provider = planninginfra.NewPlanningQueryRepository(db, logger)
	}
	a.planning = planningapp.NewPlanningService(provider, exportinfra.NewXLSXWriter(logger), logger)

	logger.Debug("Application initialisée",
		zap.String("api", client.BaseURL()),
		zap.String("planning_source", cfg.Planning.Source),
		zap.Stringer("policy", policy),
	)
	return a, nil
}

// Close libère le cache et la connexion PostgreSQL
func (a *app) Close() {
	a.cache.Close()
	if a.db != nil {
		_ = a.db.Close()
	}
}
