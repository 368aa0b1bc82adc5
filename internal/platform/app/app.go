// Package app assembles the ledger services from configuration. The HTTP
// server, the CLI and the worker all start from here.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	rediscache "github.com/SscSPs/general_ledger/internal/adapters/cache/redis"
	"github.com/SscSPs/general_ledger/internal/adapters/database/memory"
	"github.com/SscSPs/general_ledger/internal/adapters/database/pgsql"
	"github.com/SscSPs/general_ledger/internal/adapters/locking"
	portsrepo "github.com/SscSPs/general_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/general_ledger/internal/core/ports/services"
	"github.com/SscSPs/general_ledger/internal/core/services"
	"github.com/SscSPs/general_ledger/internal/core/templates"
	"github.com/SscSPs/general_ledger/internal/observability"
	"github.com/SscSPs/general_ledger/internal/platform/config"
	"github.com/SscSPs/general_ledger/pkg/database"
	"github.com/redis/go-redis/v9"
)

// App holds the wired services and the resources behind them.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Repos    portsrepo.RepositoryProvider
	Services *portssvc.ServiceContainer
	Metrics  *observability.Metrics
	Redis    *redis.Client // nil when Redis is disabled

	closers []func()
}

// Close releases every resource in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Options tune what New sets up.
type Options struct {
	// SkipMigrations leaves the schema untouched.
	SkipMigrations bool
}

// New connects storage and Redis according to cfg and builds the service container.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*App, error) {
	a := &App{Config: cfg, Logger: logger, Metrics: observability.NewMetrics()}

	repos, err := a.openStorage(ctx, opts)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Repos = repos

	registry, err := templates.LoadEmbedded()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load account templates: %w", err)
	}

	svcOpts := []services.ServiceOption{
		services.WithMetrics(a.Metrics),
		services.WithTemplates(registry),
		services.WithIntegrityConcurrency(cfg.WorkerConcurrency),
		services.WithRetryPolicy(services.RetryPolicy{
			Attempts:  cfg.StructuralRetryAttempts,
			BaseDelay: cfg.StructuralRetryBaseDelay,
			MaxDelay:  time.Second,
		}),
	}

	if cfg.RedisEnabled() {
		client, err := database.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Redis = client
		a.closers = append(a.closers, func() {
			if err := client.Close(); err != nil {
				logger.Warn("redis close", slog.String("error", err.Error()))
			}
		})
		svcOpts = append(svcOpts,
			services.WithSubtreeLocker(locking.NewRedisLocker(client, cfg.StructuralLockTTL)),
			services.WithBalanceCache(rediscache.NewBalanceCache(client, cfg.BalanceCacheTTL)),
		)
	} else {
		logger.Info("Redis disabled; using in-process structural locks and no balance cache")
		svcOpts = append(svcOpts, services.WithSubtreeLocker(locking.NewLocalLocker()))
	}

	a.Services = services.NewServiceContainer(repos, svcOpts...)
	return a, nil
}

func (a *App) openStorage(ctx context.Context, opts Options) (portsrepo.RepositoryProvider, error) {
	cfg := a.Config
	switch cfg.StorageDriver {
	case config.StorageMemory:
		return memory.NewStore().Repositories(), nil
	case config.StoragePgsql:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, a.Logger)
		if err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
		a.closers = append(a.closers, func() { database.ClosePgxPool(pool, a.Logger) })
		if !opts.SkipMigrations {
			if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, a.Logger); err != nil {
				return portsrepo.RepositoryProvider{}, err
			}
		}
		return pgsql.NewRepositoryProvider(pool), nil
	}
	return portsrepo.RepositoryProvider{}, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
