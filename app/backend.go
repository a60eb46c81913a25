package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GetStream/engagement-backend/config"
	"github.com/GetStream/engagement-backend/engagement"
	"github.com/GetStream/engagement-backend/memory"
	"github.com/GetStream/engagement-backend/postgres"
	"github.com/GetStream/engagement-backend/redis"
)

// backend bundles the engine's collaborators for the configured driver.
type backend struct {
	store         engagement.Store
	individuals   engagement.Directory
	organizations engagement.Directory
	graph         engagement.Graph
	cache         engagement.AuthorCache

	// ready reports whether the backing services answer.
	ready   func(ctx context.Context) error
	closers []func() error
}

func (b *backend) Close() error {
	var first error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func openBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*backend, error) {
	b := &backend{ready: func(context.Context) error { return nil }}

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pg, err := postgres.Connect(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.closers = append(b.closers, pg.Close)
		if cfg.Postgres.Migrate {
			if err := pg.Migrate(ctx); err != nil {
				_ = b.Close()
				return nil, fmt.Errorf("migrate postgres: %w", err)
			}
			logger.Info("Database schema migrated")
		}
		b.store = pg
		b.individuals = pg.Individuals()
		b.organizations = pg.Organizations()
		b.graph = pg.Graph()
		b.ready = pg.Ping

	default:
		individuals, organizations := memory.NewDirectory(), memory.NewDirectory()
		graph := memory.NewGraph()
		if cfg.Memory.Seed != "" {
			seed, err := memory.LoadSeed(cfg.Memory.Seed)
			if err != nil {
				return nil, err
			}
			seed.Apply(individuals, organizations, graph)
			logger.Info("Memory store seeded",
				slog.String("seed", cfg.Memory.Seed),
				slog.Int("individuals", len(seed.Individuals)),
				slog.Int("organizations", len(seed.Organizations)),
				slog.Int("edges", len(seed.Edges)))
		}
		b.store = memory.NewStore()
		b.individuals = individuals
		b.organizations = organizations
		b.graph = graph
	}

	if cfg.Redis.Enabled() {
		rd, err := redis.Connect(ctx, cfg.Redis.Addr, cfg.Redis.AuthorTTL)
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		b.closers = append(b.closers, rd.Close)
		b.cache = rd
		storeReady := b.ready
		b.ready = func(ctx context.Context) error {
			if err := storeReady(ctx); err != nil {
				return err
			}
			return rd.Ping(ctx)
		}
	}
	return b, nil
}
