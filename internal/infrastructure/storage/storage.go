// Package storage opens the repositories for the configured store driver.
package storage

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/eventplanner/config"
	"github.com/oksasatya/eventplanner/internal/domain/repository"
	"github.com/oksasatya/eventplanner/internal/infrastructure/mongodb"
	pginfra "github.com/oksasatya/eventplanner/internal/infrastructure/postgres"
)

// Stores bundles the repositories of one backend with its health check and shutdown.
type Stores struct {
	Users  repository.UserRepository
	Events repository.EventRepository
	ping   func(ctx context.Context) error
	close  func()
}

func (s *Stores) Ping(ctx context.Context) error { return s.ping(ctx) }

func (s *Stores) Close() { s.close() }

// Open connects to cfg.StoreDriver, prepares its schema and returns the repositories.
func Open(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		pool, err := pginfra.NewPool(ctx, pginfra.OptionsFromConfig(cfg))
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return &Stores{
			Users:  pginfra.NewUserRepository(pool),
			Events: pginfra.NewEventRepository(pool),
			ping:   pool.Ping,
			close:  pool.Close,
		}, nil
	default:
		store, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoTimeout)
		if err != nil {
			return nil, fmt.Errorf("connect mongodb: %w", err)
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close(context.Background())
			return nil, fmt.Errorf("mongodb indexes: %w", err)
		}
		return &Stores{
			Users:  store.Users(),
			Events: store.Events(),
			ping:   store.Ping,
			close:  func() { _ = store.Close(context.Background()) },
		}, nil
	}
}
