package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/studyhall/internal/config"
	"github.com/phrazzld/studyhall/internal/platform/memory"
	"github.com/phrazzld/studyhall/internal/platform/postgres"
	"github.com/phrazzld/studyhall/internal/platform/redis"
	"github.com/phrazzld/studyhall/internal/store"
)

const (
	driverPostgres = "postgres"
	driverMemory   = "memory"
)

// stores is the persistence the services are built on, plus whatever must be
// closed on shutdown.
type stores struct {
	profiles     store.ProfileStore
	achievements store.AchievementStore
	shop         store.ShopStore
	decks        store.DeckStore
	sessions     store.SessionStore
	posts        store.PostStore

	closers []func() error
}

func (s *stores) close(log *slog.Logger) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			log.Error("failed to release resource", "error", err)
		}
	}
}

// openStores builds the configured backend. The postgres driver applies
// pending migrations before the stores are used.
func openStores(ctx context.Context, cfg *config.Config, log *slog.Logger) (*stores, error) {
	var s *stores
	switch cfg.Database.Driver {
	case driverMemory:
		mem := memory.New(log)
		if err := memory.Seed(mem); err != nil {
			return nil, fmt.Errorf("failed to seed memory store: %w", err)
		}
		log.Warn("using in-memory store, data is lost on restart")
		s = &stores{profiles: mem, achievements: mem, shop: mem, decks: mem, sessions: mem, posts: mem}

	case driverPostgres:
		db, err := postgres.Open(ctx, cfg.Database.URL, postgres.DefaultPoolConfig(), log)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db, postgres.MigrateUp, log); err != nil {
			_ = db.Close()
			return nil, err
		}
		s = postgresStores(db, log)

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	if cfg.Redis.Enabled {
		if err := s.cacheCatalogs(ctx, cfg.Redis, log); err != nil {
			s.close(log)
			return nil, err
		}
	}
	return s, nil
}

func postgresStores(db *sql.DB, log *slog.Logger) *stores {
	sessions := postgres.NewPostgresSessionStore(db, log)
	return &stores{
		profiles:     postgres.NewPostgresProfileStore(db, log),
		achievements: postgres.NewPostgresAchievementStore(db, log),
		shop:         postgres.NewPostgresShopStore(db, log),
		decks:        postgres.NewPostgresDeckStore(db, log),
		sessions:     sessions,
		posts:        sessions,
		closers:      []func() error{db.Close},
	}
}

// cacheCatalogs puts the Redis read-through cache in front of the catalog
// stores.
func (s *stores) cacheCatalogs(ctx context.Context, cfg config.RedisConfig, log *slog.Logger) error {
	backend, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		TTL:      cfg.CatalogTTL,
	})
	if err != nil {
		return err
	}
	cache := redis.NewCache(backend, cfg.CatalogTTL)
	s.achievements = redis.NewAchievementStore(s.achievements, cache, log)
	s.shop = redis.NewShopStore(s.shop, cache, log)
	s.closers = append(s.closers, backend.Close)

	log.Info("catalog cache enabled", "addr", cfg.Addr, "ttl", cfg.CatalogTTL)
	return nil
}
