package main

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"net/http"

	"github.com/phrazzld/studyhall/internal/api"
	"github.com/phrazzld/studyhall/internal/config"
	"github.com/phrazzld/studyhall/internal/events"
	"github.com/phrazzld/studyhall/internal/quiz"
	"github.com/phrazzld/studyhall/internal/service/achievement"
	"github.com/phrazzld/studyhall/internal/service/progress"
	"github.com/phrazzld/studyhall/internal/service/shop"
)

// application holds the wired dependencies and what must be released on
// shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	stores *stores

	emitter  *events.InMemoryEventEmitter
	registry *quiz.Registry
	router   http.Handler
}

// newApplication opens the stores and wires services, event handlers and
// routes on top of them.
func newApplication(ctx context.Context, cfg *config.Config, log *slog.Logger) (*application, error) {
	s, err := openStores(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	emitter := events.NewInMemoryEventEmitter(log)
	emitter.RegisterHandler(events.NewAuditHandler(log))

	achievements := achievement.NewService(s.achievements, emitter, log)
	emitter.RegisterHandler(achievement.NewSessionCompletedHandler(achievements, s.profiles, s.posts, log))

	progressService := progress.NewService(
		s.profiles,
		s.posts,
		s.sessions,
		achievements,
		progress.Config{PostXPReward: cfg.Progression.PostXPReward},
		log,
	)
	shopService := shop.NewService(s.shop, s.profiles, s.posts, achievements, emitter, log)

	registry := quiz.NewRegistry(func() quiz.Dependencies {
		return quiz.Dependencies{
			Decks:    s.decks,
			Sessions: s.sessions,
			Emitter:  emitter,
			Rand:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
			Logger:   log,
		}
	}, log)

	router := api.NewRouter(api.Handlers{
		Progress: api.NewProgressHandler(progressService, achievements, log),
		Shop:     api.NewShopHandler(shopService, log),
		Quiz:     api.NewQuizHandler(registry, log),
	}, log)

	log.Info("application initialized",
		"driver", cfg.Database.Driver,
		"redis_enabled", cfg.Redis.Enabled,
		"post_xp_reward", cfg.Progression.PostXPReward)

	return &application{
		config:   cfg,
		logger:   log,
		stores:   s,
		emitter:  emitter,
		registry: registry,
		router:   router,
	}, nil
}

// cleanup releases the stores. It is safe to call once the server stopped.
func (app *application) cleanup() {
	app.logger.Info("releasing resources")
	app.stores.close(app.logger)
}
