package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/studyhall/internal/api/middleware"
)

// Handlers groups the handlers mounted by NewRouter.
type Handlers struct {
	Progress *ProgressHandler
	Shop     *ShopHandler
	Quiz     *QuizHandler
}

// NewRouter builds the HTTP routes. Everything under /api requires the
// X-User-ID header.
func NewRouter(h Handlers, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewTraceMiddleware(logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Identity)

		r.Get("/profile", h.Progress.GetProfile)
		r.Post("/posts", h.Progress.CreatePost)

		r.Get("/achievements", h.Progress.ListAchievements)
		r.Post("/achievements/check", h.Progress.CheckAchievements)

		r.Get("/shop/items", h.Shop.ListItems)
		r.Get("/shop/inventory", h.Shop.Inventory)
		r.Post("/shop/items/{id}/purchase", h.Shop.Purchase)
		r.Post("/shop/items/{id}/equip", h.Shop.Equip)
		r.Post("/shop/items/{id}/unequip", h.Shop.Unequip)

		r.Route("/decks/{id}/session", func(r chi.Router) {
			r.Post("/", h.Quiz.LoadSession)
			r.Get("/", h.Quiz.GetSession)
			r.Post("/answer", h.Quiz.Answer)
			r.Post("/reveal", h.Quiz.Reveal)
			r.Post("/advance", h.Quiz.Advance)
			r.Post("/retreat", h.Quiz.Retreat)
			r.Post("/reset", h.Quiz.Reset)
			r.Post("/complete", h.Quiz.Complete)
		})
	})

	return r
}
