package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/studyhall/internal/api/shared"
	"github.com/phrazzld/studyhall/internal/platform/logger"
)

// ProgressHandler serves the profile, posts and achievements endpoints.
type ProgressHandler struct {
	progress     ProgressService
	achievements AchievementLister
	logger       *slog.Logger
}

// NewProgressHandler creates a ProgressHandler.
func NewProgressHandler(progress ProgressService, achievements AchievementLister, logger *slog.Logger) *ProgressHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProgressHandler")
	}
	return &ProgressHandler{
		progress:     progress,
		achievements: achievements,
		logger:       logger.With(slog.String("component", "progress_handler")),
	}
}

// GetProfile handles GET /api/profile.
func (h *ProgressHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	view, err := h.progress.View(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load profile")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, view)
}

// CreatePost handles POST /api/posts. The post itself lives elsewhere; this
// records it for XP and post-count achievements.
func (h *ProgressHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	result, err := h.progress.RecordPost(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to record post")
		return
	}
	log.Debug("post recorded", slog.Int("post_count", result.PostCount))
	shared.RespondWithJSON(w, r, http.StatusCreated, result)
}

// ListAchievements handles GET /api/achievements.
func (h *ProgressHandler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	statuses, err := h.achievements.List(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list achievements")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, statuses)
}

// CheckAchievements handles POST /api/achievements/check.
func (h *ProgressHandler) CheckAchievements(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	unlocked, err := h.progress.CheckAchievements(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to check achievements")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, CheckAchievementsResponse{NewAchievements: unlocked})
}
