package achievement

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/studyhall/internal/events"
	"github.com/phrazzld/studyhall/internal/platform/logger"
	"github.com/phrazzld/studyhall/internal/store"
)

// SessionCompletedHandler re-checks achievements after a study session has
// been rolled into the user's profile.
type SessionCompletedHandler struct {
	svc      *Service
	profiles store.ProfileStore
	posts    store.PostStore
	logger   *slog.Logger
}

// NewSessionCompletedHandler creates the handler.
func NewSessionCompletedHandler(
	svc *Service,
	profiles store.ProfileStore,
	posts store.PostStore,
	logger *slog.Logger,
) *SessionCompletedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionCompletedHandler{
		svc:      svc,
		profiles: profiles,
		posts:    posts,
		logger:   logger.With(slog.String("component", "session_completed_handler")),
	}
}

var _ events.EventHandler = (*SessionCompletedHandler)(nil)

// HandleEvent implements events.EventHandler. Other event types are ignored.
func (h *SessionCompletedHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeSessionCompleted {
		return nil
	}
	log := logger.FromContextOrDefault(ctx, h.logger)

	profile, err := h.profiles.Get(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("failed to load profile for achievement check: %w", err)
	}
	posts, err := h.posts.CountPosts(ctx, event.UserID)
	if err != nil {
		return fmt.Errorf("failed to count posts for achievement check: %w", err)
	}

	unlocked, err := h.svc.CheckAndUnlock(ctx, event.UserID, profile.XP, posts)
	if err != nil {
		return err
	}
	if len(unlocked) > 0 {
		log.Debug("session unlocked achievements",
			slog.String("user_id", event.UserID.String()),
			slog.Int("count", len(unlocked)))
	}
	return nil
}
