// Package achievement evaluates the achievement catalog against a user's
// progress and records new unlocks.
package achievement

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/domain"
	"github.com/phrazzld/studyhall/internal/events"
	"github.com/phrazzld/studyhall/internal/platform/logger"
	"github.com/phrazzld/studyhall/internal/service"
	"github.com/phrazzld/studyhall/internal/store"
)

// Status pairs a catalog entry with whether the user has unlocked it.
type Status struct {
	domain.Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}

// Service is the achievement engine.
type Service struct {
	store   store.AchievementStore
	emitter events.EventEmitter
	logger  *slog.Logger
}

// NewService creates an achievement service. emitter may be nil.
func NewService(s store.AchievementStore, emitter events.EventEmitter, logger *slog.Logger) *Service {
	if s == nil {
		panic("achievement store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   s,
		emitter: emitter,
		logger:  logger.With(slog.String("component", "achievement_service")),
	}
}

// CheckAndUnlock unlocks every catalog achievement the user now qualifies for
// and returns the ids inserted by this call, in catalog order.
//
// An unlock already recorded, including one inserted concurrently by another
// check, is not reported again. The profile is never modified.
func (s *Service) CheckAndUnlock(
	ctx context.Context,
	userID uuid.UUID,
	currentXP, postCount int,
) ([]uuid.UUID, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))

	catalog, err := s.store.ListAchievements(ctx)
	if err != nil {
		return nil, service.NewServiceError("achievement", "check_and_unlock", "failed to load catalog", err)
	}
	unlocked, err := s.store.ListUnlocked(ctx, userID)
	if err != nil {
		return nil, service.NewServiceError("achievement", "check_and_unlock", "failed to load unlocks", err)
	}

	have := make(map[uuid.UUID]struct{}, len(unlocked))
	for _, u := range unlocked {
		have[u.AchievementID] = struct{}{}
	}

	newlyUnlocked := []uuid.UUID{}
	for i := range catalog {
		a := &catalog[i]
		if _, ok := have[a.ID]; ok {
			continue
		}
		if !a.SatisfiedBy(currentXP, postCount) {
			continue
		}

		inserted, err := s.store.InsertUnlock(ctx, userID, a.ID)
		if err != nil {
			return newlyUnlocked, service.NewServiceError("achievement", "check_and_unlock",
				"failed to record unlock of "+a.Name, err)
		}
		if !inserted {
			log.Debug("achievement unlocked concurrently", slog.String("achievement_id", a.ID.String()))
			continue
		}
		newlyUnlocked = append(newlyUnlocked, a.ID)

		log.Info("achievement unlocked",
			slog.String("achievement_id", a.ID.String()),
			slog.String("name", a.Name))
		if err := events.Emit(ctx, s.emitter, events.TypeAchievementUnlocked, userID,
			events.AchievementUnlockedPayload{AchievementID: a.ID, XP: currentXP, PostCount: postCount},
		); err != nil {
			log.Warn("failed to emit achievement event", slog.String("error", err.Error()))
		}
	}
	return newlyUnlocked, nil
}

// List returns the catalog annotated with the user's unlocks.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Status, error) {
	catalog, err := s.store.ListAchievements(ctx)
	if err != nil {
		return nil, service.NewServiceError("achievement", "list", "failed to load catalog", err)
	}
	unlocked, err := s.store.ListUnlocked(ctx, userID)
	if err != nil {
		return nil, service.NewServiceError("achievement", "list", "failed to load unlocks", err)
	}

	byID := make(map[uuid.UUID]domain.UnlockedAchievement, len(unlocked))
	for _, u := range unlocked {
		byID[u.AchievementID] = u
	}

	out := make([]Status, len(catalog))
	for i, a := range catalog {
		out[i] = Status{Achievement: a}
		if u, ok := byID[a.ID]; ok {
			out[i].Unlocked = true
			at := u.UnlockedAt
			out[i].UnlockedAt = &at
		}
	}
	return out, nil
}
