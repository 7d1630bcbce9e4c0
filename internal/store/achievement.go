package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/domain"
)

// AchievementStore defines the interface for the achievement catalog and
// the per-user unlock relation.
type AchievementStore interface {
	// ListAchievements returns the full catalog in a stable order.
	ListAchievements(ctx context.Context) ([]domain.Achievement, error)

	// ListUnlocked returns every achievement the user has unlocked.
	ListUnlocked(ctx context.Context, userID uuid.UUID) ([]domain.UnlockedAchievement, error)

	// InsertUnlock records that the user unlocked the achievement.
	// It reports false, with a nil error, when the pair already exists so that
	// concurrent checks racing on the same unlock both succeed.
	InsertUnlock(ctx context.Context, userID, achievementID uuid.UUID) (bool, error)
}
