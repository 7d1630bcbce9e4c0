package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/domain"
	"github.com/phrazzld/studyhall/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockAchievementStore is a mock of store.AchievementStore for use with testify/mock.
type TestifyMockAchievementStore struct {
	mock.Mock
}

var _ store.AchievementStore = (*TestifyMockAchievementStore)(nil)

// ListAchievements is a mock implementation of store.AchievementStore.ListAchievements
func (m *TestifyMockAchievementStore) ListAchievements(ctx context.Context) ([]domain.Achievement, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]domain.Achievement); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListUnlocked is a mock implementation of store.AchievementStore.ListUnlocked
func (m *TestifyMockAchievementStore) ListUnlocked(
	ctx context.Context,
	userID uuid.UUID,
) ([]domain.UnlockedAchievement, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]domain.UnlockedAchievement); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// InsertUnlock is a mock implementation of store.AchievementStore.InsertUnlock
func (m *TestifyMockAchievementStore) InsertUnlock(ctx context.Context, userID, achievementID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, achievementID)
	return args.Bool(0), args.Error(1)
}
