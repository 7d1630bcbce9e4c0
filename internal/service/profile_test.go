package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/domain"
	"github.com/phrazzld/studyhall/internal/mocks"
	"github.com/phrazzld/studyhall/internal/platform/memory"
	"github.com/phrazzld/studyhall/internal/service"
	"github.com/phrazzld/studyhall/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestEnsureProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a level one profile once", func(t *testing.T) {
		s := memory.New(nil)
		userID := uuid.New()

		first, err := service.EnsureProfile(ctx, s, userID)
		require.NoError(t, err)
		assert.Equal(t, 0, first.XP)
		assert.Equal(t, 1, first.Level)
		assert.Equal(t, domain.DefaultSlotValue, first.BorderSlot)

		_, err = s.AwardXP(ctx, userID, 40)
		require.NoError(t, err)

		second, err := service.EnsureProfile(ctx, s, userID)
		require.NoError(t, err)
		assert.Equal(t, 40, second.XP, "existing profile is returned, not replaced")
	})

	t.Run("lost creation race reads the winner", func(t *testing.T) {
		userID := uuid.New()
		winner, err := domain.NewProgressProfile(userID)
		require.NoError(t, err)

		profiles := &mocks.TestifyMockProfileStore{}
		profiles.On("Get", mock.Anything, userID).Return(nil, store.ErrProfileNotFound).Once()
		profiles.On("Create", mock.Anything, mock.AnythingOfType("*domain.ProgressProfile")).
			Return(store.ErrProfileExists).Once()
		profiles.On("Get", mock.Anything, userID).Return(winner, nil).Once()

		got, err := service.EnsureProfile(ctx, profiles, userID)

		require.NoError(t, err)
		assert.Same(t, winner, got)
		profiles.AssertExpectations(t)
	})

	t.Run("read failure is returned", func(t *testing.T) {
		boom := errors.New("connection refused")
		profiles := &mocks.TestifyMockProfileStore{}
		profiles.On("Get", mock.Anything, mock.Anything).Return(nil, boom)

		_, err := service.EnsureProfile(ctx, profiles, uuid.New())

		assert.ErrorIs(t, err, boom)
		profiles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
