package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/domain"
	"github.com/phrazzld/studyhall/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockProfileStore is a mock of store.ProfileStore for use with testify/mock.
type TestifyMockProfileStore struct {
	mock.Mock
}

var _ store.ProfileStore = (*TestifyMockProfileStore)(nil)

// Get is a mock implementation of store.ProfileStore.Get
func (m *TestifyMockProfileStore) Get(ctx context.Context, userID uuid.UUID) (*domain.ProgressProfile, error) {
	args := m.Called(ctx, userID)
	if p, ok := args.Get(0).(*domain.ProgressProfile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// Create is a mock implementation of store.ProfileStore.Create
func (m *TestifyMockProfileStore) Create(ctx context.Context, profile *domain.ProgressProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// Update is a mock implementation of store.ProfileStore.Update
func (m *TestifyMockProfileStore) Update(
	ctx context.Context,
	userID uuid.UUID,
	patch domain.ProfilePatch,
) (*domain.ProgressProfile, error) {
	args := m.Called(ctx, userID, patch)
	if p, ok := args.Get(0).(*domain.ProgressProfile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

// AwardXP is a mock implementation of store.ProfileStore.AwardXP
func (m *TestifyMockProfileStore) AwardXP(
	ctx context.Context,
	userID uuid.UUID,
	delta int,
) (*domain.ProgressProfile, error) {
	args := m.Called(ctx, userID, delta)
	if p, ok := args.Get(0).(*domain.ProgressProfile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
