package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/domain"
	"github.com/phrazzld/studyhall/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockSessionStore is a mock of store.SessionStore for use with testify/mock.
type TestifyMockSessionStore struct {
	mock.Mock
}

var _ store.SessionStore = (*TestifyMockSessionStore)(nil)

// InsertSessionResult is a mock implementation of store.SessionStore.InsertSessionResult
func (m *TestifyMockSessionStore) InsertSessionResult(
	ctx context.Context,
	result *domain.StudySessionResult,
) (bool, error) {
	args := m.Called(ctx, result)
	return args.Bool(0), args.Error(1)
}

// ListSessionResults is a mock implementation of store.SessionStore.ListSessionResults
func (m *TestifyMockSessionStore) ListSessionResults(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]domain.StudySessionResult, error) {
	args := m.Called(ctx, userID, limit)
	if results, ok := args.Get(0).([]domain.StudySessionResult); ok {
		return results, args.Error(1)
	}
	return nil, args.Error(1)
}

// TestifyMockPostStore is a mock of store.PostStore for use with testify/mock.
type TestifyMockPostStore struct {
	mock.Mock
}

var _ store.PostStore = (*TestifyMockPostStore)(nil)

// InsertPost is a mock implementation of store.PostStore.InsertPost
func (m *TestifyMockPostStore) InsertPost(ctx context.Context, post *domain.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

// CountPosts is a mock implementation of store.PostStore.CountPosts
func (m *TestifyMockPostStore) CountPosts(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}
