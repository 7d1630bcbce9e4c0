package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/domain"
	"github.com/phrazzld/studyhall/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockDeckStore is a mock of store.DeckStore for use with testify/mock.
type TestifyMockDeckStore struct {
	mock.Mock
}

var _ store.DeckStore = (*TestifyMockDeckStore)(nil)

// GetDeck is a mock implementation of store.DeckStore.GetDeck
func (m *TestifyMockDeckStore) GetDeck(ctx context.Context, deckID uuid.UUID) (*domain.Deck, error) {
	args := m.Called(ctx, deckID)
	if d, ok := args.Get(0).(*domain.Deck); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListCardItems is a mock implementation of store.DeckStore.ListCardItems
func (m *TestifyMockDeckStore) ListCardItems(ctx context.Context, deckID uuid.UUID) ([]domain.CardItem, error) {
	args := m.Called(ctx, deckID)
	if cards, ok := args.Get(0).([]domain.CardItem); ok {
		return cards, args.Error(1)
	}
	return nil, args.Error(1)
}

// CheckSharedAccess is a mock implementation of store.DeckStore.CheckSharedAccess
func (m *TestifyMockDeckStore) CheckSharedAccess(ctx context.Context, deckID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, deckID, userID)
	return args.Bool(0), args.Error(1)
}
