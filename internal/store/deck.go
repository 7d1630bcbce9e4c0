package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/domain"
)

// DeckStore defines the read side of deck persistence used by quiz sessions.
// Deck authoring lives outside this module.
type DeckStore interface {
	// GetDeck retrieves deck metadata.
	// Returns ErrDeckNotFound if the deck does not exist.
	GetDeck(ctx context.Context, deckID uuid.UUID) (*domain.Deck, error)

	// ListCardItems returns the deck's cards ordered by OrderIndex.
	ListCardItems(ctx context.Context, deckID uuid.UUID) ([]domain.CardItem, error)

	// CheckSharedAccess reports whether the deck has been shared with the user.
	CheckSharedAccess(ctx context.Context, deckID, userID uuid.UUID) (bool, error)
}
