package domain

import (
	"time"

	"github.com/google/uuid"
)

// Deck is a named collection of flashcards.
type Deck struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   uuid.UUID `json:"owner_id"`
	Title     string    `json:"title"`
	IsPublic  bool      `json:"is_public"`
	ColorTag  string    `json:"color_tag"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the deck's identifiers.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if d.OwnerID == uuid.Nil {
		return NewValidationError("owner_id", "cannot be empty", ErrInvalidID)
	}
	return nil
}

// OwnedBy reports whether userID owns the deck.
func (d *Deck) OwnedBy(userID uuid.UUID) bool {
	return d.OwnerID == userID
}

// CardItem is one front/back flashcard in a deck. Cards are presented in
// ascending OrderIndex.
type CardItem struct {
	ID         uuid.UUID `json:"id"`
	DeckID     uuid.UUID `json:"deck_id"`
	Front      string    `json:"front"`
	Back       string    `json:"back"`
	OrderIndex int       `json:"order_index"`
}

// Validate checks the card's identifiers and content.
func (c *CardItem) Validate() error {
	if c.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if c.DeckID == uuid.Nil {
		return NewValidationError("deck_id", "cannot be empty", ErrInvalidID)
	}
	if c.Front == "" || c.Back == "" {
		return NewValidationError("content", "front and back are required", ErrEmptyContent)
	}
	return nil
}
