package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/domain"
)

// ProfileStore defines the interface for progress profile persistence.
//
// Every method that changes XP performs the read-modify-write atomically in the
// store and stores the recomputed level with it. A write that would leave XP
// below zero is rejected with ErrInsufficientBalance (AwardXP) or
// ErrInvalidEntity (Update) and leaves the profile unchanged.
type ProfileStore interface {
	// Get retrieves the profile of a user.
	// Returns ErrProfileNotFound if the user has no profile.
	Get(ctx context.Context, userID uuid.UUID) (*domain.ProgressProfile, error)

	// Create stores a new profile.
	// Returns ErrProfileExists if the user already has one.
	Create(ctx context.Context, profile *domain.ProgressProfile) error

	// Update applies an atomic multi-field patch and returns the updated profile.
	// Returns ErrProfileNotFound if the user has no profile, and ErrInvalidEntity
	// if the patched profile fails validation.
	Update(ctx context.Context, userID uuid.UUID, patch domain.ProfilePatch) (*domain.ProgressProfile, error)

	// AwardXP adds delta (which may be negative) to the user's XP as a
	// server-side increment, recomputes the level, and returns the updated profile.
	AwardXP(ctx context.Context, userID uuid.UUID, delta int) (*domain.ProgressProfile, error)
}
