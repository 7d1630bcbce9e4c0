package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/domain"
)

// SessionStore defines the interface for the study session log.
type SessionStore interface {
	// InsertSessionResult appends a completed session keyed by result.ID.
	//
	// When the row is new, the same transaction adds result.XPEarned to the
	// user's profile, recomputes the level and advances the study streak.
	// Resubmitting an id that is already stored is not an error: it reports
	// false and changes nothing.
	InsertSessionResult(ctx context.Context, result *domain.StudySessionResult) (bool, error)

	// ListSessionResults returns the user's most recent sessions, newest first.
	ListSessionResults(ctx context.Context, userID uuid.UUID, limit int) ([]domain.StudySessionResult, error)
}

// PostStore defines the minimal post log counted by post-count achievements.
type PostStore interface {
	// InsertPost records a new post.
	InsertPost(ctx context.Context, post *domain.Post) error

	// CountPosts returns how many posts the user has made.
	CountPosts(ctx context.Context, userID uuid.UUID) (int, error)
}
