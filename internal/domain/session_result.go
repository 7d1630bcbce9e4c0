package domain

import (
	"time"

	"github.com/google/uuid"
)

// XPPerCorrectAnswer is the session XP awarded for each correctly answered card.
const XPPerCorrectAnswer = 10

// StudySessionResult is the scored outcome of one full traversal of a deck.
//
// ID is generated by the client that ran the session and serves as the
// idempotency key: submitting the same result twice stores it once.
type StudySessionResult struct {
	ID                uuid.UUID `json:"id"`
	UserID            uuid.UUID `json:"user_id"`
	DeckID            uuid.UUID `json:"deck_id"`
	QuestionsAnswered int       `json:"questions_answered"`
	CorrectAnswers    int       `json:"correct_answers"`
	XPEarned          int       `json:"xp_earned"`
	Date              time.Time `json:"date"`
}

// NewStudySessionResult scores a finished session.
func NewStudySessionResult(
	id, userID, deckID uuid.UUID,
	answered, correct int,
	date time.Time,
) (*StudySessionResult, error) {
	r := &StudySessionResult{
		ID:                id,
		UserID:            userID,
		DeckID:            deckID,
		QuestionsAnswered: answered,
		CorrectAnswers:    correct,
		XPEarned:          correct * XPPerCorrectAnswer,
		Date:              date.UTC(),
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the result is well formed.
func (r *StudySessionResult) Validate() error {
	if r.ID == uuid.Nil || r.UserID == uuid.Nil || r.DeckID == uuid.Nil {
		return NewValidationError("id", "session, user and deck ids are required", ErrInvalidID)
	}
	if r.QuestionsAnswered < 0 || r.CorrectAnswers < 0 {
		return NewValidationError("counts", "must be non-negative", ErrValidation)
	}
	if r.CorrectAnswers > r.QuestionsAnswered {
		return NewValidationError("correct_answers", "cannot exceed questions answered", ErrValidation)
	}
	if r.XPEarned != r.CorrectAnswers*XPPerCorrectAnswer {
		return NewValidationError("xp_earned", "must equal correct answers times 10", ErrValidation)
	}
	if r.Date.IsZero() {
		return NewValidationError("date", "cannot be zero", ErrValidation)
	}
	return nil
}

// Post is the minimal record of a content post, counted toward post-count achievements.
type Post struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
