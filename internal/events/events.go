package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type names an event kind.
type Type string

const (
	// TypeLevelDown is emitted when spending XP costs the user a level.
	TypeLevelDown Type = "level_down"
	// TypeAchievementUnlocked is emitted once per newly inserted unlock.
	TypeAchievementUnlocked Type = "achievement_unlocked"
	// TypeSessionCompleted is emitted after a study session result is stored.
	TypeSessionCompleted Type = "session_completed"
)

// Event is a single notification about a user's progression.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	Type   Type      `json:"type"`
	UserID uuid.UUID `json:"user_id"`

	// Payload holds the type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	CreatedAt time.Time `json:"created_at"`
}

// LevelDownPayload is the payload of TypeLevelDown.
type LevelDownPayload struct {
	ItemID    uuid.UUID `json:"item_id"`
	FromLevel int       `json:"from_level"`
	ToLevel   int       `json:"to_level"`
	XPBefore  int       `json:"xp_before"`
	XPAfter   int       `json:"xp_after"`
}

// AchievementUnlockedPayload is the payload of TypeAchievementUnlocked.
type AchievementUnlockedPayload struct {
	AchievementID uuid.UUID `json:"achievement_id"`
	XP            int       `json:"xp"`
	PostCount     int       `json:"post_count"`
}

// SessionCompletedPayload is the payload of TypeSessionCompleted.
type SessionCompletedPayload struct {
	SessionID         uuid.UUID `json:"session_id"`
	DeckID            uuid.UUID `json:"deck_id"`
	QuestionsAnswered int       `json:"questions_answered"`
	CorrectAnswers    int       `json:"correct_answers"`
	XPEarned          int       `json:"xp_earned"`
}

// UnmarshalPayload decodes the event payload into v.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates an event of the given type for userID.
func NewEvent(eventType Type, userID uuid.UUID, payload any) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		UserID:    userID,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler processes events delivered by an emitter.
type EventHandler interface {
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// EventEmitter publishes events to whoever is listening.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *Event) error
}

// Emit builds an event and publishes it. A nil emitter is a no-op so that
// components can run without event wiring.
func Emit(ctx context.Context, emitter EventEmitter, eventType Type, userID uuid.UUID, payload any) error {
	if emitter == nil {
		return nil
	}
	event, err := NewEvent(eventType, userID, payload)
	if err != nil {
		return err
	}
	return emitter.EmitEvent(ctx, event)
}
