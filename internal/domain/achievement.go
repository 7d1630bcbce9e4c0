package domain

import (
	"time"

	"github.com/google/uuid"
)

// AchievementKind tags what an achievement's threshold is measured against.
type AchievementKind string

const (
	// AchievementKindXPThreshold unlocks once total XP reaches the threshold.
	AchievementKindXPThreshold AchievementKind = "xp_threshold"
	// AchievementKindPostCountThreshold unlocks once the user's post count reaches the threshold.
	AchievementKindPostCountThreshold AchievementKind = "post_count_threshold"
)

// Valid reports whether k is a known kind.
func (k AchievementKind) Valid() bool {
	return k == AchievementKindXPThreshold || k == AchievementKindPostCountThreshold
}

// legacyPostMilestones maps the display names older catalogs used to mark
// post-count achievements to the post count each one stood for.
var legacyPostMilestones = map[string]int{
	"First Share":      1,
	"Community Helper": 10,
}

// Achievement is an entry of the immutable achievement catalog.
type Achievement struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	Kind        AchievementKind `json:"kind"`
	Threshold   int             `json:"threshold"`
}

// XPThreshold builds an achievement that unlocks at n total XP.
func XPThreshold(id uuid.UUID, name string, n int) Achievement {
	return Achievement{ID: id, Name: name, Kind: AchievementKindXPThreshold, Threshold: n}
}

// PostCountThreshold builds an achievement that unlocks at n posts.
func PostCountThreshold(id uuid.UUID, name string, n int) Achievement {
	return Achievement{ID: id, Name: name, Kind: AchievementKindPostCountThreshold, Threshold: n}
}

// AchievementFromLegacy converts a catalog record in the older
// {name, xpRequired} shape. A positive xpRequired is an XP threshold; a zero
// xpRequired is a post-count milestone identified by its display name. The
// second return value is false when the record cannot be classified.
func AchievementFromLegacy(id uuid.UUID, name, description, icon string, xpRequired int) (Achievement, bool) {
	a := Achievement{ID: id, Name: name, Description: description, Icon: icon}
	if xpRequired > 0 {
		a.Kind = AchievementKindXPThreshold
		a.Threshold = xpRequired
		return a, true
	}
	posts, ok := legacyPostMilestones[name]
	if !ok {
		return a, false
	}
	a.Kind = AchievementKindPostCountThreshold
	a.Threshold = posts
	return a, true
}

// Validate checks that the achievement has an id, a name and a usable threshold.
func (a *Achievement) Validate() error {
	if a.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}
	if a.Name == "" {
		return NewValidationError("name", "cannot be empty", ErrEmptyContent)
	}
	if !a.Kind.Valid() {
		return NewValidationError("kind", string(a.Kind), ErrInvalidAchievementKind)
	}
	if a.Threshold < 0 {
		return NewValidationError("threshold", "must be non-negative", ErrValidation)
	}
	return nil
}

// SatisfiedBy reports whether a user with the given XP and post count
// qualifies for the achievement.
func (a *Achievement) SatisfiedBy(xp, postCount int) bool {
	switch a.Kind {
	case AchievementKindXPThreshold:
		return xp >= a.Threshold
	case AchievementKindPostCountThreshold:
		return postCount >= a.Threshold
	default:
		return false
	}
}

// UnlockedAchievement records that a user has unlocked an achievement.
// Rows are only ever inserted.
type UnlockedAchievement struct {
	UserID        uuid.UUID `json:"user_id"`
	AchievementID uuid.UUID `json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}
