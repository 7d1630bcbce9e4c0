package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/domain/leveling"
)

// DefaultSlotValue is the sentinel stored in an equip slot with nothing equipped.
const DefaultSlotValue = "default"

// Slot identifies one of the mutually exclusive cosmetic equip slots on a profile.
type Slot string

const (
	// SlotBorder holds the equipped avatar border.
	SlotBorder Slot = "border"
	// SlotNameColor holds the equipped display name color.
	SlotNameColor Slot = "name_color"
)

// Valid reports whether s is a known slot.
func (s Slot) Valid() bool {
	return s == SlotBorder || s == SlotNameColor
}

// ProgressProfile is a user's XP, level, equipped cosmetics and study streak.
//
// Level must equal leveling.LevelForXP(XP) after every mutation. Code that
// changes XP goes through WithXP or ProfilePatch.SetXP so both fields move
// together.
type ProgressProfile struct {
	UserID        uuid.UUID  `json:"user_id"`
	XP            int        `json:"xp"`
	Level         int        `json:"level"`
	BorderSlot    string     `json:"border_slot"`
	NameColorSlot string     `json:"name_color_slot"`
	StreakDays    int        `json:"streak_days"`
	LastStudyDate *time.Time `json:"last_study_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewProgressProfile returns a fresh level 1 profile with both slots at their default.
func NewProgressProfile(userID uuid.UUID) (*ProgressProfile, error) {
	now := time.Now().UTC()
	p := &ProgressProfile{
		UserID:        userID,
		XP:            0,
		Level:         leveling.LevelForXP(0),
		BorderSlot:    DefaultSlotValue,
		NameColorSlot: DefaultSlotValue,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the profile invariants.
func (p *ProgressProfile) Validate() error {
	if p.UserID == uuid.Nil {
		return NewValidationError("user_id", "cannot be empty", ErrInvalidID)
	}
	if p.XP < 0 {
		return NewValidationError("xp", "must be non-negative", ErrNegativeXP)
	}
	if p.Level != leveling.LevelForXP(p.XP) {
		return NewValidationError("level", "must equal floor(xp/100)+1", ErrLevelMismatch)
	}
	if p.BorderSlot == "" || p.NameColorSlot == "" {
		return NewValidationError("slot", "cannot be empty", ErrEmptyContent)
	}
	if p.StreakDays < 0 {
		return NewValidationError("streak_days", "must be non-negative", ErrValidation)
	}
	return nil
}

// SlotValue returns the value equipped in the given slot.
func (p *ProgressProfile) SlotValue(slot Slot) string {
	switch slot {
	case SlotBorder:
		return p.BorderSlot
	case SlotNameColor:
		return p.NameColorSlot
	default:
		return ""
	}
}

// WithXP returns a copy of the profile holding xp and the matching level.
func (p ProgressProfile) WithXP(xp int) ProgressProfile {
	p.XP = xp
	p.Level = leveling.LevelForXP(xp)
	return p
}

// ApplyPatch returns a copy of the profile with the patch applied.
// The result is validated; a patch that would break an invariant is rejected.
func (p ProgressProfile) ApplyPatch(patch ProfilePatch) (ProgressProfile, error) {
	if patch.XP != nil {
		p.XP = *patch.XP
	}
	if patch.Level != nil {
		p.Level = *patch.Level
	}
	if patch.BorderSlot != nil {
		p.BorderSlot = *patch.BorderSlot
	}
	if patch.NameColorSlot != nil {
		p.NameColorSlot = *patch.NameColorSlot
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// RecordStudy advances the daily streak for a session completed at the given
// time. Days are compared in UTC: a second session on the same day leaves the
// streak unchanged, a session on the following day extends it, and any longer
// gap restarts it at one.
func (p ProgressProfile) RecordStudy(at time.Time) ProgressProfile {
	day := truncateDay(at)
	switch {
	case p.LastStudyDate == nil:
		p.StreakDays = 1
	case truncateDay(*p.LastStudyDate).Equal(day):
		if p.StreakDays == 0 {
			p.StreakDays = 1
		}
	case truncateDay(*p.LastStudyDate).AddDate(0, 0, 1).Equal(day):
		p.StreakDays++
	case truncateDay(*p.LastStudyDate).After(day):
		// Out-of-order result for an earlier day; the streak stays as it is.
		return p
	default:
		p.StreakDays = 1
	}
	p.LastStudyDate = &day
	return p
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ProfilePatch is an atomic multi-field profile update. Nil fields are left alone.
type ProfilePatch struct {
	XP            *int
	Level         *int
	BorderSlot    *string
	NameColorSlot *string
}

// SetXP sets XP and the level derived from it.
func (pp ProfilePatch) SetXP(xp int) ProfilePatch {
	level := leveling.LevelForXP(xp)
	pp.XP = &xp
	pp.Level = &level
	return pp
}

// SetSlot sets the value of one equip slot.
func (pp ProfilePatch) SetSlot(slot Slot, value string) ProfilePatch {
	switch slot {
	case SlotBorder:
		pp.BorderSlot = &value
	case SlotNameColor:
		pp.NameColorSlot = &value
	}
	return pp
}

// IsEmpty reports whether the patch changes nothing.
func (pp ProfilePatch) IsEmpty() bool {
	return pp.XP == nil && pp.Level == nil && pp.BorderSlot == nil && pp.NameColorSlot == nil
}
