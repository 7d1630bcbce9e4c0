package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAchievement_SatisfiedBy(t *testing.T) {
	t.Parallel()

	xp500 := XPThreshold(uuid.New(), "Scholar", 500)
	firstPost := PostCountThreshold(uuid.New(), "First Share", 1)
	tenPosts := PostCountThreshold(uuid.New(), "Community Helper", 10)

	tests := []struct {
		name  string
		a     Achievement
		xp    int
		posts int
		want  bool
	}{
		{"xp below threshold", xp500, 499, 100, false},
		{"xp at threshold", xp500, 500, 0, true},
		{"xp above threshold", xp500, 900, 0, true},
		{"post count ignores xp", firstPost, 10000, 0, false},
		{"first post", firstPost, 0, 1, true},
		{"ten posts not yet", tenPosts, 0, 9, false},
		{"ten posts reached", tenPosts, 0, 10, true},
		{"unknown kind never unlocks", Achievement{Kind: "streak"}, 1000, 1000, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.SatisfiedBy(tc.xp, tc.posts))
		})
	}
}

func TestAchievementFromLegacy(t *testing.T) {
	t.Parallel()

	a, ok := AchievementFromLegacy(uuid.New(), "Centurion", "", "", 100)
	require.True(t, ok)
	assert.Equal(t, AchievementKindXPThreshold, a.Kind)
	assert.Equal(t, 100, a.Threshold)

	a, ok = AchievementFromLegacy(uuid.New(), "Community Helper", "ten posts", "star", 0)
	require.True(t, ok)
	assert.Equal(t, AchievementKindPostCountThreshold, a.Kind)
	assert.Equal(t, 10, a.Threshold)
	assert.Equal(t, "star", a.Icon)

	_, ok = AchievementFromLegacy(uuid.New(), "Mystery", "", "", 0)
	assert.False(t, ok)
}

func TestAchievement_Validate(t *testing.T) {
	t.Parallel()

	valid := XPThreshold(uuid.New(), "Scholar", 500)
	assert.NoError(t, valid.Validate())

	noName := XPThreshold(uuid.New(), "", 500)
	assert.ErrorIs(t, noName.Validate(), ErrEmptyContent)

	badKind := Achievement{ID: uuid.New(), Name: "x", Kind: "bogus"}
	assert.ErrorIs(t, badKind.Validate(), ErrInvalidAchievementKind)
}

func TestShopItem(t *testing.T) {
	t.Parallel()

	item := ShopItem{ID: uuid.New(), ItemType: ItemTypeNameColor, ItemValue: "crimson", XPCost: 100}
	require.NoError(t, item.Validate())
	assert.Equal(t, SlotNameColor, item.Slot())

	item.ItemType = "hat"
	assert.ErrorIs(t, item.Validate(), ErrInvalidSlot)

	item = ShopItem{ID: uuid.New(), ItemType: ItemTypeBorder, ItemValue: DefaultSlotValue}
	assert.ErrorIs(t, item.Validate(), ErrEmptyContent, "the sentinel value cannot be sold")

	owned := []Purchase{{ItemID: item.ID}}
	assert.True(t, Owns(owned, item.ID))
	assert.False(t, Owns(owned, uuid.New()))
}

func TestNewStudySessionResult(t *testing.T) {
	t.Parallel()

	r, err := NewStudySessionResult(uuid.New(), uuid.New(), uuid.New(), 3, 2, fixedDate())
	require.NoError(t, err)
	assert.Equal(t, 20, r.XPEarned)

	_, err = NewStudySessionResult(uuid.New(), uuid.New(), uuid.New(), 2, 3, fixedDate())
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewStudySessionResult(uuid.Nil, uuid.New(), uuid.New(), 1, 1, fixedDate())
	assert.ErrorIs(t, err, ErrInvalidID)
}

func fixedDate() time.Time {
	return time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)
}
