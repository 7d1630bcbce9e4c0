package leveling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForXP(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		xp       int
		expected int
	}{
		{name: "zero xp is level one", xp: 0, expected: 1},
		{name: "just below first boundary", xp: 99, expected: 1},
		{name: "exact boundary advances level", xp: 100, expected: 2},
		{name: "mid level", xp: 250, expected: 3},
		{name: "large xp", xp: 12345, expected: 124},
		{name: "negative xp clamps to level one", xp: -40, expected: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, LevelForXP(tc.xp))
		})
	}
}

func TestLevelForXP_MatchesFormula(t *testing.T) {
	t.Parallel()

	for xp := 0; xp <= 1000; xp++ {
		if got, want := LevelForXP(xp), xp/100+1; got != want {
			t.Fatalf("LevelForXP(%d) = %d, want %d", xp, got, want)
		}
	}
}

func TestXPCeilingForLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100, XPCeilingForLevel(1))
	assert.Equal(t, 300, XPCeilingForLevel(3))
	assert.Equal(t, 100, XPCeilingForLevel(0), "levels below one are treated as one")

	// The ceiling of the current level is always strictly above the XP that produced it.
	for _, xp := range []int{0, 1, 99, 100, 199, 250} {
		assert.Greater(t, XPCeilingForLevel(LevelForXP(xp)), xp)
	}
}

func TestXPIntoLevelAndProgress(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, XPIntoLevel(0))
	assert.Equal(t, 50, XPIntoLevel(250))
	assert.Equal(t, 0, XPIntoLevel(-5))
	assert.InDelta(t, 0.5, Progress(250), 1e-9)
	assert.InDelta(t, 0.99, Progress(99), 1e-9)
}

func TestLevelDelta(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, LevelDelta(120, 180))
	assert.Equal(t, -1, LevelDelta(120, 20))
	assert.Equal(t, 2, LevelDelta(50, 260))
}
