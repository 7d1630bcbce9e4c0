// Package leveling implements the XP to level arithmetic shared by every
// component that mutates a progress profile.
//
// The functions here are pure and total. Callers that change a profile's XP are
// responsible for storing the recomputed level alongside it; levels are never
// derived lazily at read time.
package leveling

// XPPerLevel is the amount of XP separating consecutive levels.
const XPPerLevel = 100

// LevelForXP returns the level reached with the given amount of XP.
//
//	level = floor(xp / 100) + 1
//
// Negative XP is not a valid profile state; it is treated as zero.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// XPCeilingForLevel returns the XP target displayed for a level. It is a target,
// not a hard ceiling: reaching it moves the profile to the next level.
func XPCeilingForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return level * XPPerLevel
}

// XPIntoLevel returns how much XP has been earned within the current level.
func XPIntoLevel(xp int) int {
	if xp < 0 {
		return 0
	}
	return xp % XPPerLevel
}

// Progress reports the fraction of the current level completed, in [0, 1).
func Progress(xp int) float64 {
	return float64(XPIntoLevel(xp)) / float64(XPPerLevel)
}

// LevelDelta returns the change in level caused by moving from one XP total to
// another. A negative result means the profile dropped at least one level.
func LevelDelta(fromXP, toXP int) int {
	return LevelForXP(toXP) - LevelForXP(fromXP)
}
