// Package domain defines the progression economy's entities: progress
// profiles, achievements, shop items and purchases, decks and their cards,
// study session results and posts.
//
// Types validate themselves and carry no persistence concerns. XP to level
// arithmetic lives in the leveling subpackage.
package domain
