// Package store declares the persistence contracts of the progression
// economy: profiles and their XP, coins and streaks (ProfileStore), unlocked
// achievements (AchievementStore), the shop catalog and purchases
// (ShopStore), decks and their cards (DeckStore), completed study sessions
// (SessionStore) and community posts (PostStore).
//
// Implementations report failures with the sentinel errors in errors.go so
// services can branch on errors.Is without knowing the backend. Multi-step
// writes such as a purchase run through RunInTransaction.
package store
