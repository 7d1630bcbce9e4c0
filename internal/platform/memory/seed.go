package memory

import (
	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/domain"
)

// DefaultAchievements returns the catalog the database migrations seed.
func DefaultAchievements() []domain.Achievement {
	mk := func(id, name, desc, icon string, kind domain.AchievementKind, n int) domain.Achievement {
		return domain.Achievement{
			ID:          uuid.MustParse(id),
			Name:        name,
			Description: desc,
			Icon:        icon,
			Kind:        kind,
			Threshold:   n,
		}
	}
	xp, posts := domain.AchievementKindXPThreshold, domain.AchievementKindPostCountThreshold
	return []domain.Achievement{
		mk("0b0f6c1e-7d1a-4b52-9a53-1f0d3f6a0001", "First Steps", "Earn your first 10 XP", "footprints", xp, 10),
		mk("0b0f6c1e-7d1a-4b52-9a53-1f0d3f6a0002", "Centurion", "Reach 100 XP", "shield", xp, 100),
		mk("0b0f6c1e-7d1a-4b52-9a53-1f0d3f6a0003", "Scholar", "Reach 500 XP", "book", xp, 500),
		mk("0b0f6c1e-7d1a-4b52-9a53-1f0d3f6a0004", "Sage", "Reach 1000 XP", "owl", xp, 1000),
		mk("0b0f6c1e-7d1a-4b52-9a53-1f0d3f6a0005", "First Share", "Publish your first post", "megaphone", posts, 1),
		mk("0b0f6c1e-7d1a-4b52-9a53-1f0d3f6a0006", "Community Helper", "Publish ten posts", "handshake", posts, 10),
	}
}

// DefaultShopItems returns the shop catalog the database migrations seed.
func DefaultShopItems() []domain.ShopItem {
	mk := func(id string, t domain.ItemType, value string, cost int) domain.ShopItem {
		return domain.ShopItem{ID: uuid.MustParse(id), ItemType: t, ItemValue: value, XPCost: cost}
	}
	border, color := domain.ItemTypeBorder, domain.ItemTypeNameColor
	return []domain.ShopItem{
		mk("5a1d7e2c-3b4f-4c6d-8e9f-2a3b4c5d0001", border, "bronze", 50),
		mk("5a1d7e2c-3b4f-4c6d-8e9f-2a3b4c5d0002", border, "silver", 100),
		mk("5a1d7e2c-3b4f-4c6d-8e9f-2a3b4c5d0003", border, "gold", 250),
		mk("5a1d7e2c-3b4f-4c6d-8e9f-2a3b4c5d0004", color, "crimson", 75),
		mk("5a1d7e2c-3b4f-4c6d-8e9f-2a3b4c5d0005", color, "emerald", 75),
		mk("5a1d7e2c-3b4f-4c6d-8e9f-2a3b4c5d0006", color, "violet", 150),
	}
}

// SampleDeckID identifies the public deck loaded by Seed.
var SampleDeckID = uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")

// Seed loads the default catalogs and one public sample deck.
func Seed(s *Store) error {
	if err := s.SeedCatalog(DefaultAchievements(), DefaultShopItems()); err != nil {
		return err
	}

	deck := domain.Deck{
		ID:       SampleDeckID,
		OwnerID:  uuid.MustParse("00000000-0000-4000-8000-000000000001"),
		Title:    "World capitals",
		IsPublic: true,
		ColorTag: "teal",
	}
	pairs := [][2]string{
		{"Capital of France", "Paris"},
		{"Capital of Japan", "Tokyo"},
		{"Capital of Kenya", "Nairobi"},
		{"Number of US states", "50"},
	}
	cards := make([]domain.CardItem, len(pairs))
	for i, p := range pairs {
		cards[i] = domain.CardItem{
			ID:         uuid.NewSHA1(SampleDeckID, []byte(p[0])),
			DeckID:     SampleDeckID,
			Front:      p[0],
			Back:       p[1],
			OrderIndex: i,
		}
	}
	return s.PutDeck(deck, cards)
}
