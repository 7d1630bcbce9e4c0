// Package shop implements the cosmetic shop: buying items with XP and
// equipping owned items into profile slots.
package shop

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/domain"
	"github.com/phrazzld/studyhall/internal/events"
	"github.com/phrazzld/studyhall/internal/platform/logger"
	"github.com/phrazzld/studyhall/internal/service"
	"github.com/phrazzld/studyhall/internal/store"
)

// AchievementChecker re-evaluates achievements after XP changes.
type AchievementChecker interface {
	CheckAndUnlock(ctx context.Context, userID uuid.UUID, currentXP, postCount int) ([]uuid.UUID, error)
}

// PurchaseResult is the outcome of a purchase.
type PurchaseResult struct {
	Profile *domain.ProgressProfile `json:"profile"`
	Item    domain.ShopItem         `json:"item"`
	// Charged is false when the user already owned the item and it was only equipped.
	Charged         bool        `json:"charged"`
	NewAchievements []uuid.UUID `json:"new_achievements"`
}

// InventoryEntry is an owned item and whether it is currently equipped.
type InventoryEntry struct {
	Item        domain.ShopItem `json:"item"`
	PurchasedAt time.Time       `json:"purchased_at"`
	Equipped    bool            `json:"equipped"`
}

// Service is the shop economy.
type Service struct {
	shop         store.ShopStore
	profiles     store.ProfileStore
	posts        store.PostStore
	achievements AchievementChecker
	emitter      events.EventEmitter
	logger       *slog.Logger
}

// NewService creates a shop service. emitter may be nil.
func NewService(
	shop store.ShopStore,
	profiles store.ProfileStore,
	posts store.PostStore,
	achievements AchievementChecker,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *Service {
	if shop == nil {
		panic("shop store cannot be nil")
	}
	if profiles == nil {
		panic("profile store cannot be nil")
	}
	if posts == nil {
		panic("post store cannot be nil")
	}
	if achievements == nil {
		panic("achievement checker cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		shop:         shop,
		profiles:     profiles,
		posts:        posts,
		achievements: achievements,
		emitter:      emitter,
		logger:       logger.With(slog.String("component", "shop_service")),
	}
}

// Purchase buys an item and equips it.
//
// An item the user already owns is equipped without charging. Otherwise the
// cost is debited, the level recomputed and the item equipped in one store
// unit of work. After a successful purchase a level drop is reported as an
// event and achievements are re-checked; neither can fail the purchase.
func (s *Service) Purchase(ctx context.Context, userID, itemID uuid.UUID) (*PurchaseResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("item_id", itemID.String()))

	item, err := s.item(ctx, "purchase", itemID)
	if err != nil {
		return nil, err
	}

	purchases, err := s.shop.ListPurchases(ctx, userID)
	if err != nil {
		return nil, service.NewServiceError("shop", "purchase", "failed to load purchases", err)
	}
	if domain.Owns(purchases, item.ID) {
		log.Debug("item already owned, equipping")
		return s.equipOwned(ctx, userID, item)
	}

	profile, err := service.EnsureProfile(ctx, s.profiles, userID)
	if err != nil {
		return nil, service.NewServiceError("shop", "purchase", "failed to load profile", err)
	}
	if profile.XP < item.XPCost {
		log.Debug("purchase rejected",
			slog.Int("xp", profile.XP),
			slog.Int("xp_cost", item.XPCost))
		return nil, &service.InsufficientXPError{Required: item.XPCost, Available: profile.XP}
	}

	receipt, err := s.shop.CommitPurchase(ctx, store.PurchaseCommit{UserID: userID, Item: *item})
	switch {
	case err == nil:
	case errors.Is(err, store.ErrInsufficientBalance):
		// XP was spent elsewhere between the check above and the commit.
		available := 0
		if current, getErr := s.profiles.Get(ctx, userID); getErr == nil {
			available = current.XP
		}
		return nil, &service.InsufficientXPError{Required: item.XPCost, Available: available}
	case errors.Is(err, store.ErrPurchaseExists):
		log.Debug("item bought concurrently, equipping")
		return s.equipOwned(ctx, userID, item)
	case errors.Is(err, store.ErrShopItemNotFound):
		return nil, service.ErrItemNotFound
	default:
		return nil, service.NewServiceError("shop", "purchase", "failed to commit purchase", err)
	}

	log.Info("item purchased",
		slog.Int("xp_cost", item.XPCost),
		slog.Int("xp", receipt.After.XP),
		slog.Int("level", receipt.After.Level))

	if receipt.LevelDropped() {
		if err := events.Emit(ctx, s.emitter, events.TypeLevelDown, userID, events.LevelDownPayload{
			ItemID:    item.ID,
			FromLevel: receipt.Before.Level,
			ToLevel:   receipt.After.Level,
			XPBefore:  receipt.Before.XP,
			XPAfter:   receipt.After.XP,
		}); err != nil {
			log.Warn("failed to emit level down event", slog.String("error", err.Error()))
		}
	}

	after := receipt.After
	return &PurchaseResult{
		Profile:         &after,
		Item:            *item,
		Charged:         true,
		NewAchievements: s.recheckAchievements(ctx, log, userID, after.XP),
	}, nil
}

// recheckAchievements runs the achievement engine after a committed purchase.
// Failures are logged only.
func (s *Service) recheckAchievements(ctx context.Context, log *slog.Logger, userID uuid.UUID, xp int) []uuid.UUID {
	posts, err := s.posts.CountPosts(ctx, userID)
	if err != nil {
		log.Warn("skipping achievement check after purchase", slog.String("error", err.Error()))
		return []uuid.UUID{}
	}
	unlocked, err := s.achievements.CheckAndUnlock(ctx, userID, xp, posts)
	if err != nil {
		log.Warn("achievement check after purchase failed", slog.String("error", err.Error()))
		return []uuid.UUID{}
	}
	return unlocked
}

func (s *Service) equipOwned(ctx context.Context, userID uuid.UUID, item *domain.ShopItem) (*PurchaseResult, error) {
	profile, err := s.setSlot(ctx, "purchase", userID, item.Slot(), item.ItemValue)
	if err != nil {
		return nil, err
	}
	return &PurchaseResult{
		Profile:         profile,
		Item:            *item,
		Charged:         false,
		NewAchievements: []uuid.UUID{},
	}, nil
}

// Equip puts an owned item into its slot. Equipping the item already in the
// slot changes nothing.
func (s *Service) Equip(ctx context.Context, userID, itemID uuid.UUID) (*domain.ProgressProfile, error) {
	item, err := s.ownedItem(ctx, "equip", userID, itemID)
	if err != nil {
		return nil, err
	}
	return s.setSlot(ctx, "equip", userID, item.Slot(), item.ItemValue)
}

// Unequip resets the owned item's slot to the default value.
func (s *Service) Unequip(ctx context.Context, userID, itemID uuid.UUID) (*domain.ProgressProfile, error) {
	item, err := s.ownedItem(ctx, "unequip", userID, itemID)
	if err != nil {
		return nil, err
	}
	return s.setSlot(ctx, "unequip", userID, item.Slot(), domain.DefaultSlotValue)
}

// Catalog lists every shop item.
func (s *Service) Catalog(ctx context.Context) ([]domain.ShopItem, error) {
	items, err := s.shop.ListShopItems(ctx)
	if err != nil {
		return nil, service.NewServiceError("shop", "catalog", "failed to list items", err)
	}
	return items, nil
}

// Inventory lists the user's purchases with their equip state.
func (s *Service) Inventory(ctx context.Context, userID uuid.UUID) ([]InventoryEntry, error) {
	purchases, err := s.shop.ListPurchases(ctx, userID)
	if err != nil {
		return nil, service.NewServiceError("shop", "inventory", "failed to load purchases", err)
	}
	if len(purchases) == 0 {
		return []InventoryEntry{}, nil
	}

	items, err := s.shop.ListShopItems(ctx)
	if err != nil {
		return nil, service.NewServiceError("shop", "inventory", "failed to list items", err)
	}
	byID := make(map[uuid.UUID]domain.ShopItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	var profile *domain.ProgressProfile
	if p, err := s.profiles.Get(ctx, userID); err == nil {
		profile = p
	} else if !errors.Is(err, store.ErrProfileNotFound) {
		return nil, service.NewServiceError("shop", "inventory", "failed to load profile", err)
	}

	out := make([]InventoryEntry, 0, len(purchases))
	for _, p := range purchases {
		item, ok := byID[p.ItemID]
		if !ok {
			continue
		}
		equipped := profile != nil && profile.SlotValue(item.Slot()) == item.ItemValue
		out = append(out, InventoryEntry{Item: item, PurchasedAt: p.PurchasedAt, Equipped: equipped})
	}
	return out, nil
}

func (s *Service) item(ctx context.Context, op string, itemID uuid.UUID) (*domain.ShopItem, error) {
	item, err := s.shop.GetShopItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, store.ErrShopItemNotFound) {
			return nil, service.ErrItemNotFound
		}
		return nil, service.NewServiceError("shop", op, "failed to load item", err)
	}
	return item, nil
}

func (s *Service) ownedItem(ctx context.Context, op string, userID, itemID uuid.UUID) (*domain.ShopItem, error) {
	item, err := s.item(ctx, op, itemID)
	if err != nil {
		return nil, err
	}
	purchases, err := s.shop.ListPurchases(ctx, userID)
	if err != nil {
		return nil, service.NewServiceError("shop", op, "failed to load purchases", err)
	}
	if !domain.Owns(purchases, item.ID) {
		logger.FromContextOrDefault(ctx, s.logger).Debug("item not owned",
			slog.String("operation", op),
			slog.String("user_id", userID.String()),
			slog.String("item_id", itemID.String()))
		return nil, service.ErrItemNotOwned
	}
	return item, nil
}

func (s *Service) setSlot(
	ctx context.Context,
	op string,
	userID uuid.UUID,
	slot domain.Slot,
	value string,
) (*domain.ProgressProfile, error) {
	if _, err := service.EnsureProfile(ctx, s.profiles, userID); err != nil {
		return nil, service.NewServiceError("shop", op, "failed to load profile", err)
	}
	profile, err := s.profiles.Update(ctx, userID, domain.ProfilePatch{}.SetSlot(slot, value))
	if err != nil {
		return nil, service.NewServiceError("shop", op, "failed to update slot", err)
	}
	return profile, nil
}
