// Package memory implements every store interface in process memory.
//
// A single Store satisfies ProfileStore, AchievementStore, ShopStore,
// DeckStore, SessionStore and PostStore. One mutex guards all state, so each
// method, including the multi-row units of work, is atomic with respect to
// every other. Values are copied in and out; callers never share memory with
// the store.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/domain"
	"github.com/phrazzld/studyhall/internal/platform/logger"
	"github.com/phrazzld/studyhall/internal/store"
)

type unlockKey struct {
	userID        uuid.UUID
	achievementID uuid.UUID
}

type purchaseKey struct {
	userID uuid.UUID
	itemID uuid.UUID
}

type shareKey struct {
	deckID uuid.UUID
	userID uuid.UUID
}

// Store is an in-memory implementation of the store interfaces.
type Store struct {
	mu     sync.Mutex
	logger *slog.Logger
	now    func() time.Time

	profiles     map[uuid.UUID]domain.ProgressProfile
	achievements []domain.Achievement
	unlocks      map[unlockKey]domain.UnlockedAchievement
	items        []domain.ShopItem
	purchases    map[purchaseKey]domain.Purchase
	decks        map[uuid.UUID]domain.Deck
	cards        map[uuid.UUID][]domain.CardItem
	shares       map[shareKey]struct{}
	sessions     map[uuid.UUID]domain.StudySessionResult
	posts        map[uuid.UUID][]domain.Post
}

var (
	_ store.ProfileStore     = (*Store)(nil)
	_ store.AchievementStore = (*Store)(nil)
	_ store.ShopStore        = (*Store)(nil)
	_ store.DeckStore        = (*Store)(nil)
	_ store.SessionStore     = (*Store)(nil)
	_ store.PostStore        = (*Store)(nil)
)

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty store.
func New(logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		logger:    logger.With(slog.String("component", "memory_store")),
		now:       func() time.Time { return time.Now().UTC() },
		profiles:  make(map[uuid.UUID]domain.ProgressProfile),
		unlocks:   make(map[unlockKey]domain.UnlockedAchievement),
		purchases: make(map[purchaseKey]domain.Purchase),
		decks:     make(map[uuid.UUID]domain.Deck),
		cards:     make(map[uuid.UUID][]domain.CardItem),
		shares:    make(map[shareKey]struct{}),
		sessions:  make(map[uuid.UUID]domain.StudySessionResult),
		posts:     make(map[uuid.UUID][]domain.Post),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SeedCatalog replaces the achievement and shop catalogs. Catalog order is
// the order given.
func (s *Store) SeedCatalog(achievements []domain.Achievement, items []domain.ShopItem) error {
	for i := range achievements {
		if err := achievements[i].Validate(); err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}
	}
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.achievements = append([]domain.Achievement(nil), achievements...)
	s.items = append([]domain.ShopItem(nil), items...)
	return nil
}

// PutDeck stores a deck and its cards, replacing any previous version.
func (s *Store) PutDeck(deck domain.Deck, cards []domain.CardItem) error {
	if err := deck.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	for i := range cards {
		if err := cards[i].Validate(); err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}
		if cards[i].DeckID != deck.ID {
			return fmt.Errorf("%w: card %s belongs to another deck", store.ErrInvalidEntity, cards[i].ID)
		}
	}

	sorted := append([]domain.CardItem(nil), cards...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].OrderIndex < sorted[j].OrderIndex })

	s.mu.Lock()
	defer s.mu.Unlock()
	s.decks[deck.ID] = deck
	s.cards[deck.ID] = sorted
	return nil
}

// ShareDeck grants userID read access to deckID.
func (s *Store) ShareDeck(deckID, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.decks[deckID]; !ok {
		return store.ErrDeckNotFound
	}
	s.shares[shareKey{deckID: deckID, userID: userID}] = struct{}{}
	return nil
}

// Get implements store.ProfileStore.Get.
func (s *Store) Get(_ context.Context, userID uuid.UUID) (*domain.ProgressProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	return cloneProfile(p), nil
}

// Create implements store.ProfileStore.Create.
func (s *Store) Create(ctx context.Context, profile *domain.ProgressProfile) error {
	if err := profile.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[profile.UserID]; ok {
		return store.ErrProfileExists
	}
	s.profiles[profile.UserID] = *cloneProfile(*profile)
	logger.FromContextOrDefault(ctx, s.logger).Debug("profile created",
		slog.String("user_id", profile.UserID.String()))
	return nil
}

// Update implements store.ProfileStore.Update.
func (s *Store) Update(
	_ context.Context,
	userID uuid.UUID,
	patch domain.ProfilePatch,
) (*domain.ProgressProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.profiles[userID]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	next, err := current.ApplyPatch(patch)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	next.UpdatedAt = s.now()
	s.profiles[userID] = next
	return cloneProfile(next), nil
}

// AwardXP implements store.ProfileStore.AwardXP.
func (s *Store) AwardXP(_ context.Context, userID uuid.UUID, delta int) (*domain.ProgressProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.profiles[userID]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	if current.XP+delta < 0 {
		return nil, store.ErrInsufficientBalance
	}
	next := current.WithXP(current.XP + delta)
	next.UpdatedAt = s.now()
	s.profiles[userID] = next
	return cloneProfile(next), nil
}

// ListAchievements implements store.AchievementStore.ListAchievements.
func (s *Store) ListAchievements(context.Context) ([]domain.Achievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Achievement(nil), s.achievements...), nil
}

// ListUnlocked implements store.AchievementStore.ListUnlocked.
func (s *Store) ListUnlocked(_ context.Context, userID uuid.UUID) ([]domain.UnlockedAchievement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.UnlockedAchievement
	for key, u := range s.unlocks {
		if key.userID == userID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UnlockedAt.Equal(out[j].UnlockedAt) {
			return out[i].AchievementID.String() < out[j].AchievementID.String()
		}
		return out[i].UnlockedAt.Before(out[j].UnlockedAt)
	})
	return out, nil
}

// InsertUnlock implements store.AchievementStore.InsertUnlock.
func (s *Store) InsertUnlock(_ context.Context, userID, achievementID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasAchievement(achievementID) {
		return false, store.ErrAchievementNotFound
	}
	key := unlockKey{userID: userID, achievementID: achievementID}
	if _, ok := s.unlocks[key]; ok {
		return false, nil
	}
	s.unlocks[key] = domain.UnlockedAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		UnlockedAt:    s.now(),
	}
	return true, nil
}

func (s *Store) hasAchievement(id uuid.UUID) bool {
	for _, a := range s.achievements {
		if a.ID == id {
			return true
		}
	}
	return false
}

// ListShopItems implements store.ShopStore.ListShopItems.
func (s *Store) ListShopItems(context.Context) ([]domain.ShopItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ShopItem(nil), s.items...), nil
}

// GetShopItem implements store.ShopStore.GetShopItem.
func (s *Store) GetShopItem(_ context.Context, itemID uuid.UUID) (*domain.ShopItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.findItem(itemID)
	if !ok {
		return nil, store.ErrShopItemNotFound
	}
	return &item, nil
}

func (s *Store) findItem(id uuid.UUID) (domain.ShopItem, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return domain.ShopItem{}, false
}

// ListPurchases implements store.ShopStore.ListPurchases.
func (s *Store) ListPurchases(_ context.Context, userID uuid.UUID) ([]domain.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Purchase
	for key, p := range s.purchases {
		if key.userID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PurchasedAt.Before(out[j].PurchasedAt) })
	return out, nil
}

// InsertPurchase implements store.ShopStore.InsertPurchase.
func (s *Store) InsertPurchase(_ context.Context, userID, itemID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.insertPurchase(userID, itemID)
	return err
}

func (s *Store) insertPurchase(userID, itemID uuid.UUID) (domain.Purchase, error) {
	if _, ok := s.findItem(itemID); !ok {
		return domain.Purchase{}, store.ErrShopItemNotFound
	}
	key := purchaseKey{userID: userID, itemID: itemID}
	if _, ok := s.purchases[key]; ok {
		return domain.Purchase{}, store.ErrPurchaseExists
	}
	p := domain.Purchase{UserID: userID, ItemID: itemID, PurchasedAt: s.now()}
	s.purchases[key] = p
	return p, nil
}

// CommitPurchase implements store.ShopStore.CommitPurchase.
func (s *Store) CommitPurchase(ctx context.Context, commit store.PurchaseCommit) (*store.PurchaseReceipt, error) {
	if err := commit.Item.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before, ok := s.profiles[commit.UserID]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	if _, owned := s.purchases[purchaseKey{userID: commit.UserID, itemID: commit.Item.ID}]; owned {
		return nil, store.ErrPurchaseExists
	}
	if before.XP < commit.Item.XPCost {
		return nil, store.NewStoreError("purchase", "commit",
			fmt.Sprintf("balance %d below cost %d", before.XP, commit.Item.XPCost),
			store.ErrInsufficientBalance)
	}

	after, err := before.ApplyPatch(domain.ProfilePatch{}.
		SetXP(before.XP-commit.Item.XPCost).
		SetSlot(commit.Item.Slot(), commit.Item.ItemValue))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	// Validation happens before the first write so a failure leaves nothing behind.
	purchase, err := s.insertPurchase(commit.UserID, commit.Item.ID)
	if err != nil {
		return nil, err
	}
	after.UpdatedAt = s.now()
	s.profiles[commit.UserID] = after

	logger.FromContextOrDefault(ctx, s.logger).Debug("purchase committed",
		slog.String("user_id", commit.UserID.String()),
		slog.String("item_id", commit.Item.ID.String()))

	return &store.PurchaseReceipt{
		Purchase: purchase,
		Before:   *cloneProfile(before),
		After:    *cloneProfile(after),
	}, nil
}

// GetDeck implements store.DeckStore.GetDeck.
func (s *Store) GetDeck(_ context.Context, deckID uuid.UUID) (*domain.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.decks[deckID]
	if !ok {
		return nil, store.ErrDeckNotFound
	}
	return &d, nil
}

// ListCardItems implements store.DeckStore.ListCardItems.
func (s *Store) ListCardItems(_ context.Context, deckID uuid.UUID) ([]domain.CardItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CardItem(nil), s.cards[deckID]...), nil
}

// CheckSharedAccess implements store.DeckStore.CheckSharedAccess.
func (s *Store) CheckSharedAccess(_ context.Context, deckID, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.shares[shareKey{deckID: deckID, userID: userID}]
	return ok, nil
}

// InsertSessionResult implements store.SessionStore.InsertSessionResult.
func (s *Store) InsertSessionResult(ctx context.Context, result *domain.StudySessionResult) (bool, error) {
	if err := result.Validate(); err != nil {
		return false, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[result.ID]; ok {
		logger.FromContextOrDefault(ctx, s.logger).Debug("duplicate session result ignored",
			slog.String("session_id", result.ID.String()))
		return false, nil
	}

	profile, ok := s.profiles[result.UserID]
	if !ok {
		fresh, err := domain.NewProgressProfile(result.UserID)
		if err != nil {
			return false, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}
		profile = *fresh
	}
	next := profile.WithXP(profile.XP + result.XPEarned).RecordStudy(result.Date)
	next.UpdatedAt = s.now()

	s.sessions[result.ID] = *result
	s.profiles[result.UserID] = next
	return true, nil
}

// ListSessionResults implements store.SessionStore.ListSessionResults.
func (s *Store) ListSessionResults(
	_ context.Context,
	userID uuid.UUID,
	limit int,
) ([]domain.StudySessionResult, error) {
	if limit <= 0 {
		limit = 20
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.StudySessionResult
	for _, r := range s.sessions {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// InsertPost implements store.PostStore.InsertPost.
func (s *Store) InsertPost(_ context.Context, post *domain.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.posts[post.UserID] {
		if p.ID == post.ID {
			return fmt.Errorf("%w: post", store.ErrDuplicate)
		}
	}
	s.posts[post.UserID] = append(s.posts[post.UserID], *post)
	return nil
}

// CountPosts implements store.PostStore.CountPosts.
func (s *Store) CountPosts(_ context.Context, userID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts[userID]), nil
}

func cloneProfile(p domain.ProgressProfile) *domain.ProgressProfile {
	if p.LastStudyDate != nil {
		d := *p.LastStudyDate
		p.LastStudyDate = &d
	}
	return &p
}
