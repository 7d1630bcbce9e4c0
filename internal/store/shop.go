package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/domain"
)

// PurchaseCommit describes every effect of buying one item. The store applies
// all of them or none.
type PurchaseCommit struct {
	UserID uuid.UUID
	Item   domain.ShopItem
}

// PurchaseReceipt reports the profile before and after a committed purchase.
type PurchaseReceipt struct {
	Purchase domain.Purchase
	Before   domain.ProgressProfile
	After    domain.ProgressProfile
}

// LevelDropped reports whether the purchase cost the user at least one level.
func (r *PurchaseReceipt) LevelDropped() bool {
	return r.After.Level < r.Before.Level
}

// ShopStore defines the interface for the shop catalog and purchases.
type ShopStore interface {
	// ListShopItems returns the full catalog in a stable order.
	ListShopItems(ctx context.Context) ([]domain.ShopItem, error)

	// GetShopItem retrieves one item.
	// Returns ErrShopItemNotFound if it does not exist.
	GetShopItem(ctx context.Context, itemID uuid.UUID) (*domain.ShopItem, error)

	// ListPurchases returns the items the user owns.
	ListPurchases(ctx context.Context, userID uuid.UUID) ([]domain.Purchase, error)

	// InsertPurchase records ownership without touching the profile.
	// Returns ErrPurchaseExists if the user already owns the item.
	InsertPurchase(ctx context.Context, userID, itemID uuid.UUID) error

	// CommitPurchase records the purchase, debits the item's cost, recomputes
	// the level and equips the item in its slot as a single unit of work.
	//
	// Returns ErrPurchaseExists if the user already owns the item,
	// ErrInsufficientBalance if the balance at commit time is below the cost,
	// and ErrProfileNotFound if the user has no profile. On any error nothing
	// is written.
	CommitPurchase(ctx context.Context, commit PurchaseCommit) (*PurchaseReceipt, error)
}
