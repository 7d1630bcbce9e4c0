package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/domain"
	"github.com/phrazzld/studyhall/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockShopStore is a mock of store.ShopStore for use with testify/mock.
type TestifyMockShopStore struct {
	mock.Mock
}

var _ store.ShopStore = (*TestifyMockShopStore)(nil)

// ListShopItems is a mock implementation of store.ShopStore.ListShopItems
func (m *TestifyMockShopStore) ListShopItems(ctx context.Context) ([]domain.ShopItem, error) {
	args := m.Called(ctx)
	if items, ok := args.Get(0).([]domain.ShopItem); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetShopItem is a mock implementation of store.ShopStore.GetShopItem
func (m *TestifyMockShopStore) GetShopItem(ctx context.Context, itemID uuid.UUID) (*domain.ShopItem, error) {
	args := m.Called(ctx, itemID)
	if item, ok := args.Get(0).(*domain.ShopItem); ok {
		return item, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListPurchases is a mock implementation of store.ShopStore.ListPurchases
func (m *TestifyMockShopStore) ListPurchases(ctx context.Context, userID uuid.UUID) ([]domain.Purchase, error) {
	args := m.Called(ctx, userID)
	if purchases, ok := args.Get(0).([]domain.Purchase); ok {
		return purchases, args.Error(1)
	}
	return nil, args.Error(1)
}

// InsertPurchase is a mock implementation of store.ShopStore.InsertPurchase
func (m *TestifyMockShopStore) InsertPurchase(ctx context.Context, userID, itemID uuid.UUID) error {
	args := m.Called(ctx, userID, itemID)
	return args.Error(0)
}

// CommitPurchase is a mock implementation of store.ShopStore.CommitPurchase
func (m *TestifyMockShopStore) CommitPurchase(
	ctx context.Context,
	commit store.PurchaseCommit,
) (*store.PurchaseReceipt, error) {
	args := m.Called(ctx, commit)
	if receipt, ok := args.Get(0).(*store.PurchaseReceipt); ok {
		return receipt, args.Error(1)
	}
	return nil, args.Error(1)
}
