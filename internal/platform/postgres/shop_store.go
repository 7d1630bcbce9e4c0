package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/domain"
	"github.com/phrazzld/studyhall/internal/platform/logger"
	"github.com/phrazzld/studyhall/internal/store"
)

// PostgresShopStore implements store.ShopStore on PostgreSQL.
type PostgresShopStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresShopStore creates a shop store.
// If logger is nil, a default logger will be used.
func NewPostgresShopStore(db store.DBTX, logger *slog.Logger) *PostgresShopStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresShopStore{
		db:     db,
		logger: logger.With(slog.String("component", "shop_store")),
	}
}

var _ store.ShopStore = (*PostgresShopStore)(nil)

const shopItemColumns = `id, item_type, item_value, xp_cost`

func scanShopItem(row rowScanner) (*domain.ShopItem, error) {
	var item domain.ShopItem
	var itemType string
	if err := row.Scan(&item.ID, &itemType, &item.ItemValue, &item.XPCost); err != nil {
		return nil, err
	}
	item.ItemType = domain.ItemType(itemType)
	return &item, nil
}

// ListShopItems implements store.ShopStore.ListShopItems.
func (s *PostgresShopStore) ListShopItems(ctx context.Context) ([]domain.ShopItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+shopItemColumns+` FROM shop_items ORDER BY position, item_type, item_value`)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list shop items",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var items []domain.ShopItem
	for rows.Next() {
		item, err := scanShopItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// GetShopItem implements store.ShopStore.GetShopItem.
func (s *PostgresShopStore) GetShopItem(ctx context.Context, itemID uuid.UUID) (*domain.ShopItem, error) {
	item, err := scanShopItem(s.db.QueryRowContext(ctx,
		`SELECT `+shopItemColumns+` FROM shop_items WHERE id = $1`, itemID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrShopItemNotFound
		}
		return nil, MapError(err)
	}
	return item, nil
}

// ListPurchases implements store.ShopStore.ListPurchases.
func (s *PostgresShopStore) ListPurchases(ctx context.Context, userID uuid.UUID) ([]domain.Purchase, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, item_id, purchased_at
		FROM purchases
		WHERE user_id = $1
		ORDER BY purchased_at`, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var purchases []domain.Purchase
	for rows.Next() {
		var p domain.Purchase
		if err := rows.Scan(&p.UserID, &p.ItemID, &p.PurchasedAt); err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

func insertPurchase(ctx context.Context, q store.DBTX, p domain.Purchase) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO purchases (user_id, item_id, purchased_at) VALUES ($1, $2, $3)`,
		p.UserID, p.ItemID, p.PurchasedAt)
	switch {
	case err == nil:
		return nil
	case IsUniqueViolation(err):
		return store.ErrPurchaseExists
	case IsForeignKeyViolation(err):
		return store.ErrShopItemNotFound
	default:
		return MapError(err)
	}
}

// InsertPurchase implements store.ShopStore.InsertPurchase.
func (s *PostgresShopStore) InsertPurchase(ctx context.Context, userID, itemID uuid.UUID) error {
	return insertPurchase(ctx, s.db, domain.Purchase{
		UserID:      userID,
		ItemID:      itemID,
		PurchasedAt: time.Now().UTC(),
	})
}

// CommitPurchase implements store.ShopStore.CommitPurchase. The profile row is
// locked for the whole unit of work, so the balance check and the debit see
// the same XP.
func (s *PostgresShopStore) CommitPurchase(
	ctx context.Context,
	commit store.PurchaseCommit,
) (*store.PurchaseReceipt, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", commit.UserID.String()),
		slog.String("item_id", commit.Item.ID.String()))

	if err := commit.Item.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	var receipt store.PurchaseReceipt
	err := inTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		before, err := lockProfile(ctx, tx, commit.UserID)
		if err != nil {
			return err
		}

		// Ownership is checked before the balance so a concurrent buyer of the
		// same item sees ErrPurchaseExists once the first commit lands.
		now := time.Now().UTC()
		purchase := domain.Purchase{UserID: commit.UserID, ItemID: commit.Item.ID, PurchasedAt: now}
		if err := insertPurchase(ctx, tx, purchase); err != nil {
			return err
		}
		if before.XP < commit.Item.XPCost {
			return store.NewStoreError("purchase", "commit",
				fmt.Sprintf("balance %d below cost %d", before.XP, commit.Item.XPCost),
				store.ErrInsufficientBalance)
		}

		after, err := before.ApplyPatch(domain.ProfilePatch{}.
			SetXP(before.XP-commit.Item.XPCost).
			SetSlot(commit.Item.Slot(), commit.Item.ItemValue))
		if err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}
		after.UpdatedAt = now
		if err := writeProfile(ctx, tx, &after); err != nil {
			return err
		}

		receipt = store.PurchaseReceipt{Purchase: purchase, Before: *before, After: after}
		return nil
	})
	if err != nil {
		log.Warn("purchase not committed", slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("purchase committed",
		slog.Int("xp_cost", commit.Item.XPCost),
		slog.Int("xp_after", receipt.After.XP),
		slog.Int("level_after", receipt.After.Level))
	return &receipt, nil
}
