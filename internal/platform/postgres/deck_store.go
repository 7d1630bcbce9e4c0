package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/domain"
	"github.com/phrazzld/studyhall/internal/platform/logger"
	"github.com/phrazzld/studyhall/internal/store"
)

// PostgresDeckStore implements store.DeckStore on PostgreSQL.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a deck store.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

var _ store.DeckStore = (*PostgresDeckStore)(nil)

// GetDeck implements store.DeckStore.GetDeck.
func (s *PostgresDeckStore) GetDeck(ctx context.Context, deckID uuid.UUID) (*domain.Deck, error) {
	var d domain.Deck
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, is_public, color_tag, created_at
		FROM decks
		WHERE id = $1`, deckID,
	).Scan(&d.ID, &d.OwnerID, &d.Title, &d.IsPublic, &d.ColorTag, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDeckNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return nil, MapError(err)
	}
	return &d, nil
}

// ListCardItems implements store.DeckStore.ListCardItems.
func (s *PostgresDeckStore) ListCardItems(ctx context.Context, deckID uuid.UUID) ([]domain.CardItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, deck_id, front, back, order_index
		FROM card_items
		WHERE deck_id = $1
		ORDER BY order_index, id`, deckID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var cards []domain.CardItem
	for rows.Next() {
		var c domain.CardItem
		if err := rows.Scan(&c.ID, &c.DeckID, &c.Front, &c.Back, &c.OrderIndex); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// CheckSharedAccess implements store.DeckStore.CheckSharedAccess.
func (s *PostgresDeckStore) CheckSharedAccess(ctx context.Context, deckID, userID uuid.UUID) (bool, error) {
	var shared bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM deck_shares WHERE deck_id = $1 AND user_id = $2)`,
		deckID, userID,
	).Scan(&shared)
	if err != nil {
		return false, MapError(err)
	}
	return shared, nil
}
