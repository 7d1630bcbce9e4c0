package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/domain"
	"github.com/phrazzld/studyhall/internal/platform/logger"
	"github.com/phrazzld/studyhall/internal/store"
)

// PostgresAchievementStore implements store.AchievementStore on PostgreSQL.
type PostgresAchievementStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAchievementStore creates an achievement store.
// If logger is nil, a default logger will be used.
func NewPostgresAchievementStore(db store.DBTX, logger *slog.Logger) *PostgresAchievementStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresAchievementStore{
		db:     db,
		logger: logger.With(slog.String("component", "achievement_store")),
	}
}

var _ store.AchievementStore = (*PostgresAchievementStore)(nil)

// ListAchievements implements store.AchievementStore.ListAchievements.
func (s *PostgresAchievementStore) ListAchievements(ctx context.Context) ([]domain.Achievement, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, icon, kind, threshold
		FROM achievements
		ORDER BY position, name`)
	if err != nil {
		log.Error("failed to list achievements", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Achievement
	for rows.Next() {
		var a domain.Achievement
		var kind string
		if err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.Icon, &kind, &a.Threshold); err != nil {
			return nil, err
		}
		a.Kind = domain.AchievementKind(kind)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListUnlocked implements store.AchievementStore.ListUnlocked.
func (s *PostgresAchievementStore) ListUnlocked(
	ctx context.Context,
	userID uuid.UUID,
) ([]domain.UnlockedAchievement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, achievement_id, unlocked_at
		FROM unlocked_achievements
		WHERE user_id = $1
		ORDER BY unlocked_at`, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list unlocked achievements",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.UnlockedAchievement
	for rows.Next() {
		var u domain.UnlockedAchievement
		if err := rows.Scan(&u.UserID, &u.AchievementID, &u.UnlockedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// InsertUnlock implements store.AchievementStore.InsertUnlock.
// ON CONFLICT DO NOTHING turns a concurrent duplicate into a zero-row insert.
func (s *PostgresAchievementStore) InsertUnlock(ctx context.Context, userID, achievementID uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO unlocked_achievements (user_id, achievement_id, unlocked_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, achievement_id) DO NOTHING`,
		userID, achievementID, time.Now().UTC())
	if err != nil {
		if IsForeignKeyViolation(err) {
			return false, store.ErrAchievementNotFound
		}
		log.Error("failed to insert unlock",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("achievement_id", achievementID.String()))
		return false, MapError(err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		log.Debug("achievement already unlocked",
			slog.String("user_id", userID.String()),
			slog.String("achievement_id", achievementID.String()))
		return false, nil
	}
	return true, nil
}
