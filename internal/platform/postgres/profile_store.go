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

const profileColumns = `user_id, xp, level, border_slot, name_color_slot,
	streak_days, last_study_date, created_at, updated_at`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*domain.ProgressProfile, error) {
	var p domain.ProgressProfile
	var lastStudy sql.NullTime
	if err := row.Scan(
		&p.UserID,
		&p.XP,
		&p.Level,
		&p.BorderSlot,
		&p.NameColorSlot,
		&p.StreakDays,
		&lastStudy,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if lastStudy.Valid {
		d := lastStudy.Time.UTC()
		p.LastStudyDate = &d
	}
	return &p, nil
}

// lockProfile reads a profile row and holds its lock until the surrounding
// transaction ends.
func lockProfile(ctx context.Context, q store.DBTX, userID uuid.UUID) (*domain.ProgressProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM progress_profiles WHERE user_id = $1 FOR UPDATE`
	p, err := scanProfile(q.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

// writeProfile stores every mutable column of p. The table's CHECK constraints
// reject negative XP and a level that does not match XP.
func writeProfile(ctx context.Context, q store.DBTX, p *domain.ProgressProfile) error {
	var lastStudy any
	if p.LastStudyDate != nil {
		lastStudy = *p.LastStudyDate
	}
	result, err := q.ExecContext(ctx, `
		UPDATE progress_profiles
		SET xp = $2, level = $3, border_slot = $4, name_color_slot = $5,
		    streak_days = $6, last_study_date = $7, updated_at = $8
		WHERE user_id = $1`,
		p.UserID, p.XP, p.Level, p.BorderSlot, p.NameColorSlot,
		p.StreakDays, lastStudy, p.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrProfileNotFound)
}

// PostgresProfileStore implements store.ProfileStore on PostgreSQL.
type PostgresProfileStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProfileStore creates a profile store over a connection or transaction.
// If logger is nil, a default logger will be used.
func NewPostgresProfileStore(db store.DBTX, logger *slog.Logger) *PostgresProfileStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProfileStore{
		db:     db,
		logger: logger.With(slog.String("component", "profile_store")),
	}
}

var _ store.ProfileStore = (*PostgresProfileStore)(nil)

// WithTx returns a profile store that runs its statements inside tx.
func (s *PostgresProfileStore) WithTx(tx *sql.Tx) *PostgresProfileStore {
	return &PostgresProfileStore{db: tx, logger: s.logger}
}

// Get implements store.ProfileStore.Get.
func (s *PostgresProfileStore) Get(ctx context.Context, userID uuid.UUID) (*domain.ProgressProfile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + profileColumns + ` FROM progress_profiles WHERE user_id = $1`
	p, err := scanProfile(s.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("profile not found", slog.String("user_id", userID.String()))
			return nil, store.ErrProfileNotFound
		}
		log.Error("failed to get profile",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	return p, nil
}

// Create implements store.ProfileStore.Create.
func (s *PostgresProfileStore) Create(ctx context.Context, profile *domain.ProgressProfile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := profile.Validate(); err != nil {
		log.Warn("profile validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", profile.UserID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO progress_profiles
			(user_id, xp, level, border_slot, name_color_slot, streak_days, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		profile.UserID, profile.XP, profile.Level, profile.BorderSlot, profile.NameColorSlot,
		profile.StreakDays, profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrProfileExists
		}
		log.Error("failed to create profile",
			slog.String("error", err.Error()),
			slog.String("user_id", profile.UserID.String()))
		return MapError(err)
	}

	log.Info("profile created", slog.String("user_id", profile.UserID.String()))
	return nil
}

// Update implements store.ProfileStore.Update.
func (s *PostgresProfileStore) Update(
	ctx context.Context,
	userID uuid.UUID,
	patch domain.ProfilePatch,
) (*domain.ProgressProfile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated domain.ProgressProfile
	err := inTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		current, err := lockProfile(ctx, tx, userID)
		if err != nil {
			return err
		}

		next, err := current.ApplyPatch(patch)
		if err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}
		next.UpdatedAt = time.Now().UTC()

		if err := writeProfile(ctx, tx, &next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		log.Warn("failed to update profile",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	log.Debug("profile updated",
		slog.String("user_id", userID.String()),
		slog.Int("xp", updated.XP),
		slog.Int("level", updated.Level))
	return &updated, nil
}

// AwardXP implements store.ProfileStore.AwardXP as a single server-side
// increment, so concurrent awards for the same user never lose an update.
func (s *PostgresProfileStore) AwardXP(
	ctx context.Context,
	userID uuid.UUID,
	delta int,
) (*domain.ProgressProfile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE progress_profiles
		SET xp = xp + $2, level = (xp + $2) / 100 + 1, updated_at = $3
		WHERE user_id = $1 AND xp + $2 >= 0
		RETURNING ` + profileColumns

	p, err := scanProfile(s.db.QueryRowContext(ctx, query, userID, delta, time.Now().UTC()))
	if err == nil {
		log.Debug("xp awarded",
			slog.String("user_id", userID.String()),
			slog.Int("delta", delta),
			slog.Int("xp", p.XP),
			slog.Int("level", p.Level))
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to award xp",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	// No row matched: either the profile is missing or the delta would go negative.
	var exists bool
	if err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM progress_profiles WHERE user_id = $1)`, userID,
	).Scan(&exists); err != nil {
		return nil, MapError(err)
	}
	if !exists {
		return nil, store.ErrProfileNotFound
	}
	return nil, store.ErrInsufficientBalance
}
