package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/domain"
	"github.com/phrazzld/studyhall/internal/platform/logger"
	"github.com/phrazzld/studyhall/internal/store"
)

// PostgresSessionStore implements store.SessionStore and store.PostStore on PostgreSQL.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a session store.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

var (
	_ store.SessionStore = (*PostgresSessionStore)(nil)
	_ store.PostStore    = (*PostgresSessionStore)(nil)
)

// InsertSessionResult implements store.SessionStore.InsertSessionResult.
//
// The result row, the XP increment and the streak update commit together. A
// profile is provisioned on the fly for users who have never earned XP.
func (s *PostgresSessionStore) InsertSessionResult(
	ctx context.Context,
	result *domain.StudySessionResult,
) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("session_id", result.ID.String()),
		slog.String("user_id", result.UserID.String()))

	if err := result.Validate(); err != nil {
		return false, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	inserted := false
	err := inTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO study_session_results
				(id, user_id, deck_id, questions_answered, correct_answers, xp_earned, session_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO NOTHING`,
			result.ID, result.UserID, result.DeckID,
			result.QuestionsAnswered, result.CorrectAnswers, result.XPEarned, result.Date)
		if err != nil {
			return MapError(err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return nil
		}
		inserted = true

		now := time.Now().UTC()
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO progress_profiles (user_id, created_at, updated_at)
			VALUES ($1, $2, $2)
			ON CONFLICT (user_id) DO NOTHING`, result.UserID, now); err != nil {
			return MapError(err)
		}

		before, err := lockProfile(ctx, tx, result.UserID)
		if err != nil {
			return err
		}
		after := before.WithXP(before.XP + result.XPEarned).RecordStudy(result.Date)
		after.UpdatedAt = now
		return writeProfile(ctx, tx, &after)
	})
	if err != nil {
		log.Error("failed to store session result", slog.String("error", err.Error()))
		return false, err
	}

	if inserted {
		log.Info("session result stored",
			slog.Int("questions_answered", result.QuestionsAnswered),
			slog.Int("correct_answers", result.CorrectAnswers),
			slog.Int("xp_earned", result.XPEarned))
	} else {
		log.Info("duplicate session result ignored")
	}
	return inserted, nil
}

// ListSessionResults implements store.SessionStore.ListSessionResults.
func (s *PostgresSessionStore) ListSessionResults(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]domain.StudySessionResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, deck_id, questions_answered, correct_answers, xp_earned, session_date
		FROM study_session_results
		WHERE user_id = $1
		ORDER BY session_date DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var results []domain.StudySessionResult
	for rows.Next() {
		var r domain.StudySessionResult
		if err := rows.Scan(&r.ID, &r.UserID, &r.DeckID,
			&r.QuestionsAnswered, &r.CorrectAnswers, &r.XPEarned, &r.Date); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// InsertPost implements store.PostStore.InsertPost.
func (s *PostgresSessionStore) InsertPost(ctx context.Context, post *domain.Post) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO posts (id, user_id, created_at) VALUES ($1, $2, $3)`,
		post.ID, post.UserID, post.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: post", store.ErrDuplicate)
		}
		return MapError(err)
	}
	return nil
}

// CountPosts implements store.PostStore.CountPosts.
func (s *PostgresSessionStore) CountPosts(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE user_id = $1`, userID,
	).Scan(&n); err != nil {
		return 0, MapError(err)
	}
	return n, nil
}
