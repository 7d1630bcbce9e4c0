// Package progress owns the profile-facing flows that award XP outside the
// shop and the quiz: post rewards and the profile view.
package progress

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/domain"
	"github.com/phrazzld/studyhall/internal/domain/leveling"
	"github.com/phrazzld/studyhall/internal/platform/logger"
	"github.com/phrazzld/studyhall/internal/service"
	"github.com/phrazzld/studyhall/internal/service/achievement"
	"github.com/phrazzld/studyhall/internal/store"
)

// recentSessionLimit bounds the session history included in a profile view.
const recentSessionLimit = 10

// Achievements is the part of the achievement engine this service drives.
type Achievements interface {
	CheckAndUnlock(ctx context.Context, userID uuid.UUID, currentXP, postCount int) ([]uuid.UUID, error)
	List(ctx context.Context, userID uuid.UUID) ([]achievement.Status, error)
}

// Config holds the progression tunables.
type Config struct {
	// PostXPReward is the XP granted for each post.
	PostXPReward int
}

// PostResult is the outcome of RecordPost.
type PostResult struct {
	Post            domain.Post             `json:"post"`
	Profile         *domain.ProgressProfile `json:"profile"`
	PostCount       int                     `json:"post_count"`
	NewAchievements []uuid.UUID             `json:"new_achievements"`
}

// View is the profile as rendered to its owner.
type View struct {
	UserID         uuid.UUID                   `json:"user_id"`
	XP             int                         `json:"xp"`
	Level          int                         `json:"level"`
	XPIntoLevel    int                         `json:"xp_into_level"`
	NextLevelAt    int                         `json:"next_level_at"`
	LevelProgress  float64                     `json:"level_progress"`
	BorderSlot     string                      `json:"border_slot"`
	NameColorSlot  string                      `json:"name_color_slot"`
	StreakDays     int                         `json:"streak_days"`
	LastStudyDate  *time.Time                  `json:"last_study_date,omitempty"`
	PostCount      int                         `json:"post_count"`
	Achievements   []achievement.Status        `json:"achievements"`
	RecentSessions []domain.StudySessionResult `json:"recent_sessions"`
}

// Service implements the progress flows.
type Service struct {
	profiles     store.ProfileStore
	posts        store.PostStore
	sessions     store.SessionStore
	achievements Achievements
	cfg          Config
	logger       *slog.Logger
}

// NewService creates a progress service.
func NewService(
	profiles store.ProfileStore,
	posts store.PostStore,
	sessions store.SessionStore,
	achievements Achievements,
	cfg Config,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		profiles:     profiles,
		posts:        posts,
		sessions:     sessions,
		achievements: achievements,
		cfg:          cfg,
		logger:       logger.With(slog.String("component", "progress_service")),
	}
}

// Ensure returns the user's profile, creating it on first use.
func (s *Service) Ensure(ctx context.Context, userID uuid.UUID) (*domain.ProgressProfile, error) {
	p, err := service.EnsureProfile(ctx, s.profiles, userID)
	if err != nil {
		return nil, service.NewServiceError("progress", "ensure", "failed to provision profile", err)
	}
	return p, nil
}

// RecordPost logs a post, awards the post reward as a single atomic increment
// and checks achievements against the new totals.
func (s *Service) RecordPost(ctx context.Context, userID uuid.UUID) (*PostResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))

	if _, err := s.Ensure(ctx, userID); err != nil {
		return nil, err
	}

	post := domain.Post{ID: uuid.New(), UserID: userID, CreatedAt: time.Now().UTC()}
	if err := s.posts.InsertPost(ctx, &post); err != nil {
		return nil, service.NewServiceError("progress", "record_post", "failed to store post", err)
	}

	profile, err := s.profiles.AwardXP(ctx, userID, s.cfg.PostXPReward)
	if err != nil {
		return nil, service.NewServiceError("progress", "record_post", "failed to award xp", err)
	}

	count, err := s.posts.CountPosts(ctx, userID)
	if err != nil {
		return nil, service.NewServiceError("progress", "record_post", "failed to count posts", err)
	}

	unlocked, err := s.achievements.CheckAndUnlock(ctx, userID, profile.XP, count)
	if err != nil {
		// The post and its XP are already stored; the next check will catch up.
		log.Warn("achievement check after post failed", slog.String("error", err.Error()))
		unlocked = []uuid.UUID{}
	}

	log.Info("post recorded",
		slog.Int("xp", profile.XP),
		slog.Int("level", profile.Level),
		slog.Int("post_count", count))
	return &PostResult{Post: post, Profile: profile, PostCount: count, NewAchievements: unlocked}, nil
}

// CheckAchievements runs the achievement engine against the stored profile.
func (s *Service) CheckAchievements(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	profile, err := s.Ensure(ctx, userID)
	if err != nil {
		return nil, err
	}
	count, err := s.posts.CountPosts(ctx, userID)
	if err != nil {
		return nil, service.NewServiceError("progress", "check_achievements", "failed to count posts", err)
	}
	return s.achievements.CheckAndUnlock(ctx, userID, profile.XP, count)
}

// View assembles the profile view. A user without a profile is shown a fresh
// level 1 profile without one being stored.
func (s *Service) View(ctx context.Context, userID uuid.UUID) (*View, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrProfileNotFound) {
			return nil, service.NewServiceError("progress", "view", "failed to load profile", err)
		}
		if profile, err = domain.NewProgressProfile(userID); err != nil {
			return nil, err
		}
	}

	count, err := s.posts.CountPosts(ctx, userID)
	if err != nil {
		return nil, service.NewServiceError("progress", "view", "failed to count posts", err)
	}
	statuses, err := s.achievements.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessions.ListSessionResults(ctx, userID, recentSessionLimit)
	if err != nil {
		return nil, service.NewServiceError("progress", "view", "failed to load sessions", err)
	}
	if sessions == nil {
		sessions = []domain.StudySessionResult{}
	}

	return &View{
		UserID:         profile.UserID,
		XP:             profile.XP,
		Level:          profile.Level,
		XPIntoLevel:    leveling.XPIntoLevel(profile.XP),
		NextLevelAt:    leveling.XPCeilingForLevel(profile.Level),
		LevelProgress:  leveling.Progress(profile.XP),
		BorderSlot:     profile.BorderSlot,
		NameColorSlot:  profile.NameColorSlot,
		StreakDays:     profile.StreakDays,
		LastStudyDate:  profile.LastStudyDate,
		PostCount:      count,
		Achievements:   statuses,
		RecentSessions: sessions,
	}, nil
}
