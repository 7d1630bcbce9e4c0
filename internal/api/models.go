package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/domain"
	"github.com/phrazzld/studyhall/internal/quiz"
	"github.com/phrazzld/studyhall/internal/service/achievement"
	"github.com/phrazzld/studyhall/internal/service/progress"
	"github.com/phrazzld/studyhall/internal/service/shop"
)

// ProgressService is the part of progress.Service the API uses.
type ProgressService interface {
	View(ctx context.Context, userID uuid.UUID) (*progress.View, error)
	RecordPost(ctx context.Context, userID uuid.UUID) (*progress.PostResult, error)
	CheckAchievements(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// AchievementLister lists the catalog with a user's unlock state.
type AchievementLister interface {
	List(ctx context.Context, userID uuid.UUID) ([]achievement.Status, error)
}

// ShopService is the part of shop.Service the API uses.
type ShopService interface {
	Catalog(ctx context.Context) ([]domain.ShopItem, error)
	Inventory(ctx context.Context, userID uuid.UUID) ([]shop.InventoryEntry, error)
	Purchase(ctx context.Context, userID, itemID uuid.UUID) (*shop.PurchaseResult, error)
	Equip(ctx context.Context, userID, itemID uuid.UUID) (*domain.ProgressProfile, error)
	Unequip(ctx context.Context, userID, itemID uuid.UUID) (*domain.ProgressProfile, error)
}

var (
	_ ProgressService   = (*progress.Service)(nil)
	_ AchievementLister = (*achievement.Service)(nil)
	_ ShopService       = (*shop.Service)(nil)
)

// CheckAchievementsResponse lists achievements unlocked by a check.
type CheckAchievementsResponse struct {
	NewAchievements []uuid.UUID `json:"new_achievements"`
}

// AnswerRequest is the body of POST /decks/{id}/session/answer.
type AnswerRequest struct {
	CardID string `json:"card_id" validate:"required,uuid"`
	Option string `json:"option"  validate:"required"`
}

// CardRequest is the body of POST /decks/{id}/session/reveal.
type CardRequest struct {
	CardID string `json:"card_id" validate:"required,uuid"`
}

// SessionResponse is returned by every quiz session endpoint.
type SessionResponse struct {
	Session quiz.Snapshot              `json:"session"`
	Outcome *quiz.AnswerOutcome        `json:"outcome,omitempty"`
	Answer  string                     `json:"answer,omitempty"`
	Result  *domain.StudySessionResult `json:"result,omitempty"`
}
