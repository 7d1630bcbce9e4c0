package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/studyhall/internal/domain"
	"github.com/phrazzld/studyhall/internal/platform/logger"
	"github.com/phrazzld/studyhall/internal/store"
)

// EnsureProfile returns the user's profile, creating a level 1 profile on
// first use. A concurrent creation by another request is not an error.
func EnsureProfile(
	ctx context.Context,
	profiles store.ProfileStore,
	userID uuid.UUID,
) (*domain.ProgressProfile, error) {
	p, err := profiles.Get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, store.ErrProfileNotFound) {
		return nil, err
	}

	fresh, err := domain.NewProgressProfile(userID)
	if err != nil {
		return nil, err
	}
	if err := profiles.Create(ctx, fresh); err != nil {
		if errors.Is(err, store.ErrProfileExists) {
			return profiles.Get(ctx, userID)
		}
		return nil, err
	}

	logger.FromContext(ctx).Info("provisioned progress profile",
		slog.String("user_id", userID.String()))
	return fresh, nil
}
