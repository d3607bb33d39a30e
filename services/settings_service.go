package services

import (
	"context"
	"errors"

	"github.com/satheesh067/Flight-Price-Prediction/apierr"
	"github.com/satheesh067/Flight-Price-Prediction/models"
	"github.com/satheesh067/Flight-Price-Prediction/store"
)

type SettingsService struct {
	users store.UserStore
}

func NewSettingsService(users store.UserStore) *SettingsService {
	return &SettingsService{users: users}
}

// Get returns the user's settings, or the defaults when none were saved.
func (s *SettingsService) Get(ctx context.Context, userID uint) (models.Settings, error) {
	user, err := s.users.ByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Settings{}, apierr.NotFound(errors.New("user not found"))
	}
	if err != nil {
		return models.Settings{}, apierr.Persistence(err)
	}
	return user.Preferences(), nil
}

// Update replaces the stored settings. Fields missing from upd fall back to
// their defaults, not to the previous value.
func (s *SettingsService) Update(ctx context.Context, userID uint, upd models.SettingsUpdate) (models.Settings, error) {
	settings := upd.Resolve()
	if err := settings.Validate(); err != nil {
		return models.Settings{}, apierr.Validation(err)
	}
	err := s.users.UpdateSettings(ctx, userID, settings)
	if errors.Is(err, store.ErrNotFound) {
		return models.Settings{}, apierr.NotFound(errors.New("user not found"))
	}
	if err != nil {
		return models.Settings{}, apierr.Persistence(err)
	}
	return settings, nil
}

// Currency returns the user's display currency, or the default one if the
// user cannot be loaded.
func (s *SettingsService) Currency(ctx context.Context, userID uint) string {
	settings, err := s.Get(ctx, userID)
	if err != nil {
		return models.DefaultSettings().Currency
	}
	return settings.Currency
}
