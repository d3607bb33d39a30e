package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/satheesh067/Flight-Price-Prediction/models"
)

var ErrDuplicateEmail = errors.New("email already registered")

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByID(ctx context.Context, id uint) (*models.User, error)
	UpdateSettings(ctx context.Context, id uint, settings models.Settings) error
}

type userStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) UserStore {
	return &userStore{db: db}
}

// Create inserts user. A user without saved settings gets the defaults so the
// settings column is never NULL.
func (s *userStore) Create(ctx context.Context, user *models.User) error {
	if user.Settings.Data().IsZero() {
		user.Settings = datatypes.NewJSONType(models.DefaultSettings())
	}
	if user.Role == "" {
		user.Role = "user"
	}
	err := s.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("%w: create user: %v", ErrPersistence, err)
	}
	return nil
}

func (s *userStore) ByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.first(s.db.WithContext(ctx).Where("email = ?", email))
}

func (s *userStore) ByID(ctx context.Context, id uint) (*models.User, error) {
	return s.first(s.db.WithContext(ctx).Where("id = ?", id))
}

func (s *userStore) UpdateSettings(ctx context.Context, id uint, settings models.Settings) error {
	res := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("settings", datatypes.NewJSONType(settings))
	if res.Error != nil {
		return fmt.Errorf("%w: update settings: %v", ErrPersistence, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *userStore) first(q *gorm.DB) (*models.User, error) {
	var user models.User
	err := q.First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load user: %v", ErrPersistence, err)
	}
	return &user, nil
}
