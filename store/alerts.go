package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/satheesh067/Flight-Price-Prediction/logger"
	"github.com/satheesh067/Flight-Price-Prediction/models"
)

var ErrNotFound = errors.New("not found")

type AlertStore interface {
	Create(ctx context.Context, alert *models.PriceAlert) error
	ListByUser(ctx context.Context, userID uint) ([]models.PriceAlert, error)
	SetActive(ctx context.Context, userID, alertID uint, active bool) (*models.PriceAlert, error)
	Delete(ctx context.Context, userID, alertID uint) error
}

type alertStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAlertStore(db *gorm.DB, baseLog *logger.Logger) AlertStore {
	return &alertStore{db: db, log: baseLog.With("store", "AlertStore")}
}

func (s *alertStore) Create(ctx context.Context, alert *models.PriceAlert) error {
	if err := s.db.WithContext(ctx).Create(alert).Error; err != nil {
		s.log.Error("create alert failed", "error", err)
		return fmt.Errorf("%w: create alert: %v", ErrPersistence, err)
	}
	return nil
}

func (s *alertStore) ListByUser(ctx context.Context, userID uint) ([]models.PriceAlert, error) {
	alerts := make([]models.PriceAlert, 0)
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("%w: list alerts: %v", ErrPersistence, err)
	}
	return alerts, nil
}

// SetActive pauses or resumes the alert only if it belongs to userID and
// returns the updated row.
func (s *alertStore) SetActive(ctx context.Context, userID, alertID uint, active bool) (*models.PriceAlert, error) {
	var alert models.PriceAlert
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", alertID, userID).First(&alert).Error; err != nil {
			return err
		}
		alert.IsActive = active
		return tx.Model(&alert).Update("is_active", active).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: update alert: %v", ErrPersistence, err)
	}
	return &alert, nil
}

// Delete removes the alert only if it belongs to userID.
func (s *alertStore) Delete(ctx context.Context, userID, alertID uint) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", alertID, userID).
		Delete(&models.PriceAlert{})
	if res.Error != nil {
		return fmt.Errorf("%w: delete alert: %v", ErrPersistence, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
