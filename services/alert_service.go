package services

import (
	"context"
	"errors"
	"strings"

	"github.com/satheesh067/Flight-Price-Prediction/apierr"
	"github.com/satheesh067/Flight-Price-Prediction/logger"
	"github.com/satheesh067/Flight-Price-Prediction/models"
	"github.com/satheesh067/Flight-Price-Prediction/store"
)

type CreateAlertRequest struct {
	Source      string  `json:"source" binding:"required"`
	Destination string  `json:"destination" binding:"required"`
	Airline     string  `json:"airline"`
	MaxPrice    float64 `json:"max_price" binding:"required,gt=0"`
	IsActive    *bool   `json:"is_active"`
}

type UpdateAlertRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// AlertService manages price alerts. Every change bumps the owner's analytics
// version because the dashboard summarises alerts.
type AlertService struct {
	alerts store.AlertStore
	cache  *CacheService
	log    *logger.Logger
}

func NewAlertService(alerts store.AlertStore, cache *CacheService, baseLog *logger.Logger) *AlertService {
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	return &AlertService{alerts: alerts, cache: cache, log: baseLog.With("service", "AlertService")}
}

func (s *AlertService) Create(ctx context.Context, userID uint, req CreateAlertRequest) (*models.PriceAlert, error) {
	source, destination := strings.TrimSpace(req.Source), strings.TrimSpace(req.Destination)
	if source == "" || destination == "" {
		return nil, apierr.Validation(errors.New("source and destination are required"))
	}
	if req.MaxPrice <= 0 {
		return nil, apierr.Validation(errors.New("max_price must be positive"))
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	alert := &models.PriceAlert{
		UserID:      userID,
		Source:      source,
		Destination: destination,
		Airline:     strings.TrimSpace(req.Airline),
		MaxPrice:    req.MaxPrice,
		IsActive:    active,
	}
	if err := s.alerts.Create(ctx, alert); err != nil {
		return nil, apierr.Persistence(err)
	}
	s.invalidate(ctx, userID)
	return alert, nil
}

func (s *AlertService) List(ctx context.Context, userID uint) ([]models.PriceAlert, error) {
	alerts, err := s.alerts.ListByUser(ctx, userID)
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	return alerts, nil
}

// SetActive pauses or resumes an alert owned by userID.
func (s *AlertService) SetActive(ctx context.Context, userID, alertID uint, req UpdateAlertRequest) (*models.PriceAlert, error) {
	if req.IsActive == nil {
		return nil, apierr.Validation(errors.New("is_active is required"))
	}
	alert, err := s.alerts.SetActive(ctx, userID, alertID, *req.IsActive)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apierr.NotFound(errors.New("alert not found"))
	}
	if err != nil {
		return nil, apierr.Persistence(err)
	}
	s.invalidate(ctx, userID)
	return alert, nil
}

func (s *AlertService) Delete(ctx context.Context, userID, alertID uint) error {
	err := s.alerts.Delete(ctx, userID, alertID)
	if errors.Is(err, store.ErrNotFound) {
		return apierr.NotFound(errors.New("alert not found"))
	}
	if err != nil {
		return apierr.Persistence(err)
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *AlertService) invalidate(ctx context.Context, userID uint) {
	if err := s.cache.Bump(ctx, userID); err != nil {
		s.log.Warn("analytics cache bump failed", "user_id", userID, "error", err)
	}
}
