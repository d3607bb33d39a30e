package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/satheesh067/Flight-Price-Prediction/logger"
	"github.com/satheesh067/Flight-Price-Prediction/models"
)

var ErrPersistence = errors.New("persistence failure")

// HistoryStore is the append-only prediction log. Queries return newest first.
type HistoryStore interface {
	Append(ctx context.Context, rec *models.PredictionRecord) (uint, error)
	QueryByUser(ctx context.Context, userID uint) ([]models.PredictionRecord, error)
	QueryByRoute(ctx context.Context, userID uint, source, destination string) ([]models.PredictionRecord, error)
	QueryPage(ctx context.Context, userID uint, page Page) ([]models.PredictionRecord, error)
}

// Page selects at most Limit records that sort after the cursor in
// (predicted_at DESC, id DESC) order. With BeforeID zero only records strictly
// older than Before qualify. A zero Limit means no limit.
type Page struct {
	Limit    int
	Before   *time.Time
	BeforeID uint
}

type historyStore struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHistoryStore(db *gorm.DB, baseLog *logger.Logger) HistoryStore {
	return &historyStore{db: db, log: baseLog.With("store", "HistoryStore")}
}

// Append writes rec in a single INSERT and fills in its ID. A zero Timestamp
// is set to the current UTC time.
func (s *historyStore) Append(ctx context.Context, rec *models.PredictionRecord) (uint, error) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	} else {
		rec.Timestamp = rec.Timestamp.UTC()
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		s.log.Error("append prediction failed", "error", err)
		return 0, fmt.Errorf("%w: append prediction: %v", ErrPersistence, err)
	}
	return rec.ID, nil
}

func (s *historyStore) QueryByUser(ctx context.Context, userID uint) ([]models.PredictionRecord, error) {
	return s.find(s.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (s *historyStore) QueryByRoute(ctx context.Context, userID uint, source, destination string) ([]models.PredictionRecord, error) {
	return s.find(s.db.WithContext(ctx).
		Where("user_id = ? AND source = ? AND destination = ?", userID, source, destination))
}

func (s *historyStore) QueryPage(ctx context.Context, userID uint, page Page) ([]models.PredictionRecord, error) {
	q := s.db.WithContext(ctx).Where("user_id = ?", userID)
	switch {
	case page.Before != nil && page.BeforeID > 0:
		ts := page.Before.UTC()
		q = q.Where("(predicted_at < ? OR (predicted_at = ? AND id < ?))", ts, ts, page.BeforeID)
	case page.Before != nil:
		q = q.Where("predicted_at < ?", page.Before.UTC())
	}
	if page.Limit > 0 {
		q = q.Limit(page.Limit)
	}
	return s.find(q)
}

func (s *historyStore) find(q *gorm.DB) ([]models.PredictionRecord, error) {
	rows := make([]models.PredictionRecord, 0)
	if err := q.Order("predicted_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: query history: %v", ErrPersistence, err)
	}
	return rows, nil
}
