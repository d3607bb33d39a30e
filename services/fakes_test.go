package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"gorm.io/datatypes"

	"github.com/satheesh067/Flight-Price-Prediction/models"
	"github.com/satheesh067/Flight-Price-Prediction/store"
)

type memUsers struct {
	mu    sync.Mutex
	users []models.User
}

func newMemUsers() *memUsers { return &memUsers{} }

func (m *memUsers) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return store.ErrDuplicateEmail
		}
	}
	user.ID = uint(len(m.users) + 1)
	if user.Role == "" {
		user.Role = "user"
	}
	m.users = append(m.users, *user)
	return nil
}

func (m *memUsers) ByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memUsers) ByID(_ context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memUsers) UpdateSettings(_ context.Context, id uint, settings models.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.users {
		if m.users[i].ID == id {
			m.users[i].Settings = datatypes.NewJSONType(settings)
			return nil
		}
	}
	return store.ErrNotFound
}

type memHistory struct {
	mu        sync.Mutex
	records   []models.PredictionRecord
	appendErr error
	queries   int
}

func (m *memHistory) Append(_ context.Context, rec *models.PredictionRecord) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return 0, m.appendErr
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	rec.ID = uint(len(m.records) + 1)
	m.records = append(m.records, *rec)
	return rec.ID, nil
}

func (m *memHistory) QueryByUser(_ context.Context, userID uint) ([]models.PredictionRecord, error) {
	return m.filter(func(r models.PredictionRecord) bool { return r.UserID != nil && *r.UserID == userID }), nil
}

func (m *memHistory) QueryByRoute(_ context.Context, userID uint, source, destination string) ([]models.PredictionRecord, error) {
	return m.filter(func(r models.PredictionRecord) bool {
		return r.UserID != nil && *r.UserID == userID && r.Source == source && r.Destination == destination
	}), nil
}

func (m *memHistory) QueryPage(_ context.Context, userID uint, page store.Page) ([]models.PredictionRecord, error) {
	rows := m.filter(func(r models.PredictionRecord) bool {
		if r.UserID == nil || *r.UserID != userID {
			return false
		}
		switch {
		case page.Before == nil:
			return true
		case page.BeforeID > 0 && r.Timestamp.Equal(*page.Before):
			return r.ID < page.BeforeID
		default:
			return r.Timestamp.Before(*page.Before)
		}
	})
	if page.Limit > 0 && len(rows) > page.Limit {
		rows = rows[:page.Limit]
	}
	return rows, nil
}

func (m *memHistory) filter(keep func(models.PredictionRecord) bool) []models.PredictionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries++
	out := make([]models.PredictionRecord, 0)
	for _, r := range m.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

type memAlerts struct {
	mu     sync.Mutex
	alerts []models.PriceAlert
	nextID uint
}

func (m *memAlerts) Create(_ context.Context, alert *models.PriceAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	alert.ID = m.nextID
	m.alerts = append(m.alerts, *alert)
	return nil
}

func (m *memAlerts) ListByUser(_ context.Context, userID uint) ([]models.PriceAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.PriceAlert, 0)
	for _, a := range m.alerts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAlerts) SetActive(_ context.Context, userID, alertID uint, active bool) (*models.PriceAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.alerts {
		if m.alerts[i].ID == alertID && m.alerts[i].UserID == userID {
			m.alerts[i].IsActive = active
			a := m.alerts[i]
			return &a, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memAlerts) Delete(_ context.Context, userID, alertID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, a := range m.alerts {
		if a.ID == alertID && a.UserID == userID {
			m.alerts = append(m.alerts[:i], m.alerts[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

var errBoom = errors.New("boom")
