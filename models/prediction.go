package models

import "time"

// PredictionRecord is one served prediction. Rows are append-only.
type PredictionRecord struct {
	ID              uint      `gorm:"column:id;primaryKey" json:"id"`
	Timestamp       time.Time `gorm:"column:predicted_at;not null;index:idx_history_user_ts,priority:2" json:"timestamp"`
	Source          string    `gorm:"column:source;size:50;not null" json:"source"`
	Destination     string    `gorm:"column:destination;size:50;not null" json:"destination"`
	Airline         string    `gorm:"column:airline;size:100;not null" json:"airline"`
	Stops           int       `gorm:"column:stops;not null" json:"stops"`
	DurationHours   int       `gorm:"column:duration_hours;not null" json:"duration_hours"`
	DurationMinutes int       `gorm:"column:duration_minutes;not null" json:"duration_minutes"`
	PredictedPrice  float64   `gorm:"column:predicted_price;not null" json:"predicted_price"`
	UserID          *uint     `gorm:"column:user_id;index:idx_history_user_ts,priority:1" json:"user_id,omitempty"`
}

func (PredictionRecord) TableName() string { return "prediction_history" }

func (r PredictionRecord) RouteKey() Route {
	return Route{Source: r.Source, Destination: r.Destination}
}

// Route is an ordered (source, destination) pair.
type Route struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

func (r Route) String() string { return r.Source + "->" + r.Destination }

// Less orders routes by source then destination.
func (r Route) Less(o Route) bool {
	if r.Source != o.Source {
		return r.Source < o.Source
	}
	return r.Destination < o.Destination
}
