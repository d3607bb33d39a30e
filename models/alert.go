package models

import "time"

type PriceAlert struct {
	ID          uint      `gorm:"column:id;primaryKey" json:"id"`
	UserID      uint      `gorm:"column:user_id;not null;index" json:"user_id"`
	Source      string    `gorm:"column:source;size:50;not null" json:"source"`
	Destination string    `gorm:"column:destination;size:50;not null" json:"destination"`
	Airline     string    `gorm:"column:airline;size:100" json:"airline"`
	MaxPrice    float64   `gorm:"column:max_price;not null" json:"max_price"`
	IsActive    bool      `gorm:"column:is_active;not null" json:"is_active"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (PriceAlert) TableName() string { return "price_alerts" }

func (a PriceAlert) RouteKey() Route {
	return Route{Source: a.Source, Destination: a.Destination}
}
