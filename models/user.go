package models

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID        uint                         `gorm:"column:id;primaryKey" json:"id"`
	Email     string                       `gorm:"column:email;size:120;uniqueIndex;not null" json:"email"`
	Password  string                       `gorm:"column:password_hash;size:255;not null" json:"-"`
	Role      string                       `gorm:"column:role;size:20;not null;default:user" json:"role"`
	CreatedAt time.Time                    `gorm:"column:created_at" json:"created_at"`
	Settings  datatypes.JSONType[Settings] `gorm:"column:settings;not null" json:"-"`
}

func (User) TableName() string { return "users" }

// Preferences returns the stored settings, or the defaults when none were saved.
func (u User) Preferences() Settings {
	s := u.Settings.Data()
	if s.IsZero() {
		return DefaultSettings()
	}
	return s
}
