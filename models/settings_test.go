package models

import (
	"testing"

	"gorm.io/datatypes"
)

func TestDefaultSettingsValid(t *testing.T) {
	s := DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if s.Currency != "INR" || s.ChartType != "line" || !s.NotificationEnabled ||
		s.NotificationFrequency != "immediate" || s.Theme != "light" {
		t.Errorf("unexpected defaults: %+v", s)
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"usd bar dark", func(s *Settings) { s.Currency = "USD"; s.ChartType = "bar"; s.Theme = "dark" }, false},
		{"weekly", func(s *Settings) { s.NotificationFrequency = "weekly" }, false},
		{"bad currency", func(s *Settings) { s.Currency = "GBP" }, true},
		{"bad chart", func(s *Settings) { s.ChartType = "pie" }, true},
		{"bad frequency", func(s *Settings) { s.NotificationFrequency = "hourly" }, true},
		{"bad theme", func(s *Settings) { s.Theme = "neon" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			err := s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSettingsUpdateResolve(t *testing.T) {
	eur := " eur "
	off := false
	got := SettingsUpdate{Currency: &eur, NotificationEnabled: &off}.Resolve()

	if got.Currency != "EUR" {
		t.Errorf("Currency = %q, want EUR", got.Currency)
	}
	if got.NotificationEnabled {
		t.Error("NotificationEnabled should be false")
	}
	if got.ChartType != "line" || got.Theme != "light" || got.NotificationFrequency != "immediate" {
		t.Errorf("missing fields should fall back to defaults: %+v", got)
	}
}

func TestUserPreferencesFallback(t *testing.T) {
	var u User
	if got := u.Preferences(); got != DefaultSettings() {
		t.Errorf("Preferences() = %+v, want defaults", got)
	}

	custom := DefaultSettings()
	custom.Theme = "dark"
	u.Settings = datatypes.NewJSONType(custom)
	if got := u.Preferences(); got.Theme != "dark" {
		t.Errorf("Preferences().Theme = %q, want dark", got.Theme)
	}
}

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		price    float64
		currency string
		want     string
	}{
		{1234567.891, "INR", "₹1,234,567.89"},
		{999.5, "USD", "$999.50"},
		{1000, "EUR", "€1,000.00"},
		{0, "INR", "₹0.00"},
		{-4500.25, "USD", "-$4,500.25"},
		{12.3, "JPY", "12.30"},
	}
	for _, tt := range tests {
		if got := FormatPrice(tt.price, tt.currency); got != tt.want {
			t.Errorf("FormatPrice(%v, %q) = %q, want %q", tt.price, tt.currency, got, tt.want)
		}
	}
}

func TestRouteOrdering(t *testing.T) {
	a := Route{Source: "Delhi", Destination: "Cochin"}
	b := Route{Source: "Delhi", Destination: "Kolkata"}
	c := Route{Source: "Mumbai", Destination: "Cochin"}
	if !a.Less(b) || !b.Less(c) || c.Less(a) {
		t.Error("routes should order by source then destination")
	}
	if a.String() != "Delhi->Cochin" {
		t.Errorf("String() = %q", a.String())
	}
}
