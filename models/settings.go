package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	CurrencyINR = "INR"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
)

var (
	Currencies              = []string{CurrencyINR, CurrencyUSD, CurrencyEUR}
	ChartTypes              = []string{"line", "bar"}
	NotificationFrequencies = []string{"immediate", "daily", "weekly"}
	Themes                  = []string{"light", "dark"}
)

// Settings are per-user display preferences.
type Settings struct {
	Currency              string `json:"currency"`
	ChartType             string `json:"chart_type"`
	NotificationEnabled   bool   `json:"notification_enabled"`
	NotificationFrequency string `json:"notification_frequency"`
	Theme                 string `json:"theme"`
}

func DefaultSettings() Settings {
	return Settings{
		Currency:              CurrencyINR,
		ChartType:             "line",
		NotificationEnabled:   true,
		NotificationFrequency: "immediate",
		Theme:                 "light",
	}
}

// IsZero reports whether nothing was ever stored. Stored settings always
// carry a currency.
func (s Settings) IsZero() bool {
	return s.Currency == ""
}

func (s Settings) Validate() error {
	checks := []struct {
		field, value string
		allowed      []string
	}{
		{"currency", s.Currency, Currencies},
		{"chart_type", s.ChartType, ChartTypes},
		{"notification_frequency", s.NotificationFrequency, NotificationFrequencies},
		{"theme", s.Theme, Themes},
	}
	for _, c := range checks {
		if !contains(c.allowed, c.value) {
			return fmt.Errorf("invalid %s %q: want one of %s", c.field, c.value, strings.Join(c.allowed, ", "))
		}
	}
	return nil
}

// SettingsUpdate is the POST /settings body. Absent fields take the default.
type SettingsUpdate struct {
	Currency              *string `json:"currency"`
	ChartType             *string `json:"chart_type"`
	NotificationEnabled   *bool   `json:"notification_enabled"`
	NotificationFrequency *string `json:"notification_frequency"`
	Theme                 *string `json:"theme"`
}

func (u SettingsUpdate) Resolve() Settings {
	s := DefaultSettings()
	if u.Currency != nil {
		s.Currency = strings.ToUpper(strings.TrimSpace(*u.Currency))
	}
	if u.ChartType != nil {
		s.ChartType = strings.ToLower(strings.TrimSpace(*u.ChartType))
	}
	if u.NotificationEnabled != nil {
		s.NotificationEnabled = *u.NotificationEnabled
	}
	if u.NotificationFrequency != nil {
		s.NotificationFrequency = strings.ToLower(strings.TrimSpace(*u.NotificationFrequency))
	}
	if u.Theme != nil {
		s.Theme = strings.ToLower(strings.TrimSpace(*u.Theme))
	}
	return s
}

var currencySymbols = map[string]string{
	CurrencyINR: "₹",
	CurrencyUSD: "$",
	CurrencyEUR: "€",
}

// FormatPrice renders price with two decimals, thousands separators and the
// currency symbol. Unknown currencies get no symbol.
func FormatPrice(price float64, currency string) string {
	fixed := decimal.NewFromFloat(price).StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + currencySymbols[currency] + b.String() + "." + frac
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
