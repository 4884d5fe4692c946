package preferences

import (
	"strings"

	"github.com/yanqian/weather-dashboard/internal/domain/units"
	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
)

// Theme is the page color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// FavoritesCapacity bounds the favorite city list.
const FavoritesCapacity = 5

// DefaultTab is opened when nothing was persisted.
const DefaultTab = "home"

var knownTabs = map[string]struct{}{
	"home":        {},
	"forecast":    {},
	"astronomy":   {},
	"history":     {},
	"agriculture": {},
	"resorts":     {},
	"water":       {},
}

// Preferences are the persisted presentation flags.
type Preferences struct {
	TemperatureUnit units.System `json:"temperatureUnit"`
	SpeedUnit       units.System `json:"speedUnit"`
	Theme           Theme        `json:"theme"`
	LastActiveTab   string       `json:"lastActiveTab"`
}

// Defaults returns the preferences used when nothing is persisted.
func Defaults() Preferences {
	return Preferences{
		TemperatureUnit: units.Metric,
		SpeedUnit:       units.Metric,
		Theme:           ThemeLight,
		LastActiveTab:   DefaultTab,
	}
}

// withDefaults fills missing or unknown fields.
func (p Preferences) withDefaults() Preferences {
	def := Defaults()
	if !p.TemperatureUnit.Valid() {
		p.TemperatureUnit = def.TemperatureUnit
	}
	if !p.SpeedUnit.Valid() {
		p.SpeedUnit = p.TemperatureUnit
	}
	if p.Theme != ThemeLight && p.Theme != ThemeDark {
		p.Theme = def.Theme
	}
	if _, ok := knownTabs[p.LastActiveTab]; !ok {
		p.LastActiveTab = def.LastActiveTab
	}
	return p
}

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	TemperatureUnit *units.System
	SpeedUnit       *units.System
	Theme           *Theme
	LastActiveTab   *string
}

// UnitsPatch sets both unit flags to system.
func UnitsPatch(system units.System) Patch {
	return Patch{TemperatureUnit: &system, SpeedUnit: &system}
}

func (p Patch) validate() error {
	if p.TemperatureUnit != nil && !p.TemperatureUnit.Valid() {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "temperature unit must be metric or imperial", nil)
	}
	if p.SpeedUnit != nil && !p.SpeedUnit.Valid() {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "speed unit must be metric or imperial", nil)
	}
	if p.Theme != nil && *p.Theme != ThemeLight && *p.Theme != ThemeDark {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "theme must be light or dark", nil)
	}
	if p.LastActiveTab != nil {
		if _, ok := knownTabs[*p.LastActiveTab]; !ok {
			return apperrors.Wrap(apperrors.CodeInvalidInput, "unknown tab "+*p.LastActiveTab, nil)
		}
	}
	return nil
}

func (p Patch) apply(base Preferences) Preferences {
	if p.TemperatureUnit != nil {
		base.TemperatureUnit = *p.TemperatureUnit
	}
	if p.SpeedUnit != nil {
		base.SpeedUnit = *p.SpeedUnit
	}
	if p.Theme != nil {
		base.Theme = *p.Theme
	}
	if p.LastActiveTab != nil {
		base.LastActiveTab = *p.LastActiveTab
	}
	return base
}

// ParseTheme resolves a theme name.
func ParseTheme(value string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(value))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	default:
		return "", apperrors.Wrap(apperrors.CodeInvalidInput, "theme must be light or dark", nil)
	}
}

// Tabs lists the known tab names.
func Tabs() []string {
	return []string{"home", "forecast", "astronomy", "history", "agriculture", "resorts", "water"}
}
