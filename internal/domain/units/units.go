// Package units converts metric source values into the unit system chosen for display.
package units

import (
	"math"
	"strings"

	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
)

// System is a presentation unit system. Stored weather values are always metric.
type System string

const (
	Metric   System = "metric"
	Imperial System = "imperial"
)

// mphPerMetrePerSecond is the m/s to mph factor used for display.
const mphPerMetrePerSecond = 2.237

// Parse resolves a unit system name.
func Parse(value string) (System, error) {
	switch System(strings.ToLower(strings.TrimSpace(value))) {
	case Metric:
		return Metric, nil
	case Imperial:
		return Imperial, nil
	default:
		return "", apperrors.Wrap(apperrors.CodeInvalidInput, "unit system must be metric or imperial", nil)
	}
}

// Valid reports whether s is a known system.
func (s System) Valid() bool {
	return s == Metric || s == Imperial
}

// ToDisplayTemperature converts Celsius into a whole-number display value.
func ToDisplayTemperature(celsius float64, s System) float64 {
	if s == Imperial {
		return math.Round(celsius*9/5 + 32)
	}
	return math.Round(celsius)
}

// ToDisplayTemperatureDecimal converts Celsius keeping one decimal, for derived values such as dew point.
func ToDisplayTemperatureDecimal(celsius float64, s System) float64 {
	if s == Imperial {
		return round1(celsius*9/5 + 32)
	}
	return round1(celsius)
}

// ToDisplaySpeed converts metres per second into a display value with one decimal.
func ToDisplaySpeed(metersPerSecond float64, s System) float64 {
	if s == Imperial {
		return round1(metersPerSecond * mphPerMetrePerSecond)
	}
	return round1(metersPerSecond)
}

// TemperatureLabel is the unit suffix for temperatures.
func TemperatureLabel(s System) string {
	if s == Imperial {
		return "°F"
	}
	return "°C"
}

// SpeedLabel is the unit suffix for speeds.
func SpeedLabel(s System) string {
	if s == Imperial {
		return "mph"
	}
	return "m/s"
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
