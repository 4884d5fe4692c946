// Package insight derives presentation values from metric weather readings.
package insight

import "math"

// ComfortLevel rates how pleasant temperature and humidity feel together.
type ComfortLevel string

const (
	ComfortExcellent     ComfortLevel = "Excellent"
	ComfortGood          ComfortLevel = "Good"
	ComfortAcceptable    ComfortLevel = "Acceptable"
	ComfortUncomfortable ComfortLevel = "Uncomfortable"
)

type comfortBand struct {
	level                  ComfortLevel
	minT, maxT, minH, maxH float64
}

// Checked in order; bounds are inclusive.
var comfortBands = []comfortBand{
	{ComfortExcellent, 18, 24, 40, 60},
	{ComfortGood, 16, 26, 30, 70},
	{ComfortAcceptable, 10, 30, 20, 80},
}

// Comfort classifies a Celsius temperature and relative humidity.
func Comfort(tempC, humidity float64) ComfortLevel {
	for _, b := range comfortBands {
		if tempC >= b.minT && tempC <= b.maxT && humidity >= b.minH && humidity <= b.maxH {
			return b.level
		}
	}
	return ComfortUncomfortable
}

// DewPoint applies the Magnus approximation. ok is false when humidity is outside (0, 100].
func DewPoint(tempC, humidity float64) (float64, bool) {
	if math.IsNaN(tempC) || math.IsNaN(humidity) || humidity <= 0 || humidity > 100 {
		return 0, false
	}
	alpha := (17.27*tempC)/(237.7+tempC) + math.Log(humidity/100)
	dew := (237.7 * alpha) / (17.27 - alpha)
	return math.Round(dew*10) / 10, true
}

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// Compass maps degrees onto the 16-point compass rose starting at north.
func Compass(degrees float64) string {
	if math.IsNaN(degrees) || math.IsInf(degrees, 0) {
		return ""
	}
	idx := int(math.Round(degrees/22.5)) % 16
	if idx < 0 {
		idx += 16
	}
	return compassPoints[idx]
}
