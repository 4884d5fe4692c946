package insight

import "math"

// FrostRisk levels.
const (
	FrostNone = "none"
	FrostLow  = "low"
	FrostHigh = "high"
)

// FrostRisk grades the overnight minimum.
func FrostRisk(minC float64) string {
	switch {
	case minC <= 0:
		return FrostHigh
	case minC <= 3:
		return FrostLow
	default:
		return FrostNone
	}
}

// SprayWindow reports whether wind and rain chance allow field spraying.
func SprayWindow(windMS float64, pop int) bool {
	return windMS < 4 && pop < 30
}

// GrowingDegreeDays uses the averaging method with a 10°C base.
func GrowingDegreeDays(minC, maxC float64) float64 {
	gdd := (minC+maxC)/2 - 10
	if gdd < 0 {
		return 0
	}
	return math.Round(gdd*10) / 10
}
