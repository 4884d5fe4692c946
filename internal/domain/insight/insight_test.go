package insight

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestComfortTable(t *testing.T) {
	cases := []struct {
		name     string
		temp     float64
		humidity float64
		want     ComfortLevel
	}{
		{"excellent lower bound", 18, 40, ComfortExcellent},
		{"excellent upper bound", 24, 60, ComfortExcellent},
		{"just below excellent band", 17, 40, ComfortGood},
		{"good humidity edge", 20, 70, ComfortGood},
		{"acceptable", 28, 50, ComfortAcceptable},
		{"acceptable humidity edge", 12, 20, ComfortAcceptable},
		{"too cold", 9, 50, ComfortUncomfortable},
		{"too humid", 22, 85, ComfortUncomfortable},
		{"too hot", 31, 50, ComfortUncomfortable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Comfort(tc.temp, tc.humidity))
		})
	}
}

func TestDewPoint(t *testing.T) {
	dew, ok := DewPoint(20, 50)
	require.True(t, ok)
	require.InDelta(t, 9.3, dew, 0.1)

	dew, ok = DewPoint(25, 100)
	require.True(t, ok)
	require.InDelta(t, 25.0, dew, 0.1)
}

func TestDewPointGuardsDomain(t *testing.T) {
	_, ok := DewPoint(20, 0)
	require.False(t, ok)
	_, ok = DewPoint(20, -5)
	require.False(t, ok)
	_, ok = DewPoint(20, 101)
	require.False(t, ok)
	_, ok = DewPoint(math.NaN(), 50)
	require.False(t, ok)
}

func TestCompass(t *testing.T) {
	require.Equal(t, "N", Compass(0))
	require.Equal(t, "NNE", Compass(22.5))
	require.Equal(t, "E", Compass(90))
	require.Equal(t, "SW", Compass(225))
	require.Equal(t, "NNW", Compass(337.5))
	require.Equal(t, "N", Compass(360))
	require.Equal(t, "N", Compass(355))
	require.Equal(t, "NNW", Compass(-22.5))
	require.Equal(t, "", Compass(math.NaN()))
}

func TestSunTimesMidLatitudeSolstice(t *testing.T) {
	date := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	rise, set, ok := SunTimes(date, 50.45, 30.52)
	require.True(t, ok)
	require.True(t, rise.Before(set))
	require.Equal(t, 1, rise.Hour())
	length := DayLength(rise, set)
	require.Greater(t, length, 16*time.Hour)
	require.Less(t, length, 16*time.Hour+40*time.Minute)
}

func TestSunTimesEquinoxEquator(t *testing.T) {
	date := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	rise, set, ok := SunTimes(date, 0, 0)
	require.True(t, ok)
	length := DayLength(rise, set)
	require.Greater(t, length, 11*time.Hour+50*time.Minute)
	require.Less(t, length, 12*time.Hour+20*time.Minute)
}

func TestSunTimesPolarNight(t *testing.T) {
	date := time.Date(2024, 12, 21, 0, 0, 0, 0, time.UTC)
	_, _, ok := SunTimes(date, 80, 15)
	require.False(t, ok)
}

func TestUVIndexIsDeterministic(t *testing.T) {
	summer := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)
	winter := time.Date(2024, 12, 20, 0, 0, 0, 0, time.UTC)

	require.Zero(t, UVIndex(summer, 3, 0))
	require.Zero(t, UVIndex(summer, 21, 0))
	require.Equal(t, UVIndex(summer, 13, 0), UVIndex(summer, 13, 0))
	require.Greater(t, UVIndex(summer, 13, 0), UVIndex(winter, 13, 0))
	require.Greater(t, UVIndex(summer, 13, 0), UVIndex(summer, 13, 100))
	require.Equal(t, "very_high", UVCategory(9))
	require.Equal(t, "low", UVCategory(UVIndex(winter, 13, 100)))
}

func TestMoonPhase(t *testing.T) {
	fraction, name, illumination := MoonPhase(referenceNewMoon)
	require.Zero(t, fraction)
	require.Equal(t, "New Moon", name)
	require.Zero(t, illumination)

	full := referenceNewMoon.Add(time.Duration(synodicMonth / 2 * 24 * float64(time.Hour)))
	_, name, illumination = MoonPhase(full)
	require.Equal(t, "Full Moon", name)
	require.InDelta(t, 1.0, illumination, 0.01)
}

func TestAgricultureHelpers(t *testing.T) {
	require.Equal(t, FrostHigh, FrostRisk(-1))
	require.Equal(t, FrostLow, FrostRisk(2))
	require.Equal(t, FrostNone, FrostRisk(8))

	require.True(t, SprayWindow(2.5, 10))
	require.False(t, SprayWindow(5, 10))
	require.False(t, SprayWindow(2, 40))

	require.Equal(t, 7.5, GrowingDegreeDays(12, 23))
	require.Zero(t, GrowingDegreeDays(0, 8))
}
