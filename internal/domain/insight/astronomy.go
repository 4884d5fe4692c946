package insight

import (
	"math"
	"time"
)

const (
	julianUnixEpoch = 2440587.5
	julian2000      = 2451545.0
	synodicMonth    = 29.530588853
	secondsPerDay   = 86400.0
)

// referenceNewMoon is the new moon of 2000-01-06 18:14 UTC.
var referenceNewMoon = time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC)

// SunTimes computes sunrise and sunset in UTC for the calendar date of date using the
// sunrise equation. ok is false during polar day or polar night.
func SunTimes(date time.Time, lat, lon float64) (sunrise, sunset time.Time, ok bool) {
	y, m, d := date.Date()
	noon := time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	jd := float64(noon.Unix())/secondsPerDay + julianUnixEpoch

	n := jd - julian2000 + 0.0008
	meanNoon := n - lon/360
	anomaly := math.Mod(357.5291+0.98560028*meanNoon, 360)
	mRad := rad(anomaly)
	center := 1.9148*math.Sin(mRad) + 0.0200*math.Sin(2*mRad) + 0.0003*math.Sin(3*mRad)
	ecliptic := math.Mod(anomaly+center+180+102.9372, 360)
	lRad := rad(ecliptic)
	transit := julian2000 + meanNoon + 0.0053*math.Sin(mRad) - 0.0069*math.Sin(2*lRad)

	sinDecl := math.Sin(lRad) * math.Sin(rad(23.4397))
	cosDecl := math.Cos(math.Asin(sinDecl))
	cosHour := (math.Sin(rad(-0.833)) - math.Sin(rad(lat))*sinDecl) / (math.Cos(rad(lat)) * cosDecl)
	if cosHour < -1 || cosHour > 1 || math.IsNaN(cosHour) {
		return time.Time{}, time.Time{}, false
	}
	hourAngle := math.Acos(cosHour) * 180 / math.Pi

	return fromJulian(transit - hourAngle/360), fromJulian(transit + hourAngle/360), true
}

// DayLength is the time between sunrise and sunset.
func DayLength(sunrise, sunset time.Time) time.Duration {
	if sunset.Before(sunrise) {
		return 0
	}
	return sunset.Sub(sunrise).Round(time.Minute)
}

// UVIndex approximates the UV index from day-of-year, local hour and cloud cover.
// It is a seasonal and diurnal curve, not a radiative model.
func UVIndex(date time.Time, hour int, clouds int) float64 {
	if hour < 6 || hour >= 20 {
		return 0
	}
	seasonal := 0.5 + 0.5*math.Cos(2*math.Pi*float64(date.YearDay()-172)/365)
	peak := 1 + 10*seasonal
	diurnal := math.Sin(math.Pi * float64(hour-6) / 14)
	cover := math.Min(math.Max(float64(clouds), 0), 100)
	uv := peak * diurnal * (1 - 0.75*cover/100)
	return math.Round(uv*10) / 10
}

// UVCategory buckets a UV index.
func UVCategory(uv float64) string {
	switch {
	case uv < 3:
		return "low"
	case uv < 6:
		return "moderate"
	case uv < 8:
		return "high"
	case uv < 11:
		return "very_high"
	default:
		return "extreme"
	}
}

var moonPhaseNames = [8]string{
	"New Moon", "Waxing Crescent", "First Quarter", "Waxing Gibbous",
	"Full Moon", "Waning Gibbous", "Last Quarter", "Waning Crescent",
}

// MoonPhase returns the fraction of the synodic month elapsed at t, its name and the
// illuminated fraction of the disc.
func MoonPhase(t time.Time) (fraction float64, name string, illumination float64) {
	days := t.Sub(referenceNewMoon).Hours() / 24
	age := math.Mod(days, synodicMonth)
	if age < 0 {
		age += synodicMonth
	}
	fraction = age / synodicMonth
	idx := int(math.Floor(fraction*8+0.5)) % 8
	illumination = (1 - math.Cos(2*math.Pi*fraction)) / 2
	return math.Round(fraction*1000) / 1000, moonPhaseNames[idx], math.Round(illumination*100) / 100
}

func rad(deg float64) float64 {
	return deg * math.Pi / 180
}

func fromJulian(jd float64) time.Time {
	secs := (jd - julianUnixEpoch) * secondsPerDay
	whole, frac := math.Modf(secs)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC().Truncate(time.Second)
}
