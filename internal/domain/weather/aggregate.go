package weather

import (
	"math"
	"time"

	"github.com/yanqian/weather-dashboard/internal/domain/forecast"
	"github.com/yanqian/weather-dashboard/pkg/util"
)

// GroupDaily buckets forecast entries by local calendar date and aggregates each bucket.
// Days are ascending and at most maxDays long (0 means unlimited).
func GroupDaily(raw RawForecast, maxDays int) []forecast.Day {
	loc := time.FixedZone("local", raw.TimezoneOffset)

	var (
		order   []string
		buckets = make(map[string][]RawForecastEntry)
	)
	for _, entry := range raw.Entries {
		key := util.DayKey(entry.Time.In(loc))
		if _, ok := buckets[key]; !ok {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], entry)
	}

	days := make([]forecast.Day, 0, len(order))
	for _, key := range order {
		if maxDays > 0 && len(days) >= maxDays {
			break
		}
		day := aggregateDay(buckets[key], loc)
		if !raw.Sunrise.IsZero() && util.DayKey(raw.Sunrise.In(loc)) == key {
			rise := raw.Sunrise.In(loc)
			day.Sunrise = &rise
		}
		if !raw.Sunset.IsZero() && util.DayKey(raw.Sunset.In(loc)) == key {
			set := raw.Sunset.In(loc)
			day.Sunset = &set
		}
		days = append(days, day)
	}
	return days
}

func aggregateDay(entries []RawForecastEntry, loc *time.Location) forecast.Day {
	first := entries[0].Time.In(loc)
	day := forecast.Day{
		Date:    util.StartOfDay(first),
		TempMin: math.Inf(1),
		TempMax: math.Inf(-1),
		Hourly:  make([]forecast.HourlySample, 0, len(entries)),
	}

	var (
		sumTemp, sumFeels, sumWind float64
		sumHumidity, sumPressure   int
		sumClouds                  int
		sumVisibility, nVisibility int
		sumPrecip                  float64
		hasPrecip                  bool
		maxPop                     float64
		gust                       *float64
		sinDir, cosDir             float64
		descriptions               = newModeCounter()
		icons                      = newModeCounter()
	)

	for _, e := range entries {
		sumTemp += e.Temp
		sumFeels += e.FeelsLike
		sumWind += e.WindSpeed
		sumHumidity += e.Humidity
		sumPressure += e.Pressure
		sumClouds += e.Clouds
		day.TempMin = math.Min(day.TempMin, e.Temp)
		day.TempMax = math.Max(day.TempMax, e.Temp)
		maxPop = math.Max(maxPop, e.Pop)
		if e.Visibility != nil {
			sumVisibility += *e.Visibility
			nVisibility++
		}
		if e.Rain > 0 || e.Snow > 0 {
			sumPrecip += e.Rain + e.Snow
			hasPrecip = true
		}
		if e.WindGust != nil && (gust == nil || *e.WindGust > *gust) {
			g := *e.WindGust
			gust = &g
		}
		dir := float64(e.WindDeg) * math.Pi / 180
		sinDir += math.Sin(dir)
		cosDir += math.Cos(dir)
		descriptions.add(e.Description)
		icons.add(e.Icon)

		day.Hourly = append(day.Hourly, forecast.HourlySample{
			Time:        e.Time.In(loc),
			Temperature: round1(e.Temp),
			FeelsLike:   round1(e.FeelsLike),
			Humidity:    e.Humidity,
			WindSpeed:   round1(e.WindSpeed),
			Pop:         int(math.Round(e.Pop * 100)),
			Description: e.Description,
			Icon:        e.Icon,
		})
	}

	n := float64(len(entries))
	day.TempAvg = round1(sumTemp / n)
	day.TempMin = round1(day.TempMin)
	day.TempMax = round1(day.TempMax)
	day.FeelsLike = round1(sumFeels / n)
	day.Humidity = int(math.Round(float64(sumHumidity) / n))
	day.Pressure = int(math.Round(float64(sumPressure) / n))
	day.WindSpeed = round1(sumWind / n)
	day.WindDeg = circularMean(sinDir, cosDir)
	day.WindGust = gust
	day.Clouds = int(math.Round(float64(sumClouds) / n))
	day.Pop = int(math.Round(maxPop * 100))
	day.Description = descriptions.mode()
	day.Icon = icons.mode()
	if nVisibility > 0 {
		v := int(math.Round(float64(sumVisibility) / float64(nVisibility)))
		day.Visibility = &v
	}
	if hasPrecip {
		p := round1(sumPrecip)
		day.Precipitation = &p
	}
	return day
}

func circularMean(sinSum, cosSum float64) int {
	if sinSum == 0 && cosSum == 0 {
		return 0
	}
	deg := math.Atan2(sinSum, cosSum) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return int(math.Round(deg)) % 360
}

// modeCounter picks the most frequent value; the earliest seen wins ties.
type modeCounter struct {
	order  []string
	counts map[string]int
}

func newModeCounter() *modeCounter {
	return &modeCounter{counts: make(map[string]int)}
}

func (m *modeCounter) add(v string) {
	if _, ok := m.counts[v]; !ok {
		m.order = append(m.order, v)
	}
	m.counts[v]++
}

func (m *modeCounter) mode() string {
	best, bestCount := "", 0
	for _, v := range m.order {
		if m.counts[v] > bestCount {
			best, bestCount = v, m.counts[v]
		}
	}
	return best
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
