package advisor

import (
	"fmt"

	"github.com/yanqian/weather-dashboard/internal/domain/forecast"
	"github.com/yanqian/weather-dashboard/internal/domain/insight"
)

type rule struct {
	name  string
	check func(d forecast.Day) (bool, string)
}

var rules = []rule{
	{"Running", func(d forecast.Day) (bool, string) {
		level := insight.Comfort(d.TempAvg, float64(d.Humidity))
		switch {
		case d.Pop >= 50:
			return false, fmt.Sprintf("%d%% chance of rain", d.Pop)
		case level == insight.ComfortUncomfortable:
			return false, "temperature and humidity are uncomfortable"
		default:
			return true, fmt.Sprintf("comfort is %s", level)
		}
	}},
	{"Cycling", func(d forecast.Day) (bool, string) {
		switch {
		case d.WindSpeed >= 8:
			return false, fmt.Sprintf("strong wind %.1f m/s", d.WindSpeed)
		case d.Pop >= 40:
			return false, fmt.Sprintf("%d%% chance of rain", d.Pop)
		case d.TempMax < 5:
			return false, "too cold"
		default:
			return true, "light wind and low rain chance"
		}
	}},
	{"Picnic", func(d forecast.Day) (bool, string) {
		switch {
		case d.Pop >= 20:
			return false, fmt.Sprintf("%d%% chance of rain", d.Pop)
		case d.TempMax < 18:
			return false, "too cool to sit outside"
		case d.WindSpeed >= 6:
			return false, "too windy"
		default:
			return true, "dry and warm"
		}
	}},
	{"Swimming", func(d forecast.Day) (bool, string) {
		if d.TempMax >= 24 && d.Pop < 30 {
			return true, fmt.Sprintf("warm day up to %.0f°C", d.TempMax)
		}
		return false, "not warm enough for open water"
	}},
	{"Hiking", func(d forecast.Day) (bool, string) {
		switch {
		case d.Pop >= 60:
			return false, "trails will be wet"
		case d.WindSpeed >= 10:
			return false, "gusty on exposed ridges"
		case d.TempMin <= 0:
			return false, "frost on the trail"
		default:
			return true, "stable conditions"
		}
	}},
	{"Museum", func(forecast.Day) (bool, string) {
		return true, "indoor activity, any weather"
	}},
}

// recommendByRules grades every known activity against a forecast day.
func recommendByRules(city string, day forecast.Day) Response {
	activities := make([]Activity, 0, len(rules))
	outdoor := 0
	for _, r := range rules {
		ok, reason := r.check(day)
		activities = append(activities, Activity{Name: r.name, Suitable: ok, Reason: reason})
		if ok && r.name != "Museum" {
			outdoor++
		}
	}

	summary := fmt.Sprintf("%s: %s, %.0f–%.0f°C.", city, day.Description, day.TempMin, day.TempMax)
	if outdoor == 0 {
		summary += " Better plan something indoors."
	} else {
		summary += " Good day to be outside."
	}
	return Response{
		City:       city,
		Summary:    summary,
		Activities: activities,
		Source:     SourceRules,
	}
}
