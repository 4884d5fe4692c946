package dashboard

import (
	"time"

	"github.com/yanqian/weather-dashboard/internal/domain/advisor"
	"github.com/yanqian/weather-dashboard/internal/domain/forecast"
	"github.com/yanqian/weather-dashboard/internal/domain/insight"
	"github.com/yanqian/weather-dashboard/internal/domain/preferences"
	"github.com/yanqian/weather-dashboard/internal/domain/units"
	"github.com/yanqian/weather-dashboard/pkg/util"
)

// Snapshot is the dashboard state a view is derived from. Weather values are metric.
type Snapshot struct {
	City        string
	Country     string
	Lat         float64
	Lon         float64
	HasCoords   bool
	Days        []forecast.Day
	Selected    int
	Current     *forecast.Current
	AirQuality  *forecast.AirQuality
	Activities  *advisor.Response
	Preferences preferences.Preferences
	Favorites   []string
}

// View holds the derived value of every region.
type View map[Region]any

// CurrentView is the headline block for the selected day.
type CurrentView struct {
	City            string               `json:"city"`
	Country         string               `json:"country"`
	Date            string               `json:"date"`
	DayIndex        int                  `json:"dayIndex"`
	Live            bool                 `json:"live"`
	Temperature     float64              `json:"temperature"`
	FeelsLike       float64              `json:"feelsLike"`
	TempMin         float64              `json:"tempMin"`
	TempMax         float64              `json:"tempMax"`
	TemperatureUnit string               `json:"temperatureUnit"`
	Humidity        int                  `json:"humidity"`
	Pressure        int                  `json:"pressure"`
	WindSpeed       float64              `json:"windSpeed"`
	WindGust        *float64             `json:"windGust"`
	SpeedUnit       string               `json:"speedUnit"`
	WindDeg         int                  `json:"windDeg"`
	WindDirection   string               `json:"windDirection"`
	Clouds          int                  `json:"clouds"`
	Visibility      *int                 `json:"visibility"`
	Precipitation   *float64             `json:"precipitation"`
	Pop             int                  `json:"pop"`
	Description     string               `json:"description"`
	Icon            string               `json:"icon"`
	Comfort         insight.ComfortLevel `json:"comfort"`
	DewPoint        *float64             `json:"dewPoint"`
}

// HourlyPoint is one converted hourly sample.
type HourlyPoint struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feelsLike"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"windSpeed"`
	Pop         int       `json:"pop"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
}

// HourlyView is the chart of the selected day.
type HourlyView struct {
	Date            string        `json:"date"`
	TemperatureUnit string        `json:"temperatureUnit"`
	SpeedUnit       string        `json:"speedUnit"`
	Samples         []HourlyPoint `json:"samples"`
}

// DayCard is one entry of the week strip.
type DayCard struct {
	Index       int     `json:"index"`
	Date        string  `json:"date"`
	Weekday     string  `json:"weekday"`
	TempMin     float64 `json:"tempMin"`
	TempMax     float64 `json:"tempMax"`
	Pop         int     `json:"pop"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Selected    bool    `json:"selected"`
}

// DailyView is the week strip.
type DailyView struct {
	Selected        int       `json:"selected"`
	TemperatureUnit string    `json:"temperatureUnit"`
	Days            []DayCard `json:"days"`
}

// AstronomyView carries sun, UV and moon values for the selected day.
// UV and computed sun times are approximations.
type AstronomyView struct {
	Date             string     `json:"date"`
	Sunrise          *time.Time `json:"sunrise"`
	Sunset           *time.Time `json:"sunset"`
	DayLengthMinutes *int       `json:"dayLengthMinutes"`
	SunSource        string     `json:"sunSource"`
	UVIndex          float64    `json:"uvIndex"`
	UVCategory       string     `json:"uvCategory"`
	MoonPhase        string     `json:"moonPhase"`
	MoonFraction     float64    `json:"moonFraction"`
	MoonIllumination float64    `json:"moonIllumination"`
}

// HistoryPoint is one day of the temperature trend chart.
type HistoryPoint struct {
	Date    string  `json:"date"`
	TempMin float64 `json:"tempMin"`
	TempAvg float64 `json:"tempAvg"`
	TempMax float64 `json:"tempMax"`
	Pop     int     `json:"pop"`
}

// HistoryView is the trend across the loaded days.
type HistoryView struct {
	Selected        int            `json:"selected"`
	TemperatureUnit string         `json:"temperatureUnit"`
	Points          []HistoryPoint `json:"points"`
}

// AgricultureView carries field-work hints for the selected day.
type AgricultureView struct {
	Date              string   `json:"date"`
	FrostRisk         string   `json:"frostRisk"`
	SprayWindow       bool     `json:"sprayWindow"`
	GrowingDegreeDays float64  `json:"growingDegreeDays"`
	Precipitation     *float64 `json:"precipitation"`
	Humidity          int      `json:"humidity"`
	DewPoint          *float64 `json:"dewPoint"`
	TemperatureUnit   string   `json:"temperatureUnit"`
}

// PreferencesView mirrors the persisted flags and favorites.
type PreferencesView struct {
	TemperatureUnit units.System      `json:"temperatureUnit"`
	SpeedUnit       units.System      `json:"speedUnit"`
	Theme           preferences.Theme `json:"theme"`
	LastActiveTab   string            `json:"lastActiveTab"`
	Tabs            []string          `json:"tabs"`
	Favorites       []string          `json:"favorites"`
	City            string            `json:"city"`
	CityIsFavorite  bool              `json:"cityIsFavorite"`
}

// Derive computes every region from a snapshot. It has no side effects.
func Derive(s Snapshot) View {
	view := View{RegionPreferences: derivePreferences(s)}

	if len(s.Days) == 0 || s.Selected < 0 || s.Selected >= len(s.Days) {
		for _, r := range Regions() {
			if r != RegionPreferences {
				view[r] = unavailable(ReasonNoData)
			}
		}
		return view
	}

	day := s.Days[s.Selected]
	view[RegionCurrent] = deriveCurrent(s, day)
	view[RegionHourly] = deriveHourly(s, day)
	view[RegionDaily] = deriveDaily(s)
	view[RegionAstronomy] = deriveAstronomy(s, day)
	view[RegionHistory] = deriveHistory(s)
	view[RegionAgriculture] = deriveAgriculture(s, day)
	view[RegionResorts] = unavailable(ReasonNoSource)
	view[RegionWater] = unavailable(ReasonNoSource)

	switch {
	case s.AirQuality != nil:
		view[RegionAirQuality] = *s.AirQuality
	case !s.HasCoords:
		view[RegionAirQuality] = unavailable(ReasonNoCoordinate)
	default:
		view[RegionAirQuality] = unavailable(ReasonNotFetched)
	}
	if s.Activities != nil {
		view[RegionActivities] = *s.Activities
	} else {
		view[RegionActivities] = unavailable(ReasonNotFetched)
	}
	return view
}

// deriveCurrent serves both today and forecast days. Live conditions only refine day 0.
func deriveCurrent(s Snapshot, day forecast.Day) CurrentView {
	tu, su := s.Preferences.TemperatureUnit, s.Preferences.SpeedUnit

	temp, feels := day.TempAvg, day.FeelsLike
	humidity, pressure := day.Humidity, day.Pressure
	wind, windDeg := day.WindSpeed, day.WindDeg
	desc, icon := day.Description, day.Icon
	live := s.Selected == 0 && s.Current != nil
	if live {
		c := s.Current
		temp, feels = c.Temperature, c.FeelsLike
		humidity, pressure = c.Humidity, c.Pressure
		wind, windDeg = c.WindSpeed, c.WindDeg
		desc, icon = firstNonEmpty(c.Description, desc), firstNonEmpty(c.Icon, icon)
	}

	view := CurrentView{
		City:            s.City,
		Country:         s.Country,
		Date:            util.DayKey(day.Date),
		DayIndex:        s.Selected,
		Live:            live,
		Temperature:     units.ToDisplayTemperature(temp, tu),
		FeelsLike:       units.ToDisplayTemperature(feels, tu),
		TempMin:         units.ToDisplayTemperature(day.TempMin, tu),
		TempMax:         units.ToDisplayTemperature(day.TempMax, tu),
		TemperatureUnit: units.TemperatureLabel(tu),
		Humidity:        humidity,
		Pressure:        pressure,
		WindSpeed:       units.ToDisplaySpeed(wind, su),
		SpeedUnit:       units.SpeedLabel(su),
		WindDeg:         windDeg,
		WindDirection:   insight.Compass(float64(windDeg)),
		Clouds:          day.Clouds,
		Visibility:      day.Visibility,
		Precipitation:   day.Precipitation,
		Pop:             day.Pop,
		Description:     desc,
		Icon:            icon,
		Comfort:         insight.Comfort(temp, float64(humidity)),
		DewPoint:        dewPoint(temp, humidity, tu),
	}
	if day.WindGust != nil {
		g := units.ToDisplaySpeed(*day.WindGust, su)
		view.WindGust = &g
	}
	return view
}

func deriveHourly(s Snapshot, day forecast.Day) any {
	if len(day.Hourly) == 0 {
		return unavailable(ReasonNotFetched)
	}
	tu, su := s.Preferences.TemperatureUnit, s.Preferences.SpeedUnit
	points := make([]HourlyPoint, 0, len(day.Hourly))
	for _, h := range day.Hourly {
		points = append(points, HourlyPoint{
			Time:        h.Time,
			Temperature: units.ToDisplayTemperature(h.Temperature, tu),
			FeelsLike:   units.ToDisplayTemperature(h.FeelsLike, tu),
			Humidity:    h.Humidity,
			WindSpeed:   units.ToDisplaySpeed(h.WindSpeed, su),
			Pop:         h.Pop,
			Description: h.Description,
			Icon:        h.Icon,
		})
	}
	return HourlyView{
		Date:            util.DayKey(day.Date),
		TemperatureUnit: units.TemperatureLabel(tu),
		SpeedUnit:       units.SpeedLabel(su),
		Samples:         points,
	}
}

func deriveDaily(s Snapshot) DailyView {
	tu := s.Preferences.TemperatureUnit
	cards := make([]DayCard, 0, len(s.Days))
	for i, d := range s.Days {
		cards = append(cards, DayCard{
			Index:       i,
			Date:        util.DayKey(d.Date),
			Weekday:     d.Date.Weekday().String(),
			TempMin:     units.ToDisplayTemperature(d.TempMin, tu),
			TempMax:     units.ToDisplayTemperature(d.TempMax, tu),
			Pop:         d.Pop,
			Description: d.Description,
			Icon:        d.Icon,
			Selected:    i == s.Selected,
		})
	}
	return DailyView{Selected: s.Selected, TemperatureUnit: units.TemperatureLabel(tu), Days: cards}
}

func deriveAstronomy(s Snapshot, day forecast.Day) AstronomyView {
	view := AstronomyView{Date: util.DayKey(day.Date)}

	switch {
	case day.Sunrise != nil && day.Sunset != nil:
		rise, set := *day.Sunrise, *day.Sunset
		view.Sunrise, view.Sunset, view.SunSource = &rise, &set, "forecast"
	case s.HasCoords:
		if rise, set, ok := insight.SunTimes(day.Date, s.Lat, s.Lon); ok {
			view.Sunrise, view.Sunset, view.SunSource = &rise, &set, "computed"
		}
	}
	if view.Sunrise != nil {
		minutes := int(insight.DayLength(*view.Sunrise, *view.Sunset).Minutes())
		view.DayLengthMinutes = &minutes
	}

	view.UVIndex = insight.UVIndex(day.Date, 13, day.Clouds)
	view.UVCategory = insight.UVCategory(view.UVIndex)
	view.MoonFraction, view.MoonPhase, view.MoonIllumination = insight.MoonPhase(util.StartOfDay(day.Date).Add(12 * time.Hour))
	return view
}

func deriveHistory(s Snapshot) HistoryView {
	tu := s.Preferences.TemperatureUnit
	points := make([]HistoryPoint, 0, len(s.Days))
	for _, d := range s.Days {
		points = append(points, HistoryPoint{
			Date:    util.DayKey(d.Date),
			TempMin: units.ToDisplayTemperature(d.TempMin, tu),
			TempAvg: units.ToDisplayTemperature(d.TempAvg, tu),
			TempMax: units.ToDisplayTemperature(d.TempMax, tu),
			Pop:     d.Pop,
		})
	}
	return HistoryView{Selected: s.Selected, TemperatureUnit: units.TemperatureLabel(tu), Points: points}
}

func deriveAgriculture(s Snapshot, day forecast.Day) AgricultureView {
	tu := s.Preferences.TemperatureUnit
	return AgricultureView{
		Date:              util.DayKey(day.Date),
		FrostRisk:         insight.FrostRisk(day.TempMin),
		SprayWindow:       insight.SprayWindow(day.WindSpeed, day.Pop),
		GrowingDegreeDays: insight.GrowingDegreeDays(day.TempMin, day.TempMax),
		Precipitation:     day.Precipitation,
		Humidity:          day.Humidity,
		DewPoint:          dewPoint(day.TempAvg, day.Humidity, tu),
		TemperatureUnit:   units.TemperatureLabel(tu),
	}
}

func derivePreferences(s Snapshot) PreferencesView {
	favorites := append([]string{}, s.Favorites...)
	isFavorite := false
	for _, f := range favorites {
		if s.City != "" && f == s.City {
			isFavorite = true
			break
		}
	}
	return PreferencesView{
		TemperatureUnit: s.Preferences.TemperatureUnit,
		SpeedUnit:       s.Preferences.SpeedUnit,
		Theme:           s.Preferences.Theme,
		LastActiveTab:   s.Preferences.LastActiveTab,
		Tabs:            preferences.Tabs(),
		Favorites:       favorites,
		City:            s.City,
		CityIsFavorite:  isFavorite,
	}
}

func dewPoint(tempC float64, humidity int, tu units.System) *float64 {
	dp, ok := insight.DewPoint(tempC, float64(humidity))
	if !ok {
		return nil
	}
	v := units.ToDisplayTemperatureDecimal(dp, tu)
	return &v
}

func firstNonEmpty(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
