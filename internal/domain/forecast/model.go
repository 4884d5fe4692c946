package forecast

import "time"

// Day aggregates one calendar date of forecast data. All values are metric.
type Day struct {
	Date          time.Time      `json:"date"`
	TempAvg       float64        `json:"temp_avg"`
	TempMin       float64        `json:"temp_min"`
	TempMax       float64        `json:"temp_max"`
	FeelsLike     float64        `json:"feels_like"`
	Humidity      int            `json:"humidity"`
	Pressure      int            `json:"pressure"`
	WindSpeed     float64        `json:"wind_speed"`
	WindDeg       int            `json:"wind_deg"`
	WindGust      *float64       `json:"wind_gust,omitempty"`
	Clouds        int            `json:"clouds"`
	Visibility    *int           `json:"visibility,omitempty"`
	Precipitation *float64       `json:"precipitation,omitempty"`
	Pop           int            `json:"pop"`
	Description   string         `json:"description"`
	Icon          string         `json:"icon"`
	Sunrise       *time.Time     `json:"sunrise,omitempty"`
	Sunset        *time.Time     `json:"sunset,omitempty"`
	Hourly        []HourlySample `json:"hourly"`
}

// IsEmpty reports whether d is the empty sentinel.
func (d Day) IsEmpty() bool {
	return d.Date.IsZero() && len(d.Hourly) == 0
}

// Empty is returned when no forecast is loaded.
var Empty = Day{}

// HourlySample is one forecast step inside a Day.
type HourlySample struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feels_like"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"wind_speed"`
	Pop         int       `json:"pop"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
}

// AirQuality is the pollution reading for a coordinate.
type AirQuality struct {
	AQI        int                `json:"aqi"`
	Label      string             `json:"aqi_label"`
	Components map[string]float64 `json:"components"`
}

// Current captures live conditions for the searched city.
type Current struct {
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feels_like"`
	Humidity    int       `json:"humidity"`
	Pressure    int       `json:"pressure"`
	WindSpeed   float64   `json:"wind_speed"`
	WindDeg     int       `json:"wind_deg"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Lat         float64   `json:"lat"`
	Lon         float64   `json:"lon"`
	Timestamp   time.Time `json:"timestamp"`
}

// HasCoordinates reports whether the upstream supplied a usable location.
func (c Current) HasCoordinates() bool {
	return c.Lat != 0 || c.Lon != 0
}
