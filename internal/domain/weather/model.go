package weather

import (
	"time"

	"github.com/yanqian/weather-dashboard/internal/domain/forecast"
)

// Config tunes how upstream data is shaped.
type Config struct {
	ForecastEntries int
	HourlyEntries   int
	MaxDays         int
	GeocodeLimit    int
}

// CurrentResponse is served by the current weather endpoint.
type CurrentResponse struct {
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

// ForecastItem is one entry of the 24 hour forecast.
type ForecastItem struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Humidity    int       `json:"humidity"`
	WindSpeed   float64   `json:"wind_speed"`
}

// ForecastResponse is served by the short forecast endpoint.
type ForecastResponse struct {
	City     string         `json:"city"`
	Country  string         `json:"country"`
	Forecast []ForecastItem `json:"forecast"`
}

// HourlyItem is one entry of the 48 hour forecast.
type HourlyItem struct {
	Time        time.Time `json:"time"`
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feels_like"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Humidity    int       `json:"humidity"`
	Pressure    int       `json:"pressure"`
	WindSpeed   float64   `json:"wind_speed"`
	WindDeg     int       `json:"wind_deg"`
	Clouds      int       `json:"clouds"`
	Pop         int       `json:"pop"`
}

// HourlyResponse is served by the hourly forecast endpoint.
type HourlyResponse struct {
	City    string       `json:"city"`
	Country string       `json:"country"`
	Hourly  []HourlyItem `json:"hourly"`
}

// DailyResponse is served by the daily forecast endpoint.
type DailyResponse struct {
	City    string         `json:"city"`
	Country string         `json:"country"`
	Lat     float64        `json:"lat"`
	Lon     float64        `json:"lon"`
	Daily   []forecast.Day `json:"daily"`
}

// AirQualityResponse mirrors forecast.AirQuality on the wire.
type AirQualityResponse = forecast.AirQuality

// GeocodeResponse lists geocoding matches.
type GeocodeResponse struct {
	Results []Place `json:"results"`
}
