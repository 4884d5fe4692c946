package weather

import (
	"context"
	"time"
)

// Upstream is the raw weather provider consumed by the service.
// Implementations report failures as AppErrors coded not_found, config_error,
// upstream_unavailable or upstream_error.
type Upstream interface {
	CurrentWeather(ctx context.Context, city string) (RawCurrent, error)
	Forecast(ctx context.Context, city string) (RawForecast, error)
	AirPollution(ctx context.Context, lat, lon float64) (RawAir, error)
	Geocode(ctx context.Context, city string, limit int) ([]Place, error)
	ReverseGeocode(ctx context.Context, lat, lon float64, limit int) ([]Place, error)
}

// RawCurrent is a provider's current conditions in metric units.
type RawCurrent struct {
	Name        string
	Country     string
	Temp        float64
	FeelsLike   float64
	Humidity    int
	Pressure    int
	WindSpeed   float64
	WindDeg     int
	Description string
	Icon        string
	Lat         float64
	Lon         float64
	ObservedAt  time.Time
}

// RawForecast is a provider's multi-step forecast.
type RawForecast struct {
	City           string
	Country        string
	Lat            float64
	Lon            float64
	TimezoneOffset int
	Sunrise        time.Time
	Sunset         time.Time
	Entries        []RawForecastEntry
}

// RawForecastEntry is one forecast step. Pop is a 0..1 probability.
type RawForecastEntry struct {
	Time        time.Time
	Temp        float64
	FeelsLike   float64
	Humidity    int
	Pressure    int
	WindSpeed   float64
	WindDeg     int
	WindGust    *float64
	Clouds      int
	Visibility  *int
	Rain        float64
	Snow        float64
	Pop         float64
	Description string
	Icon        string
}

// RawAir is a provider's air pollution reading.
type RawAir struct {
	AQI        int
	Components map[string]float64
}

// Place is a geocoding match.
type Place struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	State   string  `json:"state"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}
