// Package weather shapes upstream provider data into the weather API responses.
package weather

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yanqian/weather-dashboard/internal/domain/forecast"
	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
)

// Service exposes the weather API operations.
type Service interface {
	Current(ctx context.Context, city string) (CurrentResponse, error)
	Forecast(ctx context.Context, city string) (ForecastResponse, error)
	Hourly(ctx context.Context, city string) (HourlyResponse, error)
	Daily(ctx context.Context, city string) (DailyResponse, error)
	AirQuality(ctx context.Context, lat, lon float64) (AirQualityResponse, error)
	Geocode(ctx context.Context, city string) (GeocodeResponse, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) (Place, error)
}

var aqiLabels = []string{"Good", "Fair", "Moderate", "Poor", "Very Poor"}

var pollutants = []string{"co", "no2", "o3", "pm2_5", "pm10"}

type cityQuery struct {
	City string `validate:"required,max=120"`
}

type coordinates struct {
	Lat float64 `validate:"latitude"`
	Lon float64 `validate:"longitude"`
}

type service struct {
	cfg      Config
	upstream Upstream
	validate *validator.Validate
	logger   *slog.Logger
}

// NewService wires the weather API domain.
func NewService(cfg Config, upstream Upstream, logger *slog.Logger) Service {
	if cfg.ForecastEntries <= 0 {
		cfg.ForecastEntries = 8
	}
	if cfg.HourlyEntries <= 0 {
		cfg.HourlyEntries = 16
	}
	if cfg.GeocodeLimit <= 0 {
		cfg.GeocodeLimit = 5
	}
	return &service{
		cfg:      cfg,
		upstream: upstream,
		validate: validator.New(),
		logger:   logger.With("component", "weather.service"),
	}
}

func (s *service) Current(ctx context.Context, city string) (CurrentResponse, error) {
	city, err := s.checkCity(city)
	if err != nil {
		return CurrentResponse{}, err
	}
	raw, err := s.upstream.CurrentWeather(ctx, city)
	if err != nil {
		return CurrentResponse{}, s.upstreamFailure("current weather", city, err)
	}
	return CurrentResponse{
		City:        raw.Name,
		Country:     raw.Country,
		Temperature: round1(raw.Temp),
		FeelsLike:   round1(raw.FeelsLike),
		Humidity:    raw.Humidity,
		Pressure:    raw.Pressure,
		WindSpeed:   raw.WindSpeed,
		WindDeg:     raw.WindDeg,
		Description: raw.Description,
		Icon:        raw.Icon,
		Lat:         raw.Lat,
		Lon:         raw.Lon,
		Timestamp:   raw.ObservedAt,
	}, nil
}

func (s *service) Forecast(ctx context.Context, city string) (ForecastResponse, error) {
	raw, err := s.fetchForecast(ctx, city)
	if err != nil {
		return ForecastResponse{}, err
	}
	entries := firstN(raw.Entries, s.cfg.ForecastEntries)
	items := make([]ForecastItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, ForecastItem{
			Time:        e.Time,
			Temperature: round1(e.Temp),
			Description: e.Description,
			Icon:        e.Icon,
			Humidity:    e.Humidity,
			WindSpeed:   e.WindSpeed,
		})
	}
	return ForecastResponse{City: raw.City, Country: raw.Country, Forecast: items}, nil
}

func (s *service) Hourly(ctx context.Context, city string) (HourlyResponse, error) {
	raw, err := s.fetchForecast(ctx, city)
	if err != nil {
		return HourlyResponse{}, err
	}
	entries := firstN(raw.Entries, s.cfg.HourlyEntries)
	items := make([]HourlyItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, HourlyItem{
			Time:        e.Time,
			Temperature: round1(e.Temp),
			FeelsLike:   round1(e.FeelsLike),
			Description: e.Description,
			Icon:        e.Icon,
			Humidity:    e.Humidity,
			Pressure:    e.Pressure,
			WindSpeed:   round1(e.WindSpeed),
			WindDeg:     e.WindDeg,
			Clouds:      e.Clouds,
			Pop:         int(math.Round(e.Pop * 100)),
		})
	}
	return HourlyResponse{City: raw.City, Country: raw.Country, Hourly: items}, nil
}

func (s *service) Daily(ctx context.Context, city string) (DailyResponse, error) {
	raw, err := s.fetchForecast(ctx, city)
	if err != nil {
		return DailyResponse{}, err
	}
	days := GroupDaily(raw, s.cfg.MaxDays)
	s.logger.Debug("daily forecast grouped", "city", raw.City, "entries", len(raw.Entries), "days", len(days))
	return DailyResponse{
		City:    raw.City,
		Country: raw.Country,
		Lat:     raw.Lat,
		Lon:     raw.Lon,
		Daily:   days,
	}, nil
}

func (s *service) AirQuality(ctx context.Context, lat, lon float64) (AirQualityResponse, error) {
	if err := s.checkCoordinates(lat, lon); err != nil {
		return AirQualityResponse{}, err
	}
	raw, err := s.upstream.AirPollution(ctx, lat, lon)
	if err != nil {
		return AirQualityResponse{}, s.upstreamFailure("air quality", "", err)
	}
	components := make(map[string]float64, len(pollutants))
	for _, name := range pollutants {
		components[name] = round2(raw.Components[name])
	}
	return forecast.AirQuality{
		AQI:        raw.AQI,
		Label:      aqiLabel(raw.AQI),
		Components: components,
	}, nil
}

func (s *service) Geocode(ctx context.Context, city string) (GeocodeResponse, error) {
	city, err := s.checkCity(city)
	if err != nil {
		return GeocodeResponse{}, err
	}
	places, err := s.upstream.Geocode(ctx, city, s.cfg.GeocodeLimit)
	if err != nil {
		return GeocodeResponse{}, s.upstreamFailure("geocode", city, err)
	}
	if len(places) == 0 {
		return GeocodeResponse{}, apperrors.Wrap(apperrors.CodeNotFound, "city not found", nil)
	}
	return GeocodeResponse{Results: places}, nil
}

func (s *service) ReverseGeocode(ctx context.Context, lat, lon float64) (Place, error) {
	if err := s.checkCoordinates(lat, lon); err != nil {
		return Place{}, err
	}
	places, err := s.upstream.ReverseGeocode(ctx, lat, lon, 1)
	if err != nil {
		return Place{}, s.upstreamFailure("reverse geocode", "", err)
	}
	if len(places) == 0 || strings.TrimSpace(places[0].Name) == "" {
		return Place{}, apperrors.Wrap(apperrors.CodeNotFound, "no city found for coordinates", nil)
	}
	return places[0], nil
}

func (s *service) fetchForecast(ctx context.Context, city string) (RawForecast, error) {
	city, err := s.checkCity(city)
	if err != nil {
		return RawForecast{}, err
	}
	raw, err := s.upstream.Forecast(ctx, city)
	if err != nil {
		return RawForecast{}, s.upstreamFailure("forecast", city, err)
	}
	return raw, nil
}

func (s *service) checkCity(city string) (string, error) {
	q := cityQuery{City: strings.TrimSpace(city)}
	if err := s.validate.Struct(q); err != nil {
		return "", apperrors.Wrap(apperrors.CodeInvalidInput, "city name is required", err)
	}
	return q.City, nil
}

func (s *service) checkCoordinates(lat, lon float64) error {
	if err := s.validate.Struct(coordinates{Lat: lat, Lon: lon}); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidInput, "coordinates are invalid", err)
	}
	return nil
}

// upstreamFailure keeps coded upstream errors and classifies the rest as upstream_error.
func (s *service) upstreamFailure(op, city string, err error) error {
	code := apperrors.CodeOf(err)
	switch code {
	case apperrors.CodeNotFound:
		return apperrors.Wrap(code, "city not found", err)
	case apperrors.CodeConfig, apperrors.CodeUpstreamUnavailable, apperrors.CodeUpstream:
		s.logger.Warn("upstream request failed", "op", op, "city", city, "code", code, "error", err)
		return err
	default:
		s.logger.Error("upstream request failed", "op", op, "city", city, "error", err)
		return apperrors.Wrap(apperrors.CodeUpstream, "weather provider request failed", err)
	}
}

func aqiLabel(aqi int) string {
	if aqi >= 1 && aqi <= len(aqiLabels) {
		return aqiLabels[aqi-1]
	}
	return "Unknown"
}

func firstN(entries []RawForecastEntry, n int) []RawForecastEntry {
	if n > 0 && len(entries) > n {
		return entries[:n]
	}
	return entries
}
