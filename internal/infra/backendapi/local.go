package backendapi

import (
	"context"

	"github.com/yanqian/weather-dashboard/internal/domain/advisor"
	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
	"github.com/yanqian/weather-dashboard/internal/domain/forecast"
	"github.com/yanqian/weather-dashboard/internal/domain/weather"
	"github.com/yanqian/weather-dashboard/pkg/metrics"
)

// Local serves dashboards from the in-process weather and advisor services.
type Local struct {
	weather weather.Service
	advisor advisor.Service
	calls   *metrics.CallCounter
}

// NewLocal wires the in-process fetch layer.
func NewLocal(weatherSvc weather.Service, advisorSvc advisor.Service, calls *metrics.CallCounter) *Local {
	return &Local{weather: weatherSvc, advisor: advisorSvc, calls: calls}
}

func (l *Local) Current(ctx context.Context, city string) (forecast.Current, error) {
	l.calls.Inc("/api/weather")
	resp, err := l.weather.Current(ctx, city)
	if err != nil {
		return forecast.Current{}, err
	}
	return forecast.Current{
		City:        resp.City,
		Country:     resp.Country,
		Temperature: resp.Temperature,
		FeelsLike:   resp.FeelsLike,
		Humidity:    resp.Humidity,
		Pressure:    resp.Pressure,
		WindSpeed:   resp.WindSpeed,
		WindDeg:     resp.WindDeg,
		Description: resp.Description,
		Icon:        resp.Icon,
		Lat:         resp.Lat,
		Lon:         resp.Lon,
		Timestamp:   resp.Timestamp,
	}, nil
}

func (l *Local) DailyForecast(ctx context.Context, city string) ([]forecast.Day, error) {
	l.calls.Inc("/api/daily-forecast")
	resp, err := l.weather.Daily(ctx, city)
	if err != nil {
		return nil, err
	}
	return resp.Daily, nil
}

func (l *Local) AirQuality(ctx context.Context, lat, lon float64) (forecast.AirQuality, error) {
	l.calls.Inc("/api/air-quality")
	return l.weather.AirQuality(ctx, lat, lon)
}

func (l *Local) Activities(ctx context.Context, city string) (advisor.Response, error) {
	l.calls.Inc("/api/activities")
	return l.advisor.Recommend(ctx, advisor.Request{City: city})
}

func (l *Local) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	l.calls.Inc("/api/reverse-geocode")
	place, err := l.weather.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		return "", err
	}
	return place.Name, nil
}

var _ dashboard.WeatherAPI = (*Local)(nil)
