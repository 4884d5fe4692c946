// Package dashboard keeps one weather dashboard session consistent: loads, day selection,
// unit switches and the derived view handed to renderers.
package dashboard

import (
	"context"

	"github.com/yanqian/weather-dashboard/internal/domain/advisor"
	"github.com/yanqian/weather-dashboard/internal/domain/forecast"
)

// WeatherAPI is the fetch layer a dashboard loads data through.
// Current and DailyForecast are required for a load; the rest are best effort.
type WeatherAPI interface {
	Current(ctx context.Context, city string) (forecast.Current, error)
	DailyForecast(ctx context.Context, city string) ([]forecast.Day, error)
	AirQuality(ctx context.Context, lat, lon float64) (forecast.AirQuality, error)
	Activities(ctx context.Context, city string) (advisor.Response, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}
