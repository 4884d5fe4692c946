// Package openweather talks to the OpenWeatherMap REST API.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/yanqian/weather-dashboard/internal/domain/weather"
	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
	"github.com/yanqian/weather-dashboard/pkg/metrics"
)

const (
	defaultBaseURL = "https://api.openweathermap.org/data/2.5"
	defaultGeoURL  = "https://api.openweathermap.org/geo/1.0"
	defaultLang    = "ua"
)

// Config configures the OpenWeatherMap client.
type Config struct {
	APIKey  string
	BaseURL string
	GeoURL  string
	Lang    string
	RPS     float64
	Burst   int
	Timeout time.Duration
}

// Client fetches raw weather data. Every outbound request waits on a shared limiter.
type Client struct {
	apiKey     string
	baseURL    string
	geoURL     string
	lang       string
	httpClient *http.Client
	limiter    *rate.Limiter
	calls      *metrics.CallCounter
}

// NewClient builds an API client. A zero RPS disables throttling.
func NewClient(cfg Config, calls *metrics.CallCounter) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    trimURL(cfg.BaseURL, defaultBaseURL),
		geoURL:     trimURL(cfg.GeoURL, defaultGeoURL),
		lang:       firstNonEmpty(cfg.Lang, defaultLang),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, burst),
		calls:      calls,
	}
}

// CurrentWeather implements weather.Upstream.
func (c *Client) CurrentWeather(ctx context.Context, city string) (weather.RawCurrent, error) {
	var payload currentPayload
	if err := c.get(ctx, "weather", c.baseURL+"/weather", c.cityParams(city), &payload); err != nil {
		return weather.RawCurrent{}, err
	}
	desc, icon := payload.Weather.first()
	return weather.RawCurrent{
		Name:        payload.Name,
		Country:     payload.Sys.Country,
		Temp:        payload.Main.Temp,
		FeelsLike:   payload.Main.FeelsLike,
		Humidity:    payload.Main.Humidity,
		Pressure:    payload.Main.Pressure,
		WindSpeed:   payload.Wind.Speed,
		WindDeg:     payload.Wind.Deg,
		Description: desc,
		Icon:        icon,
		Lat:         payload.Coord.Lat,
		Lon:         payload.Coord.Lon,
		ObservedAt:  unixUTC(payload.Dt),
	}, nil
}

// Forecast implements weather.Upstream with the 5 day / 3 hour feed.
func (c *Client) Forecast(ctx context.Context, city string) (weather.RawForecast, error) {
	var payload forecastPayload
	if err := c.get(ctx, "forecast", c.baseURL+"/forecast", c.cityParams(city), &payload); err != nil {
		return weather.RawForecast{}, err
	}
	out := weather.RawForecast{
		City:           payload.City.Name,
		Country:        payload.City.Country,
		Lat:            payload.City.Coord.Lat,
		Lon:            payload.City.Coord.Lon,
		TimezoneOffset: payload.City.Timezone,
		Entries:        make([]weather.RawForecastEntry, 0, len(payload.List)),
	}
	if payload.City.Sunrise > 0 {
		out.Sunrise = unixUTC(payload.City.Sunrise)
	}
	if payload.City.Sunset > 0 {
		out.Sunset = unixUTC(payload.City.Sunset)
	}
	for _, item := range payload.List {
		desc, icon := item.Weather.first()
		out.Entries = append(out.Entries, weather.RawForecastEntry{
			Time:        unixUTC(item.Dt),
			Temp:        item.Main.Temp,
			FeelsLike:   item.Main.FeelsLike,
			Humidity:    item.Main.Humidity,
			Pressure:    item.Main.Pressure,
			WindSpeed:   item.Wind.Speed,
			WindDeg:     item.Wind.Deg,
			WindGust:    item.Wind.Gust,
			Clouds:      item.Clouds.All,
			Visibility:  item.Visibility,
			Rain:        item.Rain.ThreeH,
			Snow:        item.Snow.ThreeH,
			Pop:         item.Pop,
			Description: desc,
			Icon:        icon,
		})
	}
	return out, nil
}

// AirPollution implements weather.Upstream.
func (c *Client) AirPollution(ctx context.Context, lat, lon float64) (weather.RawAir, error) {
	params := c.coordParams(lat, lon)
	var payload airPayload
	if err := c.get(ctx, "air_pollution", c.baseURL+"/air_pollution", params, &payload); err != nil {
		return weather.RawAir{}, err
	}
	if len(payload.List) == 0 {
		return weather.RawAir{}, apperrors.Wrap(apperrors.CodeUpstream, "empty air pollution response", nil)
	}
	return weather.RawAir{
		AQI:        payload.List[0].Main.AQI,
		Components: payload.List[0].Components,
	}, nil
}

// Geocode implements weather.Upstream using the direct geocoding API.
func (c *Client) Geocode(ctx context.Context, city string, limit int) ([]weather.Place, error) {
	params := url.Values{}
	params.Set("q", city)
	params.Set("limit", strconv.Itoa(limit))
	var places []weather.Place
	if err := c.get(ctx, "geocode", c.geoURL+"/direct", params, &places); err != nil {
		return nil, err
	}
	return places, nil
}

// ReverseGeocode implements weather.Upstream.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64, limit int) ([]weather.Place, error) {
	params := c.coordParams(lat, lon)
	params.Set("limit", strconv.Itoa(limit))
	var places []weather.Place
	if err := c.get(ctx, "reverse_geocode", c.geoURL+"/reverse", params, &places); err != nil {
		return nil, err
	}
	return places, nil
}

func (c *Client) cityParams(city string) url.Values {
	params := url.Values{}
	params.Set("q", city)
	params.Set("units", "metric")
	params.Set("lang", c.lang)
	return params
}

func (c *Client) coordParams(lat, lon float64) url.Values {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	return params
}

func (c *Client) get(ctx context.Context, name, endpoint string, params url.Values, out any) error {
	if c.apiKey == "" {
		return apperrors.Wrap(apperrors.CodeConfig, "weather api key is not configured", nil)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return apperrors.Wrap(apperrors.CodeUpstreamUnavailable, "rate limit wait canceled", err)
	}
	params.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeUpstream, "build weather request", err)
	}

	c.calls.Inc(name)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeUpstreamUnavailable, "connection error", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return apperrors.Wrap(apperrors.CodeUpstreamUnavailable, "read weather response", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.Wrap(apperrors.CodeNotFound, "city not found", nil)
	case resp.StatusCode >= 300:
		return apperrors.Wrap(apperrors.CodeUpstream, upstreamMessage(resp.StatusCode, body), nil)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.Wrap(apperrors.CodeUpstream, "decode weather response", err)
	}
	return nil
}

// upstreamMessage prefers the provider's own error message.
func upstreamMessage(status int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
		return payload.Message
	}
	return fmt.Sprintf("weather provider error: status=%d", status)
}

func unixUTC(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

func trimURL(value, fallback string) string {
	return strings.TrimRight(firstNonEmpty(value, fallback), "/")
}

func firstNonEmpty(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

var _ weather.Upstream = (*Client)(nil)
