// Package backendapi is the dashboard fetch layer over the weather API.
package backendapi

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

	"github.com/yanqian/weather-dashboard/internal/domain/advisor"
	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
	"github.com/yanqian/weather-dashboard/internal/domain/forecast"
	"github.com/yanqian/weather-dashboard/internal/domain/weather"
	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
	"github.com/yanqian/weather-dashboard/pkg/metrics"
)

const genericFailure = "failed to load weather data"

// Client calls the weather API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	calls      *metrics.CallCounter
}

// NewClient builds a client for the weather API rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, calls *metrics.CallCounter) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
		calls:      calls,
	}
}

func (c *Client) Current(ctx context.Context, city string) (forecast.Current, error) {
	var out forecast.Current
	err := c.get(ctx, "/api/weather", url.Values{"city": {city}}, &out)
	return out, err
}

func (c *Client) DailyForecast(ctx context.Context, city string) ([]forecast.Day, error) {
	var out weather.DailyResponse
	if err := c.get(ctx, "/api/daily-forecast", url.Values{"city": {city}}, &out); err != nil {
		return nil, err
	}
	return out.Daily, nil
}

func (c *Client) AirQuality(ctx context.Context, lat, lon float64) (forecast.AirQuality, error) {
	var out forecast.AirQuality
	err := c.get(ctx, "/api/air-quality", coords(lat, lon), &out)
	return out, err
}

func (c *Client) Activities(ctx context.Context, city string) (advisor.Response, error) {
	var out advisor.Response
	err := c.get(ctx, "/api/activities", url.Values{"city": {city}}, &out)
	return out, err
}

func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	var out weather.Place
	if err := c.get(ctx, "/api/reverse-geocode", coords(lat, lon), &out); err != nil {
		return "", err
	}
	return out.Name, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeUpstream, genericFailure, err)
	}

	c.calls.Inc(path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeUpstreamUnavailable, "network error, please try again", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return apperrors.Wrap(apperrors.CodeUpstreamUnavailable, "network error, please try again", err)
	}
	if resp.StatusCode >= 300 {
		return apperrors.Wrap(codeForStatus(resp.StatusCode), serverMessage(body), fmt.Errorf("status=%d", resp.StatusCode))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.Wrap(apperrors.CodeUpstream, genericFailure, err)
	}
	return nil
}

// serverMessage reads {"error":{"message":...}} or the flat {"error":"..."} form.
func serverMessage(body []byte) string {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 {
		return genericFailure
	}
	var flat string
	if err := json.Unmarshal(envelope.Error, &flat); err == nil && strings.TrimSpace(flat) != "" {
		return flat
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Error, &nested); err == nil && strings.TrimSpace(nested.Message) != "" {
		return nested.Message
	}
	return genericFailure
}

func codeForStatus(status int) string {
	switch {
	case status == http.StatusBadRequest:
		return apperrors.CodeInvalidInput
	case status == http.StatusNotFound:
		return apperrors.CodeNotFound
	case status == http.StatusServiceUnavailable:
		return apperrors.CodeUpstreamUnavailable
	default:
		return apperrors.CodeUpstream
	}
}

func coords(lat, lon float64) url.Values {
	return url.Values{
		"lat": {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon": {strconv.FormatFloat(lon, 'f', -1, 64)},
	}
}

var _ dashboard.WeatherAPI = (*Client)(nil)
