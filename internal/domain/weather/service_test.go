package weather

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
)

func TestServiceCurrent(t *testing.T) {
	upstream := &stubUpstream{current: RawCurrent{
		Name: "Kyiv", Country: "UA", Temp: 21.46, FeelsLike: 20.04, Humidity: 55,
		Pressure: 1012, WindSpeed: 3.2, WindDeg: 90, Description: "clear sky", Icon: "01d",
		Lat: 50.45, Lon: 30.52,
	}}
	svc := NewService(Config{}, upstream, newTestLogger())

	resp, err := svc.Current(context.Background(), "  Kyiv ")
	require.NoError(t, err)
	require.Equal(t, "Kyiv", upstream.lastCity)
	require.Equal(t, 21.5, resp.Temperature)
	require.Equal(t, 20.0, resp.FeelsLike)
	require.Equal(t, "UA", resp.Country)
	require.Equal(t, 50.45, resp.Lat)
}

func TestServiceRejectsBlankCity(t *testing.T) {
	upstream := &stubUpstream{}
	svc := NewService(Config{}, upstream, newTestLogger())

	_, err := svc.Current(context.Background(), "   ")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	_, err = svc.Daily(context.Background(), "")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
	require.Zero(t, upstream.calls)
}

func TestServiceMapsUpstreamErrors(t *testing.T) {
	upstream := &stubUpstream{err: apperrors.Wrap(apperrors.CodeNotFound, "404", nil)}
	svc := NewService(Config{}, upstream, newTestLogger())

	_, err := svc.Current(context.Background(), "Atlantis")
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))
	require.Equal(t, "city not found", apperrors.MessageOf(err))

	upstream.err = errors.New("boom")
	_, err = svc.Hourly(context.Background(), "Kyiv")
	require.True(t, apperrors.IsCode(err, apperrors.CodeUpstream))

	upstream.err = apperrors.Wrap(apperrors.CodeUpstreamUnavailable, "connection error", errors.New("dial"))
	_, err = svc.Forecast(context.Background(), "Kyiv")
	require.True(t, apperrors.IsCode(err, apperrors.CodeUpstreamUnavailable))
}

func TestServiceForecastAndHourlyLimits(t *testing.T) {
	upstream := &stubUpstream{forecast: rawForecast(20)}
	svc := NewService(Config{}, upstream, newTestLogger())

	short, err := svc.Forecast(context.Background(), "Kyiv")
	require.NoError(t, err)
	require.Len(t, short.Forecast, 8)

	hourly, err := svc.Hourly(context.Background(), "Kyiv")
	require.NoError(t, err)
	require.Len(t, hourly.Hourly, 16)
	require.Equal(t, 40, hourly.Hourly[0].Pop)
}

func TestServiceDailyGroupsByDate(t *testing.T) {
	upstream := &stubUpstream{forecast: rawForecast(16)}
	svc := NewService(Config{MaxDays: 7}, upstream, newTestLogger())

	resp, err := svc.Daily(context.Background(), "Kyiv")
	require.NoError(t, err)
	require.Len(t, resp.Daily, 2)

	first := resp.Daily[0]
	require.Equal(t, "2024-07-01", first.Date.Format("2006-01-02"))
	require.Len(t, first.Hourly, 8)
	require.Equal(t, 10.0, first.TempMin)
	require.Equal(t, 17.0, first.TempMax)
	require.Equal(t, 13.5, first.TempAvg)
	require.Equal(t, 40, first.Pop)
	require.Equal(t, "light rain", first.Description)
	require.NotNil(t, first.Sunrise)
	require.NotNil(t, first.Sunset)
	require.Nil(t, resp.Daily[1].Sunrise)
	require.NotNil(t, first.Precipitation)
	require.Equal(t, 0.8, *first.Precipitation)
	require.NotNil(t, first.WindGust)
	require.Equal(t, 9.0, *first.WindGust)
	require.True(t, first.Date.Before(resp.Daily[1].Date))
}

func TestGroupDailyRespectsMaxDays(t *testing.T) {
	days := GroupDaily(rawForecast(40), 3)
	require.Len(t, days, 3)
}

func TestGroupDailyUsesCityTimezone(t *testing.T) {
	raw := RawForecast{
		TimezoneOffset: 3 * 3600,
		Entries: []RawForecastEntry{
			{Time: time.Date(2024, 7, 1, 20, 0, 0, 0, time.UTC), Temp: 10},
			{Time: time.Date(2024, 7, 1, 22, 0, 0, 0, time.UTC), Temp: 12},
		},
	}
	days := GroupDaily(raw, 0)
	require.Len(t, days, 2)
	require.Equal(t, "2024-07-02", days[1].Date.Format("2006-01-02"))
}

func TestCircularMeanWindDirection(t *testing.T) {
	require.Equal(t, 0, circularMean(0, 0))
	raw := RawForecast{Entries: []RawForecastEntry{
		{Time: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), WindDeg: 350},
		{Time: time.Date(2024, 7, 1, 3, 0, 0, 0, time.UTC), WindDeg: 10},
	}}
	days := GroupDaily(raw, 0)
	require.Equal(t, 0, days[0].WindDeg)
}

func TestServiceAirQuality(t *testing.T) {
	upstream := &stubUpstream{air: RawAir{AQI: 2, Components: map[string]float64{"pm2_5": 3.456, "co": 201.94, "nh3": 1}}}
	svc := NewService(Config{}, upstream, newTestLogger())

	resp, err := svc.AirQuality(context.Background(), 50.45, 30.52)
	require.NoError(t, err)
	require.Equal(t, "Fair", resp.Label)
	require.Equal(t, 3.46, resp.Components["pm2_5"])
	require.Equal(t, 0.0, resp.Components["pm10"])
	require.NotContains(t, resp.Components, "nh3")

	upstream.air.AQI = 9
	resp, err = svc.AirQuality(context.Background(), 50.45, 30.52)
	require.NoError(t, err)
	require.Equal(t, "Unknown", resp.Label)

	_, err = svc.AirQuality(context.Background(), 120, 30)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestServiceGeocode(t *testing.T) {
	upstream := &stubUpstream{}
	svc := NewService(Config{}, upstream, newTestLogger())

	_, err := svc.Geocode(context.Background(), "Nowhere")
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	upstream.places = []Place{{Name: "Lviv", Country: "UA", Lat: 49.84, Lon: 24.03}}
	resp, err := svc.Geocode(context.Background(), "Lviv")
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	require.Equal(t, 5, upstream.lastLimit)

	place, err := svc.ReverseGeocode(context.Background(), 49.84, 24.03)
	require.NoError(t, err)
	require.Equal(t, "Lviv", place.Name)
	require.Equal(t, 1, upstream.lastLimit)
}

func rawForecast(n int) RawForecast {
	base := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	entries := make([]RawForecastEntry, 0, n)
	for i := 0; i < n; i++ {
		gust := float64(i + 2)
		e := RawForecastEntry{
			Time:        base.Add(time.Duration(i*3) * time.Hour),
			Temp:        10 + float64(i%8),
			FeelsLike:   9 + float64(i%8),
			Humidity:    60,
			Pressure:    1010,
			WindSpeed:   3,
			WindDeg:     180,
			WindGust:    &gust,
			Clouds:      40,
			Pop:         0.4,
			Description: "clear sky",
			Icon:        "01d",
		}
		if i%2 == 0 {
			e.Description = "light rain"
			e.Icon = "10d"
			e.Rain = 0.2
		}
		entries = append(entries, e)
	}
	return RawForecast{
		City:    "Kyiv",
		Country: "UA",
		Lat:     50.45,
		Lon:     30.52,
		Sunrise: base.Add(2 * time.Hour),
		Sunset:  base.Add(18 * time.Hour),
		Entries: entries,
	}
}

type stubUpstream struct {
	current   RawCurrent
	forecast  RawForecast
	air       RawAir
	places    []Place
	err       error
	calls     int
	lastCity  string
	lastLimit int
}

func (s *stubUpstream) CurrentWeather(_ context.Context, city string) (RawCurrent, error) {
	s.calls++
	s.lastCity = city
	return s.current, s.err
}

func (s *stubUpstream) Forecast(_ context.Context, city string) (RawForecast, error) {
	s.calls++
	s.lastCity = city
	return s.forecast, s.err
}

func (s *stubUpstream) AirPollution(_ context.Context, _, _ float64) (RawAir, error) {
	s.calls++
	return s.air, s.err
}

func (s *stubUpstream) Geocode(_ context.Context, city string, limit int) ([]Place, error) {
	s.calls++
	s.lastCity = city
	s.lastLimit = limit
	return s.places, s.err
}

func (s *stubUpstream) ReverseGeocode(_ context.Context, _, _ float64, limit int) ([]Place, error) {
	s.calls++
	s.lastLimit = limit
	return s.places, s.err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
