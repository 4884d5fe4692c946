package dashboard

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/yanqian/weather-dashboard/internal/domain/advisor"
	"github.com/yanqian/weather-dashboard/internal/domain/forecast"
)

type stubAPI struct {
	mu    sync.Mutex
	calls map[string]int

	currentErr  error
	dailyErr    error
	airErr      error
	activityErr error
	geocodeName string
	geocodeErr  error

	gates   map[string]chan struct{}
	started chan string
}

func newStubAPI() *stubAPI {
	return &stubAPI{calls: make(map[string]int), gates: make(map[string]chan struct{})}
}

func (s *stubAPI) record(endpoint string) {
	s.mu.Lock()
	s.calls[endpoint]++
	s.mu.Unlock()
}

func (s *stubAPI) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

func (s *stubAPI) count(endpoint string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[endpoint]
}

func (s *stubAPI) Current(ctx context.Context, city string) (forecast.Current, error) {
	s.record("current")
	s.mu.Lock()
	gate, gated := s.gates[city]
	started := s.started
	s.mu.Unlock()
	if gated {
		if started != nil {
			started <- city
		}
		select {
		case <-gate:
		case <-ctx.Done():
			return forecast.Current{}, ctx.Err()
		}
	}
	if s.currentErr != nil {
		return forecast.Current{}, s.currentErr
	}
	return forecast.Current{
		City:        city,
		Country:     "UA",
		Temperature: 25,
		FeelsLike:   26,
		Humidity:    50,
		Pressure:    1010,
		WindSpeed:   5,
		WindDeg:     90,
		Description: "live sky",
		Icon:        "02d",
		Lat:         50.45,
		Lon:         30.52,
	}, nil
}

func (s *stubAPI) DailyForecast(_ context.Context, city string) ([]forecast.Day, error) {
	s.record("daily")
	if s.dailyErr != nil {
		return nil, s.dailyErr
	}
	return sampleDays(), nil
}

func (s *stubAPI) AirQuality(_ context.Context, _, _ float64) (forecast.AirQuality, error) {
	s.record("air")
	if s.airErr != nil {
		return forecast.AirQuality{}, s.airErr
	}
	return forecast.AirQuality{AQI: 2, Label: "Fair", Components: map[string]float64{"pm2_5": 4.2}}, nil
}

func (s *stubAPI) Activities(_ context.Context, city string) (advisor.Response, error) {
	s.record("activities")
	if s.activityErr != nil {
		return advisor.Response{}, s.activityErr
	}
	return advisor.Response{
		City:       city,
		Summary:    "Nice day",
		Activities: []advisor.Activity{{Name: "Cycling", Suitable: true, Reason: "calm"}},
		Source:     advisor.SourceRules,
	}, nil
}

func (s *stubAPI) ReverseGeocode(_ context.Context, _, _ float64) (string, error) {
	s.record("reverse")
	return s.geocodeName, s.geocodeErr
}

func sampleDays() []forecast.Day {
	base := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	rise := base.Add(4 * time.Hour)
	set := base.Add(19 * time.Hour)
	gust := 9.0
	days := make([]forecast.Day, 0, 3)
	for i := 0; i < 3; i++ {
		date := base.AddDate(0, 0, i)
		d := forecast.Day{
			Date:        date,
			TempAvg:     20 + float64(i),
			TempMin:     15 + float64(i),
			TempMax:     25 + float64(i),
			FeelsLike:   19 + float64(i),
			Humidity:    45,
			Pressure:    1012,
			WindSpeed:   3,
			WindDeg:     180,
			Clouds:      20,
			Pop:         10 * i,
			Description: "clear sky",
			Icon:        "01d",
			Hourly: []forecast.HourlySample{
				{Time: date.Add(9 * time.Hour), Temperature: 18, FeelsLike: 17, Humidity: 50, WindSpeed: 2, Pop: 0},
				{Time: date.Add(12 * time.Hour), Temperature: 24, FeelsLike: 24, Humidity: 40, WindSpeed: 4, Pop: 10},
			},
		}
		if i == 0 {
			d.Sunrise, d.Sunset, d.WindGust = &rise, &set, &gust
		}
		days = append(days, d)
	}
	return days
}

type mapBackend struct {
	mu   sync.Mutex
	data map[string]string
}

func newMapBackend() *mapBackend {
	return &mapBackend{data: make(map[string]string)}
}

func (b *mapBackend) Get(_ context.Context, key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.data[key]
	return v, ok, nil
}

func (b *mapBackend) Set(_ context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = value
	return nil
}

func (b *mapBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
	return nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
