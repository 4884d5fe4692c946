package openweather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/weather-dashboard/pkg/errors"
	"github.com/yanqian/weather-dashboard/pkg/metrics"
)

func TestClientCurrentWeather(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/weather", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "Kyiv", q.Get("q"))
		require.Equal(t, "metric", q.Get("units"))
		require.Equal(t, "ua", q.Get("lang"))
		require.Equal(t, "secret", q.Get("appid"))
		_, _ = w.Write([]byte(`{
			"coord":{"lat":50.45,"lon":30.52},
			"weather":[{"description":"ясно","icon":"01d"}],
			"main":{"temp":21.4,"feels_like":20.9,"humidity":55,"pressure":1012},
			"wind":{"speed":3.2,"deg":90},
			"dt":1719835200,
			"sys":{"country":"UA"},
			"name":"Kyiv"}`))
	}))
	defer srv.Close()

	calls := metrics.NewCallCounter()
	client := NewClient(Config{APIKey: "secret", BaseURL: srv.URL}, calls)

	raw, err := client.CurrentWeather(context.Background(), "Kyiv")
	require.NoError(t, err)
	require.Equal(t, "Kyiv", raw.Name)
	require.Equal(t, "UA", raw.Country)
	require.Equal(t, 21.4, raw.Temp)
	require.Equal(t, "ясно", raw.Description)
	require.Equal(t, 50.45, raw.Lat)
	require.Equal(t, time.Unix(1719835200, 0).UTC(), raw.ObservedAt)
	require.EqualValues(t, 1, calls.Count("weather"))
}

func TestClientForecast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/forecast", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"list":[
				{"dt":1719835200,"main":{"temp":18,"feels_like":17,"humidity":60,"pressure":1010},
				 "weather":[{"description":"light rain","icon":"10d"}],"clouds":{"all":75},
				 "wind":{"speed":4.1,"deg":200,"gust":7.5},"visibility":10000,"pop":0.35,"rain":{"3h":0.6}},
				{"dt":1719846000,"main":{"temp":20,"feels_like":19,"humidity":55,"pressure":1011},
				 "weather":[],"clouds":{"all":20},"wind":{"speed":2,"deg":180},"pop":0}
			],
			"city":{"name":"Kyiv","country":"UA","coord":{"lat":50.45,"lon":30.52},
			        "timezone":10800,"sunrise":1719800000,"sunset":1719858000}}`))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "secret", BaseURL: srv.URL}, nil)
	raw, err := client.Forecast(context.Background(), "Kyiv")
	require.NoError(t, err)
	require.Equal(t, 10800, raw.TimezoneOffset)
	require.Equal(t, time.Unix(1719800000, 0).UTC(), raw.Sunrise)
	require.Len(t, raw.Entries, 2)

	first := raw.Entries[0]
	require.Equal(t, 0.35, first.Pop)
	require.Equal(t, 0.6, first.Rain)
	require.NotNil(t, first.WindGust)
	require.Equal(t, 7.5, *first.WindGust)
	require.NotNil(t, first.Visibility)
	require.Equal(t, 75, first.Clouds)

	second := raw.Entries[1]
	require.Nil(t, second.WindGust)
	require.Nil(t, second.Visibility)
	require.Empty(t, second.Description)
}

func TestClientAirPollutionAndGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/air_pollution":
			require.Equal(t, "50.45", r.URL.Query().Get("lat"))
			_, _ = w.Write([]byte(`{"list":[{"main":{"aqi":3},"components":{"pm2_5":12.345}}]}`))
		case "/geo/direct":
			require.Equal(t, "5", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(`[{"name":"Lviv","country":"UA","state":"Lviv Oblast","lat":49.84,"lon":24.03}]`))
		case "/geo/reverse":
			require.Equal(t, "1", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(`[]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "secret", BaseURL: srv.URL + "/data", GeoURL: srv.URL + "/geo/"}, nil)

	air, err := client.AirPollution(context.Background(), 50.45, 30.52)
	require.NoError(t, err)
	require.Equal(t, 3, air.AQI)
	require.Equal(t, 12.345, air.Components["pm2_5"])

	places, err := client.Geocode(context.Background(), "Lviv", 5)
	require.NoError(t, err)
	require.Len(t, places, 1)
	require.Equal(t, "Lviv Oblast", places[0].State)

	places, err = client.ReverseGeocode(context.Background(), 0, 0, 1)
	require.NoError(t, err)
	require.Empty(t, places)
}

func TestClientErrorMapping(t *testing.T) {
	status := http.StatusNotFound
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "secret", BaseURL: srv.URL}, nil)

	_, err := client.CurrentWeather(context.Background(), "Atlantis")
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	status = http.StatusUnauthorized
	_, err = client.CurrentWeather(context.Background(), "Kyiv")
	require.True(t, apperrors.IsCode(err, apperrors.CodeUpstream))
	require.Equal(t, "Invalid API key", apperrors.MessageOf(err))

	srv.Close()
	_, err = client.CurrentWeather(context.Background(), "Kyiv")
	require.True(t, apperrors.IsCode(err, apperrors.CodeUpstreamUnavailable))
}

func TestClientRequiresAPIKey(t *testing.T) {
	calls := metrics.NewCallCounter()
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1"}, calls)

	_, err := client.Forecast(context.Background(), "Kyiv")
	require.True(t, apperrors.IsCode(err, apperrors.CodeConfig))
	require.Zero(t, calls.Total())
}

func TestClientRateLimiterHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "secret", GeoURL: srv.URL, RPS: 0.01, Burst: 1}, nil)
	_, err := client.Geocode(context.Background(), "Kyiv", 1)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.Geocode(ctx, "Kyiv", 1)
	require.True(t, apperrors.IsCode(err, apperrors.CodeUpstreamUnavailable))
}
