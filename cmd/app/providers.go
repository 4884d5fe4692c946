package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/weather-dashboard/internal/domain/advisor"
	"github.com/yanqian/weather-dashboard/internal/domain/dashboard"
	"github.com/yanqian/weather-dashboard/internal/domain/preferences"
	"github.com/yanqian/weather-dashboard/internal/domain/weather"
	"github.com/yanqian/weather-dashboard/internal/infra/backendapi"
	"github.com/yanqian/weather-dashboard/internal/infra/config"
	"github.com/yanqian/weather-dashboard/internal/infra/llm/chatgpt"
	"github.com/yanqian/weather-dashboard/internal/infra/openweather"
	"github.com/yanqian/weather-dashboard/internal/infra/prefstore"
	"github.com/yanqian/weather-dashboard/pkg/metrics"
)

func provideWeatherConfig(cfg *config.Config) weather.Config {
	return weather.Config{
		ForecastEntries: cfg.Weather.ForecastEntries,
		HourlyEntries:   cfg.Weather.HourlyEntries,
		MaxDays:         cfg.Weather.MaxDays,
		GeocodeLimit:    cfg.Weather.GeocodeLimit,
	}
}

func provideOpenWeatherClient(cfg *config.Config, calls *metrics.CallCounter, logger *slog.Logger) *openweather.Client {
	if strings.TrimSpace(cfg.OpenWeather.APIKey) == "" {
		logger.Warn("WEATHER_API_KEY not set, weather endpoints will report a configuration error")
	}
	return openweather.NewClient(openweather.Config{
		APIKey:  cfg.OpenWeather.APIKey,
		BaseURL: cfg.OpenWeather.BaseURL,
		GeoURL:  cfg.OpenWeather.GeoURL,
		Lang:    cfg.OpenWeather.Lang,
		RPS:     cfg.OpenWeather.RPS,
		Burst:   cfg.OpenWeather.Burst,
		Timeout: cfg.OpenWeather.Timeout,
	}, calls)
}

func provideAdvisorConfig(cfg *config.Config) advisor.Config {
	return advisor.Config{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Prompt:      cfg.LLM.Prompt,
	}
}

// provideChatClient returns a nil interface when no LLM is configured so the advisor
// runs on rules alone.
func provideChatClient(cfg *config.Config, logger *slog.Logger) advisor.ChatClient {
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		logger.Info("llm api key not set, activity advice uses rules only")
		return nil
	}
	client, err := chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Timeout)
	if err != nil {
		logger.Error("failed to create llm client, activity advice uses rules only", "error", err)
		return nil
	}
	return client
}

func provideForecastSource(svc weather.Service) advisor.ForecastSource {
	return svc
}

func provideDashboardAPI(cfg *config.Config, weatherSvc weather.Service, advisorSvc advisor.Service, calls *metrics.CallCounter, logger *slog.Logger) dashboard.WeatherAPI {
	if base := strings.TrimSpace(cfg.Dashboard.APIBaseURL); base != "" {
		logger.Info("dashboard sessions fetch over http", "base_url", base)
		return backendapi.NewClient(base, cfg.Dashboard.APITimeout, calls)
	}
	return backendapi.NewLocal(weatherSvc, advisorSvc, calls)
}

func provideRegistryConfig(cfg *config.Config) dashboard.RegistryConfig {
	return dashboard.RegistryConfig{SessionTTL: cfg.Dashboard.SessionTTL}
}

func provideJanitor(cfg *config.Config, registry *dashboard.Registry, logger *slog.Logger) *dashboard.Janitor {
	return dashboard.NewJanitor(registry, cfg.Dashboard.JanitorInterval, logger)
}

func providePreferencesBackend(cfg *config.Config, logger *slog.Logger) preferences.Backend {
	fallback := prefstore.NewMemoryBackend()
	switch cfg.Preferences.Driver {
	case config.DriverSQLite:
		backend, err := prefstore.OpenSQLite(cfg.Preferences.SQLite.Path)
		if err != nil {
			logger.Error("failed to open sqlite preferences, using memory backend", "error", err)
			return fallback
		}
		logger.Info("sqlite preferences backend enabled", "path", cfg.Preferences.SQLite.Path)
		return backend
	case config.DriverPostgres:
		backend, err := openPostgresBackend(cfg.Preferences.Postgres)
		if err != nil {
			logger.Error("postgres preferences unavailable, using memory backend", "error", err)
			return fallback
		}
		logger.Info("postgres preferences backend enabled")
		return backend
	case config.DriverValkey:
		backend, err := openValkeyBackend(cfg.Preferences)
		if err != nil {
			logger.Error("valkey preferences unavailable, using memory backend", "error", err)
			return fallback
		}
		logger.Info("valkey preferences backend enabled", "addr", cfg.Preferences.Valkey.Addr)
		return backend
	default:
		logger.Info("using memory preferences backend")
		return fallback
	}
}

func openPostgresBackend(cfg config.PostgresConfig) (*prefstore.PostgresBackend, error) {
	poolConfig, err := pgxpool.ParseConfig(strings.TrimSpace(cfg.DSN))
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	backend := prefstore.NewPostgresBackend(pool)
	if err := backend.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return backend, nil
}

func openValkeyBackend(cfg config.PreferencesConfig) (*prefstore.ValkeyBackend, error) {
	opt, err := buildValkeyOptions(cfg.Valkey.Addr)
	if err != nil {
		return nil, err
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, err
	}
	return prefstore.NewValkeyBackend(client, cfg.Prefix), nil
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}
