package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	OpenWeather OpenWeatherConfig `yaml:"openWeather"`
	Weather     WeatherConfig     `yaml:"weather"`
	Dashboard   DashboardConfig   `yaml:"dashboard"`
	Preferences PreferencesConfig `yaml:"preferences"`
	LLM         LLMConfig         `yaml:"llm"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// OpenWeatherConfig points at the upstream weather provider.
type OpenWeatherConfig struct {
	APIKey  string        `yaml:"apiKey"`
	BaseURL string        `yaml:"baseUrl"`
	GeoURL  string        `yaml:"geoUrl"`
	Lang    string        `yaml:"lang"`
	RPS     float64       `yaml:"rps"`
	Burst   int           `yaml:"burst"`
	Timeout time.Duration `yaml:"timeout"`
}

// WeatherConfig shapes the weather API responses.
type WeatherConfig struct {
	ForecastEntries int `yaml:"forecastEntries"`
	HourlyEntries   int `yaml:"hourlyEntries"`
	MaxDays         int `yaml:"maxDays"`
	GeocodeLimit    int `yaml:"geocodeLimit"`
}

// DashboardConfig controls dashboard sessions.
type DashboardConfig struct {
	// APIBaseURL, when set, makes sessions fetch over HTTP instead of in process.
	APIBaseURL      string        `yaml:"apiBaseUrl"`
	APITimeout      time.Duration `yaml:"apiTimeout"`
	SessionTTL      time.Duration `yaml:"sessionTtl"`
	JanitorInterval time.Duration `yaml:"janitorInterval"`
}

// PreferencesConfig selects where preferences and favorites live.
type PreferencesConfig struct {
	Driver   string         `yaml:"driver"`
	Prefix   string         `yaml:"prefix"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// SQLiteConfig holds the database file location.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// ValkeyConfig contains connection information for the key-value store.
type ValkeyConfig struct {
	Addr string `yaml:"addr"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// LLMConfig contains ChatGPT/OpenAI settings for the activity advisor.
type LLMConfig struct {
	APIKey      string        `yaml:"apiKey"`
	BaseURL     string        `yaml:"baseUrl"`
	Model       string        `yaml:"model"`
	Temperature float32       `yaml:"temperature"`
	Prompt      string        `yaml:"prompt"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Preference drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverValkey   = "valkey"
)

// Load reads configuration from a YAML file and environment variables.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	} else if v := os.Getenv("PORT"); v != "" {
		cfg.HTTP.Address = ":" + v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("WEATHER_API_KEY"); v != "" {
		cfg.OpenWeather.APIKey = v
	}
	if v := os.Getenv("WEATHER_BASE_URL"); v != "" {
		cfg.OpenWeather.BaseURL = v
	}
	if v := os.Getenv("WEATHER_GEO_URL"); v != "" {
		cfg.OpenWeather.GeoURL = v
	}
	if v := os.Getenv("WEATHER_LANG"); v != "" {
		cfg.OpenWeather.Lang = v
	}
	if v := os.Getenv("WEATHER_RPS"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.OpenWeather.RPS = parsed
		}
	}
	if v := os.Getenv("WEATHER_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.OpenWeather.Timeout = parsed
		}
	}
	if v := os.Getenv("WEATHER_MAX_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Weather.MaxDays = parsed
		}
	}
	if v := os.Getenv("DASHBOARD_API_BASE_URL"); v != "" {
		cfg.Dashboard.APIBaseURL = v
	}
	if v := os.Getenv("DASHBOARD_SESSION_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Dashboard.SessionTTL = parsed
		}
	}
	if v := os.Getenv("DASHBOARD_JANITOR_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Dashboard.JanitorInterval = parsed
		}
	}
	if v := os.Getenv("PREFERENCES_DRIVER"); v != "" {
		cfg.Preferences.Driver = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("PREFERENCES_SQLITE_PATH"); v != "" {
		cfg.Preferences.SQLite.Path = v
	}
	if v := os.Getenv("PREFERENCES_VALKEY_ADDR"); v != "" {
		cfg.Preferences.Valkey.Addr = v
	}
	if v := os.Getenv("PREFERENCES_POSTGRES_DSN"); v != "" {
		cfg.Preferences.Postgres.DSN = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("ADVISOR_PROMPT"); v != "" {
		cfg.LLM.Prompt = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
		},
		OpenWeather: OpenWeatherConfig{
			BaseURL: "https://api.openweathermap.org/data/2.5",
			GeoURL:  "https://api.openweathermap.org/geo/1.0",
			Lang:    "ua",
			RPS:     10,
			Burst:   5,
			Timeout: 10 * time.Second,
		},
		Weather: WeatherConfig{
			ForecastEntries: 8,
			HourlyEntries:   16,
			MaxDays:         7,
			GeocodeLimit:    5,
		},
		Dashboard: DashboardConfig{
			APITimeout:      10 * time.Second,
			SessionTTL:      30 * time.Minute,
			JanitorInterval: time.Minute,
		},
		Preferences: PreferencesConfig{
			Driver: DriverMemory,
			Prefix: "weather",
			SQLite: SQLiteConfig{Path: "data/preferences.db"},
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
		LLM: LLMConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.3,
			Timeout:     30 * time.Second,
			Prompt:      "You are an outdoor activity planner. Given a daily weather forecast, decide which common activities suit the day. Respond strictly as JSON with the keys summary (string) and activities (array of objects with name, suitable (boolean) and reason). Keep reasons short.",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if strings.TrimSpace(c.OpenWeather.BaseURL) == "" || strings.TrimSpace(c.OpenWeather.GeoURL) == "" {
		return errors.New("openWeather.baseUrl and openWeather.geoUrl cannot be empty")
	}
	if c.OpenWeather.RPS < 0 {
		return errors.New("openWeather.rps cannot be negative")
	}
	if c.Weather.ForecastEntries <= 0 || c.Weather.HourlyEntries <= 0 {
		return errors.New("weather.forecastEntries and weather.hourlyEntries must be positive")
	}
	if c.Weather.MaxDays <= 0 {
		return errors.New("weather.maxDays must be positive")
	}
	if c.Weather.GeocodeLimit <= 0 {
		return errors.New("weather.geocodeLimit must be positive")
	}
	if c.Dashboard.SessionTTL <= 0 {
		return errors.New("dashboard.sessionTtl must be positive")
	}
	if c.Dashboard.JanitorInterval <= 0 {
		return errors.New("dashboard.janitorInterval must be positive")
	}
	switch c.Preferences.Driver {
	case DriverMemory:
	case DriverSQLite:
		if strings.TrimSpace(c.Preferences.SQLite.Path) == "" {
			return errors.New("preferences.sqlite.path cannot be empty when driver is sqlite")
		}
	case DriverPostgres:
		if strings.TrimSpace(c.Preferences.Postgres.DSN) == "" {
			return errors.New("preferences.postgres.dsn cannot be empty when driver is postgres")
		}
	case DriverValkey:
		if strings.TrimSpace(c.Preferences.Valkey.Addr) == "" {
			return errors.New("preferences.valkey.addr cannot be empty when driver is valkey")
		}
	default:
		return fmt.Errorf("preferences.driver %q is not supported", c.Preferences.Driver)
	}
	if strings.TrimSpace(c.LLM.Prompt) == "" {
		return errors.New("llm.prompt cannot be empty")
	}
	return nil
}
