package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	OpenWeatherAPIKey string `yaml:"openweather_api_key"`
	WeatherAPIKey     string `yaml:"weatherapi_api_key"`
	GeocoderAPIKey    string `yaml:"geocoder_api_key"`

	// Providers are tried in order until one returns a forecast.
	Providers []string `yaml:"providers" validate:"min=1,dive,oneof=openweather weatherapi openmeteo"`

	// HTTPTimeout bounds each outbound request; FetchTimeout bounds a whole
	// lookup including retries and provider fallback.
	HTTPTimeout  time.Duration `yaml:"http_timeout" validate:"gt=0"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" validate:"gt=0"`

	// Timezone is the IANA zone used to group dates and match time windows.
	Timezone string         `yaml:"timezone" validate:"required"`
	Location *time.Location `yaml:"-"`

	// ProbeLocations are messages (e.g. "Denver" or "39.7, -104.9") checked on a schedule.
	ProbeLocations  []string      `yaml:"probe_locations"`
	ProbeInterval   time.Duration `yaml:"probe_interval" validate:"gte=0"`
	ProbeMaxHistory int           `yaml:"probe_max_history" validate:"gte=0"`
	ProbeMaxAge     time.Duration `yaml:"probe_max_age" validate:"gte=0"`

	Port     string `yaml:"port" validate:"required,numeric"`
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`
}

var validate = validator.New()

// Default returns the configuration used when nothing is set.
func Default() *AppConfig {
	return &AppConfig{
		Providers:       []string{"openweather"},
		HTTPTimeout:     10 * time.Second,
		FetchTimeout:    15 * time.Second,
		Timezone:        "UTC",
		ProbeInterval:   15 * time.Minute,
		ProbeMaxHistory: 96, // roughly 24h at 15-minute intervals
		ProbeMaxAge:     24 * time.Hour,
		Port:            "8080",
		LogLevel:        "info",
	}
}

// Load reads configuration from .env, an optional YAML file named by
// CONFIG_FILE, and the environment, in increasing order of precedence.
func Load() (*AppConfig, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.mergeEnv(); err != nil {
		return nil, err
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) mergeFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *AppConfig) mergeEnv() error {
	c.OpenWeatherAPIKey = getenvDefault("OPENWEATHER_API_KEY", c.OpenWeatherAPIKey)
	c.WeatherAPIKey = getenvDefault("WEATHERAPI_API_KEY", c.WeatherAPIKey)
	c.GeocoderAPIKey = getenvDefault("GEOCODER_API_KEY", c.GeocoderAPIKey)

	if v := os.Getenv("FORECAST_PROVIDERS"); v != "" {
		c.Providers = splitList(v, ",")
	}
	if v := os.Getenv("PROBE_LOCATIONS"); v != "" {
		// Semicolons, since a coordinate probe itself contains a comma.
		c.ProbeLocations = splitList(v, ";")
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"HTTP_TIMEOUT", &c.HTTPTimeout},
		{"FETCH_TIMEOUT", &c.FetchTimeout},
		{"PROBE_INTERVAL", &c.ProbeInterval},
		{"PROBE_MAX_AGE", &c.ProbeMaxAge},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	n, err := getenvInt("PROBE_MAX_HISTORY", c.ProbeMaxHistory)
	if err != nil {
		return fmt.Errorf("invalid PROBE_MAX_HISTORY: %w", err)
	}
	c.ProbeMaxHistory = n
	c.Timezone = getenvDefault("FORECAST_TIMEZONE", c.Timezone)
	c.Port = getenvDefault("PORT", c.Port)
	c.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", c.LogLevel))
	return nil
}

func (c *AppConfig) finalize() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid FORECAST_TIMEZONE: %w", err)
	}
	c.Location = loc
	return nil
}

func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(strings.TrimSpace(v))
}
