package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every key Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_FILE", "OPENWEATHER_API_KEY", "WEATHERAPI_API_KEY", "GEOCODER_API_KEY",
		"FORECAST_PROVIDERS", "PROBE_LOCATIONS", "HTTP_TIMEOUT", "FETCH_TIMEOUT",
		"PROBE_INTERVAL", "PROBE_MAX_AGE", "PROBE_MAX_HISTORY", "FORECAST_TIMEZONE",
		"PORT", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"openweather"}, cfg.Providers)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.ProbeLocations)
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENWEATHER_API_KEY", "ow")
	t.Setenv("FORECAST_PROVIDERS", "weatherapi, openmeteo,openweather")
	t.Setenv("PROBE_LOCATIONS", "Denver; 39.3, -106.1 ;")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("PROBE_MAX_HISTORY", "10")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ow", cfg.OpenWeatherAPIKey)
	assert.Equal(t, []string{"weatherapi", "openmeteo", "openweather"}, cfg.Providers)
	assert.Equal(t, []string{"Denver", "39.3, -106.1"}, cfg.ProbeLocations)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 10, cfg.ProbeMaxHistory)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "9090", cfg.Port)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
providers: [openmeteo]
fetch_timeout: 5s
timezone: UTC
port: "7070"
probe_locations:
  - Leadville
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "6060")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"openmeteo"}, cfg.Providers)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, []string{"Leadville"}, cfg.ProbeLocations)
	assert.Equal(t, "6060", cfg.Port, "environment wins over the file")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown provider": {"FORECAST_PROVIDERS": "accuweather"},
		"bad duration":     {"FETCH_TIMEOUT": "soon"},
		"bad integer":      {"PROBE_MAX_HISTORY": "lots"},
		"bad timezone":     {"FORECAST_TIMEZONE": "Mars/Olympus_Mons"},
		"bad port":         {"PORT": "http"},
		"bad log level":    {"LOG_LEVEL": "loud"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.Error(t, err)
}
