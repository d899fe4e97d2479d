package providers

import (
	"fmt"
	"net/http"

	"github.com/i474232898/weather-sms/internal/weather"
)

// Provider names accepted by Build.
const (
	OpenWeather = "openweather"
	WeatherAPI  = "weatherapi"
	OpenMeteo   = "openmeteo"
)

// Credentials carries the API keys the providers may need.
type Credentials struct {
	OpenWeatherAPIKey string
	WeatherAPIKey     string
	GeocoderAPIKey    string
}

// Build constructs providers in the given order, sharing one HTTP client.
func Build(names []string, client *http.Client, creds Credentials) ([]weather.ForecastProvider, error) {
	provs := make([]weather.ForecastProvider, 0, len(names))
	for _, name := range names {
		switch name {
		case OpenWeather:
			provs = append(provs, NewOpenWeatherProvider(client, creds.OpenWeatherAPIKey))
		case WeatherAPI:
			provs = append(provs, NewWeatherAPIProvider(client, creds.WeatherAPIKey))
		case OpenMeteo:
			provs = append(provs, NewOpenMeteoProvider(client, NewGoogleGeocoder(creds.GeocoderAPIKey)))
		default:
			return nil, fmt.Errorf("unknown forecast provider %q", name)
		}
	}
	return provs, nil
}
