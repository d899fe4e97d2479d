package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/i474232898/weather-sms/internal/weather"
)

// OpenMeteoProvider implements weather.ForecastProvider for Open-Meteo.
// Open-Meteo only accepts coordinates; names go through the geocoder first.
type OpenMeteoProvider struct {
	name     string
	baseURL  string
	days     int
	geocoder Geocoder
	upstream *upstream
}

func NewOpenMeteoProvider(client *http.Client, geo Geocoder) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:     "openmeteo",
		baseURL:  "https://api.open-meteo.com/v1/forecast",
		days:     3,
		geocoder: geo,
		upstream: newUpstream("openmeteo", client),
	}
}

// WithBaseURL points the provider at a different endpoint.
func (p *OpenMeteoProvider) WithBaseURL(u string) *OpenMeteoProvider {
	p.baseURL = u
	return p
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

type openMeteoForecast struct {
	Hourly struct {
		Time        []int64   `json:"time"`
		Temperature []float64 `json:"temperature_2m"`
		WeatherCode []int     `json:"weathercode"`
	} `json:"hourly"`
}

func (p *OpenMeteoProvider) FetchForecast(ctx context.Context, loc weather.Location) ([]weather.Sample, error) {
	lat, lon, err := p.resolve(ctx, loc)
	if err != nil {
		return nil, err
	}

	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("hourly", "temperature_2m,weathercode")
	values.Set("temperature_unit", "fahrenheit")
	values.Set("timeformat", "unixtime")
	values.Set("forecast_days", strconv.Itoa(p.days))

	var payload openMeteoForecast
	if err := p.upstream.getJSON(ctx, p.baseURL, values, &payload); err != nil {
		return nil, err
	}

	h := payload.Hourly
	if len(h.Time) != len(h.Temperature) || len(h.Time) != len(h.WeatherCode) {
		return nil, fmt.Errorf("openmeteo: mismatched hourly series lengths (%d/%d/%d)",
			len(h.Time), len(h.Temperature), len(h.WeatherCode))
	}
	if len(h.Time) == 0 {
		return nil, errEmptyForecast
	}

	samples := make([]weather.Sample, 0, len(h.Time))
	for i, ts := range h.Time {
		samples = append(samples, weather.Sample{
			Timestamp:    time.Unix(ts, 0).UTC(),
			TemperatureF: h.Temperature[i],
			Condition:    describeWMOCode(h.WeatherCode[i]),
		})
	}
	return samples, nil
}

func (p *OpenMeteoProvider) resolve(ctx context.Context, loc weather.Location) (float64, float64, error) {
	if loc.IsCoordinates() {
		return *loc.Lat, *loc.Lon, nil
	}
	if p.geocoder == nil {
		return 0, 0, fmt.Errorf("openmeteo requires latitude and longitude")
	}
	return p.geocoder.Geocode(ctx, loc.Name)
}

// describeWMOCode maps WMO weather interpretation codes onto the
// OpenWeatherMap description vocabulary.
func describeWMOCode(code int) string {
	switch {
	case code == 0:
		return "clear sky"
	case code == 1:
		return "few clouds"
	case code == 2:
		return "scattered clouds"
	case code == 3:
		return "overcast clouds"
	case code == 45 || code == 48:
		return "fog"
	case code >= 51 && code <= 57:
		return "drizzle"
	case code == 61:
		return "light rain"
	case code == 63:
		return "moderate rain"
	case code == 65:
		return "heavy intensity rain"
	case code == 66 || code == 67:
		return "freezing rain"
	case code == 71:
		return "light snow"
	case code == 73 || code == 77:
		return "snow"
	case code == 75:
		return "heavy snow"
	case code >= 80 && code <= 82:
		return "shower rain"
	case code == 85 || code == 86:
		return "shower snow"
	case code >= 95:
		return "thunderstorm"
	default:
		return "unknown"
	}
}
