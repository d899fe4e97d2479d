package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/weather-sms/internal/weather"
)

// OpenWeatherProvider implements weather.ForecastProvider using the
// OpenWeatherMap 5 day / 3 hour forecast.
type OpenWeatherProvider struct {
	name     string
	apiKey   string
	baseURL  string
	upstream *upstream
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:     "openweathermap",
		apiKey:   apiKey,
		baseURL:  "https://api.openweathermap.org/data/2.5/forecast",
		upstream: newUpstream("openweather", client),
	}
}

// WithBaseURL points the provider at a different endpoint.
func (p *OpenWeatherProvider) WithBaseURL(u string) *OpenWeatherProvider {
	p.baseURL = u
	return p
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type openWeatherForecast struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"list"`
}

func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, loc weather.Location) ([]weather.Sample, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	values := url.Values{}
	values.Set("appid", p.apiKey)
	values.Set("units", "imperial")
	if loc.IsCoordinates() {
		values.Set("lat", strconv.FormatFloat(*loc.Lat, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(*loc.Lon, 'f', -1, 64))
	} else {
		values.Set("q", loc.Name)
	}

	var payload openWeatherForecast
	if err := p.upstream.getJSON(ctx, p.baseURL, values, &payload); err != nil {
		return nil, err
	}
	if len(payload.List) == 0 {
		return nil, errEmptyForecast
	}

	samples := make([]weather.Sample, 0, len(payload.List))
	for _, item := range payload.List {
		cond := ""
		if len(item.Weather) > 0 {
			cond = item.Weather[0].Description
			if cond == "" {
				cond = strings.ToLower(item.Weather[0].Main)
			}
		}
		samples = append(samples, weather.Sample{
			Timestamp:    time.Unix(item.Dt, 0).UTC(),
			TemperatureF: item.Main.Temp,
			Condition:    cond,
		})
	}
	return samples, nil
}
