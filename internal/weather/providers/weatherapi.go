package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/weather-sms/internal/common"
	"github.com/i474232898/weather-sms/internal/weather"
)

// WeatherAPIProvider implements weather.ForecastProvider for WeatherAPI.com.
type WeatherAPIProvider struct {
	name     string
	apiKey   string
	baseURL  string
	days     int
	upstream *upstream
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:     "weatherapi",
		apiKey:   apiKey,
		baseURL:  "https://api.weatherapi.com/v1/forecast.json",
		days:     3,
		upstream: newUpstream("weatherapi", client),
	}
}

// WithBaseURL points the provider at a different endpoint.
func (p *WeatherAPIProvider) WithBaseURL(u string) *WeatherAPIProvider {
	p.baseURL = u
	return p
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

type weatherAPIForecast struct {
	Forecast struct {
		ForecastDay []struct {
			Hour []struct {
				TimeEpoch int64   `json:"time_epoch"`
				TempF     float64 `json:"temp_f"`
				Condition struct {
					Text string `json:"text"`
				} `json:"condition"`
			} `json:"hour"`
		} `json:"forecastday"`
	} `json:"forecast"`
}

func (p *WeatherAPIProvider) FetchForecast(ctx context.Context, loc weather.Location) ([]weather.Sample, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("weatherapi api key is not configured")
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("days", strconv.Itoa(p.days))
	values.Set("aqi", "no")
	values.Set("alerts", "no")
	// WeatherAPI uses "q" for location; it accepts a name or "lat,lon".
	if loc.IsCoordinates() {
		values.Set("q", fmt.Sprintf("%f,%f", *loc.Lat, *loc.Lon))
	} else {
		values.Set("q", loc.Name)
	}

	var payload weatherAPIForecast
	if err := p.upstream.getJSON(ctx, p.baseURL, values, &payload); err != nil {
		return nil, err
	}

	var samples []weather.Sample
	for _, day := range payload.Forecast.ForecastDay {
		for _, h := range day.Hour {
			samples = append(samples, weather.Sample{
				Timestamp:    time.Unix(h.TimeEpoch, 0).UTC(),
				TemperatureF: h.TempF,
				Condition:    normalizeWeatherAPICondition(h.Condition.Text),
			})
		}
	}
	if len(samples) == 0 {
		return nil, errEmptyForecast
	}
	return samples, nil
}

// normalizeWeatherAPICondition maps WeatherAPI's wording onto the
// OpenWeatherMap description vocabulary so every provider reads alike.
func normalizeWeatherAPICondition(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	switch {
	case t == "":
		return ""
	case common.HasAny(t, "thunder"):
		return "thunderstorm"
	case common.HasAny(t, "fog"):
		return "fog"
	case common.HasAny(t, "freezing", "sleet", "ice pellets"):
		return "freezing rain"
	case common.HasAny(t, "snow", "blizzard"):
		if common.HasAny(t, "light", "patchy") {
			return "light snow"
		}
		if common.HasAny(t, "heavy") {
			return "heavy snow"
		}
		return "snow"
	case common.HasAny(t, "drizzle"):
		return "drizzle"
	case common.HasAny(t, "shower"):
		return "shower rain"
	case common.HasAny(t, "rain"):
		if common.HasAny(t, "light", "patchy") {
			return "light rain"
		}
		if common.HasAny(t, "heavy", "torrential") {
			return "heavy intensity rain"
		}
		return "moderate rain"
	case common.HasAny(t, "mist"):
		return "mist"
	case common.HasAny(t, "overcast"):
		return "overcast clouds"
	case common.HasAny(t, "partly"):
		return "scattered clouds"
	case common.HasAny(t, "cloud"):
		return "broken clouds"
	case common.HasAny(t, "sunny", "clear"):
		return "clear sky"
	default:
		return t
	}
}
