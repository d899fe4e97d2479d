package weather

import (
	"context"
	"time"
)

// ForecastProvider abstracts an hourly forecast source (e.g. OpenWeatherMap, WeatherAPI, Open-Meteo).
type ForecastProvider interface {
	Name() string
	// FetchForecast returns samples ordered by Timestamp ascending.
	FetchForecast(ctx context.Context, loc Location) ([]Sample, error)
}

// ProbeStore is the contract the in-memory probe history store must satisfy.
type ProbeStore interface {
	SaveProbe(loc Location, result ProbeResult)
	GetLatest(loc Location) (ProbeResult, error)
	GetRange(loc Location, from, to time.Time) ([]ProbeResult, error)
}
