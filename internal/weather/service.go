package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrUnavailable is returned when no provider could supply a forecast.
// The underlying cause is wrapped but callers are not expected to inspect it.
var ErrUnavailable = errors.New("forecast unavailable")

// DefaultFetchTimeout bounds a single GetForecast call when none is configured.
const DefaultFetchTimeout = 15 * time.Second

// Service resolves forecasts through an ordered chain of providers.
type Service struct {
	providers []ForecastProvider
	store     ProbeStore
	timeout   time.Duration
	logger    *zap.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithFetchTimeout sets the upper bound on a single forecast lookup.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithProbeStore sets where Probe records its results.
func WithProbeStore(store ProbeStore) Option {
	return func(s *Service) { s.store = store }
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a new Service. Providers are tried in the given order.
func NewService(providers []ForecastProvider, opts ...Option) *Service {
	s := &Service{
		providers: providers,
		timeout:   DefaultFetchTimeout,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetForecast returns the first non-empty forecast any provider can supply.
// Every failure mode collapses to ErrUnavailable.
func (s *Service) GetForecast(ctx context.Context, loc Location) ([]Sample, error) {
	samples, _, err := s.fetch(ctx, loc)
	return samples, err
}

func (s *Service) fetch(ctx context.Context, loc Location) ([]Sample, string, error) {
	if len(s.providers) == 0 {
		s.logger.Error("no forecast providers configured", zap.Stringer("location", loc))
		return nil, "", fmt.Errorf("%w: no weather providers configured", ErrUnavailable)
	}

	// Use a bounded context for outbound provider calls.
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var errs []error
	for _, p := range s.providers {
		samples, err := p.FetchForecast(ctx, loc)
		if err == nil && len(samples) == 0 {
			err = errors.New("empty forecast")
		}
		if err != nil {
			s.logger.Warn("provider forecast failed",
				zap.String("provider", p.Name()),
				zap.Stringer("location", loc),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			if ctx.Err() != nil {
				break
			}
			continue
		}

		s.logger.Debug("provider forecast succeeded",
			zap.String("provider", p.Name()),
			zap.Stringer("location", loc),
			zap.Int("samples", len(samples)))
		return samples, p.Name(), nil
	}

	return nil, "", fmt.Errorf("%w: %w", ErrUnavailable, errors.Join(errs...))
}

// Probe performs one forecast lookup and records its outcome in the probe store.
func (s *Service) Probe(ctx context.Context, loc Location) (ProbeResult, error) {
	start := time.Now()
	samples, provider, err := s.fetch(ctx, loc)

	result := ProbeResult{
		Location:  loc,
		Timestamp: start.UTC(),
		Provider:  provider,
		Samples:   len(samples),
		Latency:   time.Since(start),
		OK:        err == nil,
	}
	if err != nil {
		result.Error = err.Error()
	}

	if s.store != nil {
		s.store.SaveProbe(loc, result)
	}
	return result, err
}

// LatestProbe delegates to the underlying store.
func (s *Service) LatestProbe(loc Location) (ProbeResult, error) {
	if s.store == nil {
		return ProbeResult{}, errors.New("probe store not configured")
	}
	return s.store.GetLatest(loc)
}

// ProbeHistory delegates to the underlying store.
func (s *Service) ProbeHistory(loc Location, from, to time.Time) ([]ProbeResult, error) {
	if s.store == nil {
		return nil, errors.New("probe store not configured")
	}
	return s.store.GetRange(loc, from, to)
}
