package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/weather-sms/internal/weather"
)

// Prober checks upstream availability for one location.
type Prober interface {
	Probe(ctx context.Context, loc weather.Location) (weather.ProbeResult, error)
}

// Scheduler periodically probes the forecast upstream for configured locations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	prober    Prober
	locations []weather.Location
	interval  time.Duration
	timeout   time.Duration
	logger    *zap.Logger
}

// New creates a new Scheduler.
func New(locations []weather.Location, interval, timeout time.Duration, prober Prober, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		prober:    prober,
		locations: locations,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
// The first run happens immediately.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 || s.interval <= 0 {
		s.logger.Info("scheduler: no probe locations configured; nothing to schedule")
		return nil
	}

	if _, err := s.scheduler.Every(s.interval).Do(func() { s.RunOnce() }); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce probes every location concurrently and waits for all of them.
// It returns the number of failed probes.
func (s *Scheduler) RunOnce() int {
	s.logger.Debug("scheduler: running upstream probe job", zap.Int("locations", len(s.locations)))

	failed := make([]bool, len(s.locations))
	var g errgroup.Group
	for i, loc := range s.locations {
		i, loc := i, loc
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			defer cancel()

			res, err := s.prober.Probe(ctx, loc)
			if err != nil {
				failed[i] = true
				s.logger.Warn("scheduler: probe failed", zap.Stringer("location", loc), zap.Error(err))
				return nil
			}
			s.logger.Debug("scheduler: probe ok",
				zap.Stringer("location", loc),
				zap.String("provider", res.Provider),
				zap.Duration("latency", res.Latency))
			return nil
		})
	}
	_ = g.Wait()

	n := 0
	for _, f := range failed {
		if f {
			n++
		}
	}
	s.logger.Info("scheduler: completed upstream probe job",
		zap.Int("locations", len(s.locations)), zap.Int("failed", n))
	return n
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
