package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-sms/internal/weather"
)

type fakeProber struct {
	mu    sync.Mutex
	calls []weather.Location
	fail  map[string]bool
}

func (p *fakeProber) Probe(ctx context.Context, loc weather.Location) (weather.ProbeResult, error) {
	p.mu.Lock()
	p.calls = append(p.calls, loc)
	p.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		return weather.ProbeResult{}, errors.New("probe without deadline")
	}
	if p.fail[loc.Key()] {
		return weather.ProbeResult{Location: loc}, errors.New("upstream down")
	}
	return weather.ProbeResult{Location: loc, OK: true, Provider: "fake"}, nil
}

func (p *fakeProber) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func TestRunOnceProbesEveryLocation(t *testing.T) {
	prober := &fakeProber{fail: map[string]bool{"Atlantis": true}}
	locs := []weather.Location{
		weather.ByName("Denver"),
		weather.ByName("Atlantis"),
		weather.ByCoordinates(39.3, -106.1),
	}
	s := New(locs, time.Hour, time.Second, prober, nil)

	failed := s.RunOnce()
	assert.Equal(t, 1, failed)
	assert.ElementsMatch(t, locs, prober.calls)
}

func TestStartWithoutLocationsIsNoop(t *testing.T) {
	prober := &fakeProber{}
	s := New(nil, time.Minute, time.Second, prober, nil)
	require.NoError(t, s.Start())
	s.Stop()
	assert.Zero(t, prober.count())
}

func TestStartRunsImmediately(t *testing.T) {
	prober := &fakeProber{}
	s := New([]weather.Location{weather.ByName("Denver")}, time.Hour, time.Second, prober, nil)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool { return prober.count() >= 1 }, 2*time.Second, 10*time.Millisecond)
}
