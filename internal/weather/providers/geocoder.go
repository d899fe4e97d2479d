package providers

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/kelvins/geocoder"
)

// Geocoder resolves a place name to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, name string) (lat, lon float64, err error)
}

var errGeocoderNotConfigured = errors.New("geocoder api key is not configured")

// GoogleGeocoder resolves names through the Google Geocoding API.
type GoogleGeocoder struct {
	configured bool
}

// NewGoogleGeocoder sets the package-wide geocoder key. An empty key yields a
// geocoder that always fails.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	if apiKey != "" {
		geocoder.ApiKey = apiKey
	}
	return &GoogleGeocoder{configured: apiKey != ""}
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, name string) (float64, float64, error) {
	if !g.configured {
		return 0, 0, errGeocoderNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	type result struct {
		loc geocoder.Location
		err error
	}
	ch := make(chan result, 1)
	go func() {
		// The library indexes into the result list without checking it
		// for statuses it does not recognise.
		defer func() {
			if r := recover(); r != nil {
				ch <- result{err: fmt.Errorf("unexpected geocoder response: %v", r)}
			}
		}()
		loc, err := geocoder.Geocoding(geocoder.Address{City: url.QueryEscape(name)})
		ch <- result{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		return 0, 0, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return 0, 0, fmt.Errorf("geocode %q: %w", name, r.err)
		}
		return r.loc.Latitude, r.loc.Longitude, nil
	}
}
