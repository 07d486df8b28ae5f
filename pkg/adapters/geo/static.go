// Package geo provides in-process location adapters: a configurable
// device-fix stub and a static reverse geocoder. They back the CLI and
// tests; a real deployment plugs device and geocoding services in
// through the same interfaces.
package geo

import (
	"context"
	"errors"
	"time"

	"github.com/percursohq/percurso/pkg/geo"
)

// ErrUnavailable is the stub's failure mode.
var ErrUnavailable = errors.New("device location unavailable")

// StaticProvider returns one configured fix, optionally after a delay
// (to exercise the acquisition timeout) or always failing (to exercise
// the denied path).
type StaticProvider struct {
	Coords geo.Coordinates
	Delay  time.Duration
	Fail   bool
}

// Locate returns the configured fix. It honors context cancellation
// while delaying, like a real device callback would.
func (p *StaticProvider) Locate(ctx context.Context, maxAge time.Duration) (geo.Coordinates, error) {
	if p.Delay > 0 {
		select {
		case <-ctx.Done():
			return geo.Coordinates{}, ctx.Err()
		case <-time.After(p.Delay):
		}
	}
	if p.Fail {
		return geo.Coordinates{}, ErrUnavailable
	}
	return p.Coords, nil
}

// StaticGeocoder resolves every coordinate to one configured place.
type StaticGeocoder struct {
	Place geo.Place
	Err   error
}

// ReverseGeocode returns the configured place or error.
func (g *StaticGeocoder) ReverseGeocode(ctx context.Context, coords geo.Coordinates) (geo.Place, error) {
	if g.Err != nil {
		return geo.Place{}, g.Err
	}
	return g.Place, nil
}
