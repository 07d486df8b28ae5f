// Package geo models device location acquisition as an explicit task
// with a bounded deadline and three discrete outcomes, instead of
// exception-style control flow.
package geo

import (
	"context"
	"time"
)

// Coordinates is a device fix.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Place is a reverse-geocoded locality.
type Place struct {
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

// Outcome classifies how an acquisition attempt ended.
type Outcome string

const (
	OutcomeResolved Outcome = "resolved"
	OutcomeFailed   Outcome = "failed"
	OutcomeTimedOut Outcome = "timed_out"
)

// Result is the settled value of one acquisition attempt.
type Result struct {
	Outcome Outcome
	Coords  Coordinates
	Err     error
}

// Provider is the untrusted device location capability. Implementations
// may return a cached fix no older than maxAge.
type Provider interface {
	Locate(ctx context.Context, maxAge time.Duration) (Coordinates, error)
}

// Acquire runs a single acquisition attempt against the provider with a
// hard timeout. It never retries; the caller decides what a non-resolved
// outcome means (for the flow engine: the denied fallback path).
func Acquire(ctx context.Context, p Provider, timeout, maxAge time.Duration) Result {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type reply struct {
		coords Coordinates
		err    error
	}
	done := make(chan reply, 1)

	go func() {
		coords, err := p.Locate(ctx, maxAge)
		done <- reply{coords: coords, err: err}
	}()

	select {
	case <-ctx.Done():
		return Result{Outcome: OutcomeTimedOut, Err: ctx.Err()}
	case r := <-done:
		if r.err != nil {
			// A provider that honors ctx may surface the deadline itself.
			if ctx.Err() != nil {
				return Result{Outcome: OutcomeTimedOut, Err: r.err}
			}
			return Result{Outcome: OutcomeFailed, Err: r.err}
		}
		return Result{Outcome: OutcomeResolved, Coords: r.coords}
	}
}
