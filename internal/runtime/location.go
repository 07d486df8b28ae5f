package runtime

import (
	"context"
	"errors"
	"strings"

	"github.com/percursohq/percurso/pkg/domain"
	"github.com/percursohq/percurso/pkg/geo"
	"github.com/percursohq/percurso/pkg/validate"
)

// errNoProvider is the acquisition failure used when no device
// capability was configured at all.
var errNoProvider = errors.New("no location provider configured")

// submitLocationChoice handles the two options of a location_request
// step. "allow" arms the one-shot acquisition (permission goes pending,
// the flow goes busy, no advance yet); "manual" skips acquisition and
// jumps straight to the manual-entry step.
func (e *Engine) submitLocationChoice(state *domain.State, step domain.Step, raw string) (*domain.State, error) {
	choice, ok := matchChoice(step, raw)
	if !ok {
		return nil, validate.Reject("please pick one of the listed options")
	}

	next := state.Clone()
	next.AppendTranscript(step.ID, domain.RoleBot, Interpolate(step.Prompt, next.Answers))
	next.AppendTranscript(step.ID, domain.RoleUser, strings.TrimSpace(raw))

	switch choice.ID {
	case domain.ChoiceLocationAllow:
		next.Location = domain.LocationPending
		next.SetBusy(true)
		e.logger.Debug("location acquisition armed", "session_id", state.SessionID, "step", step.ID)
		return next, nil

	case domain.ChoiceLocationManual:
		e.advance(next, choice.Next)
		return next, nil
	}

	return nil, validate.Reject("please pick one of the listed options")
}

// ResolveLocation settles a pending acquisition. It runs the provider
// under the engine's hard timeout and folds the outcome into the state:
//
//   - Resolved: reverse-geocode, merge into answers.location, permission
//     becomes granted, advance along the step's success edge.
//   - Failed or TimedOut (or geocoding failure): permission becomes
//     denied and the flow is redirected to the manual-entry step
//     regardless of any graph-declared edge. The override is fixed
//     policy, surfaced to the user only as a changed question.
//
// The attempt is one-shot per run; it is never retried automatically.
func (e *Engine) ResolveLocation(ctx context.Context, state *domain.State) (*domain.State, error) {
	if state.Location != domain.LocationPending {
		return nil, domain.ErrLocationNotPending
	}

	step, err := e.currentStep(state)
	if err != nil {
		return nil, err
	}

	next := state.Clone()
	next.SetBusy(false)

	result := e.acquire(ctx)
	if result.Outcome != geo.OutcomeResolved {
		e.logger.Info("location acquisition did not resolve",
			"session_id", state.SessionID, "outcome", result.Outcome, "err", result.Err)
		return e.denyLocation(next, step)
	}

	place, err := e.geocoder.ReverseGeocode(ctx, result.Coords)
	if err != nil {
		e.logger.Info("reverse geocoding failed", "session_id", state.SessionID, "err", err)
		return e.denyLocation(next, step)
	}

	next.Location = domain.LocationGranted
	next.MergeAnswers("location", map[string]any{
		"city":      place.City,
		"region":    place.Region,
		"country":   place.Country,
		"latitude":  result.Coords.Latitude,
		"longitude": result.Coords.Longitude,
	})
	e.advance(next, step.Next.Target(next.Answers))
	return next, nil
}

// acquire runs the bounded attempt, degrading to a failure when no
// provider or geocoder is wired.
func (e *Engine) acquire(ctx context.Context) geo.Result {
	if e.provider == nil || e.geocoder == nil {
		return geo.Result{Outcome: geo.OutcomeFailed, Err: errNoProvider}
	}
	return geo.Acquire(ctx, e.provider, e.timeout, e.maxCacheAge)
}

// denyLocation applies the fixed fallback: denied permission and an
// unconditional redirect to the step's manual-entry target.
func (e *Engine) denyLocation(state *domain.State, step domain.Step) (*domain.State, error) {
	manual, ok := step.ChoiceByID(domain.ChoiceLocationManual)
	if !ok {
		// Graph validation guarantees the choice; reaching this means a
		// hand-built graph skipped Validate.
		return nil, errors.New("location step has no manual-entry choice")
	}
	state.Location = domain.LocationDenied
	e.advance(state, manual.Next)
	return state, nil
}
