package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/percursohq/percurso/internal/logging"
	"github.com/percursohq/percurso/pkg/domain"
	"github.com/percursohq/percurso/pkg/flow"
	"github.com/percursohq/percurso/pkg/geo"
	"github.com/percursohq/percurso/pkg/ports"
)

// Default bounds for a location acquisition attempt.
const (
	DefaultLocationTimeout = 10 * time.Second
	DefaultMaxCacheAge     = 60 * time.Second
)

// Engine drives one flow graph: it presents steps, validates input,
// folds accepted answers into the session state and resolves the next
// step. It holds no per-run state; every method takes the state value
// and returns a new one.
type Engine struct {
	graph       *flow.Graph
	provider    geo.Provider
	geocoder    ports.Geocoder
	timeout     time.Duration
	maxCacheAge time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

// EngineOption configures the engine.
type EngineOption func(*Engine)

// WithLocationProvider sets the device location capability.
func WithLocationProvider(p geo.Provider) EngineOption {
	return func(e *Engine) { e.provider = p }
}

// WithGeocoder sets the reverse geocoding collaborator.
func WithGeocoder(g ports.Geocoder) EngineOption {
	return func(e *Engine) { e.geocoder = g }
}

// WithLocationTimeout bounds a single acquisition attempt.
func WithLocationTimeout(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithMaxCacheAge sets the tolerance for a recently-cached device fix.
func WithMaxCacheAge(d time.Duration) EngineOption {
	return func(e *Engine) {
		if d > 0 {
			e.maxCacheAge = d
		}
	}
}

// WithClock overrides the time source (the year validator depends on it).
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine over a validated graph.
func NewEngine(graph *flow.Graph, opts ...EngineOption) *Engine {
	e := &Engine{
		graph:       graph,
		timeout:     DefaultLocationTimeout,
		maxCacheAge: DefaultMaxCacheAge,
		now:         time.Now,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("flow", graph.Name())
	return e
}

// Graph returns the graph the engine drives.
func (e *Engine) Graph() *flow.Graph { return e.graph }

// Start creates a fresh session state at the graph's start step,
// discarding nothing because there is nothing yet: each run owns an
// independent state instance.
func (e *Engine) Start(ctx context.Context, sessionID string) *domain.State {
	e.logger.Debug("flow started", "session_id", sessionID, "start", e.graph.Start())
	return domain.NewState(sessionID, e.graph.Name(), e.graph.Start())
}

// Render resolves the current step's presentation without advancing.
// Placeholder substitution is fail soft: an unresolved placeholder
// stays literally visible so a missing upstream answer never blocks
// rendering.
func (e *Engine) Render(ctx context.Context, state *domain.State) (*domain.Prompt, error) {
	if state.Completed {
		return &domain.Prompt{StepID: domain.StepComplete, Terminal: true}, nil
	}

	step, ok := e.graph.Step(state.CurrentStepID)
	if !ok {
		return nil, fmt.Errorf("step %q not found in flow %q", state.CurrentStepID, e.graph.Name())
	}

	return &domain.Prompt{
		StepID:      step.ID,
		Kind:        step.Kind,
		Text:        Interpolate(step.Prompt, state.Answers),
		ConsentText: Interpolate(step.ConsentText, state.Answers),
		Choices:     step.Choices,
		Busy:        state.Busy,
	}, nil
}

// currentStep loads the state's step or fails with a wrapped error.
func (e *Engine) currentStep(state *domain.State) (domain.Step, error) {
	step, ok := e.graph.Step(state.CurrentStepID)
	if !ok {
		return domain.Step{}, fmt.Errorf("step %q not found in flow %q", state.CurrentStepID, e.graph.Name())
	}
	return step, nil
}

// advance moves the state to target, flipping Completed when the
// terminal sentinel is reached.
func (e *Engine) advance(state *domain.State, target string) {
	state.CurrentStepID = target
	if target == domain.StepComplete {
		state.Completed = true
		e.logger.Debug("flow complete", "session_id", state.SessionID)
	}
}
