package percurso

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/percursohq/percurso/internal/logging"
	"github.com/percursohq/percurso/internal/runtime"
	"github.com/percursohq/percurso/pkg/domain"
	"github.com/percursohq/percurso/pkg/flow"
	"github.com/percursohq/percurso/pkg/geo"
	"github.com/percursohq/percurso/pkg/ports"
)

// Engine is the high-level entry point for the percurso library.
// It wraps the internal runtime and drives exactly one flow graph.
type Engine struct {
	runtime     *runtime.Engine
	graph       *flow.Graph
	logger      *slog.Logger
	runtimeOpts []runtime.EngineOption

	// Name is the flow this engine drives.
	Name string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLocationProvider injects the device location capability used by
// location_request steps. Without one, every acquisition fails into
// the manual-entry fallback.
func WithLocationProvider(p geo.Provider) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithLocationProvider(p))
	}
}

// WithGeocoder injects the reverse-geocoding collaborator.
func WithGeocoder(g ports.Geocoder) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithGeocoder(g))
	}
}

// WithLocationTimeout bounds a single location acquisition attempt
// (default 10s).
func WithLocationTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithLocationTimeout(d))
	}
}

// WithMaxCacheAge sets the tolerance for a cached device fix (default 60s).
func WithMaxCacheAge(d time.Duration) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithMaxCacheAge(d))
	}
}

// WithClock overrides the engine's time source. Tests pin it so the
// year validator has a stable upper bound.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.runtimeOpts = append(e.runtimeOpts, runtime.WithClock(now))
	}
}

// New initializes an Engine over a flow graph. The graph is validated
// here so a structural defect surfaces at construction, never mid-run.
func New(graph *flow.Graph, opts ...Option) (*Engine, error) {
	if graph == nil {
		return nil, fmt.Errorf("a flow graph is required")
	}
	if err := graph.Validate(); err != nil {
		return nil, err
	}

	eng := &Engine{
		graph: graph,
		Name:  graph.Name(),
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	eng.logger = eng.logger.With("flow", eng.Name)

	runtimeOpts := append([]runtime.EngineOption{
		runtime.WithLogger(eng.logger),
	}, eng.runtimeOpts...)

	eng.runtime = runtime.NewEngine(graph, runtimeOpts...)
	return eng, nil
}

// Start creates a fresh session state at the flow's start step.
// Starting over an existing session is an explicit reset: the old run
// is simply abandoned.
func (e *Engine) Start(ctx context.Context, sessionID string) *domain.State {
	return e.runtime.Start(ctx, sessionID)
}

// Render resolves the current step's presentation without advancing.
func (e *Engine) Render(ctx context.Context, state *domain.State) (*domain.Prompt, error) {
	return e.runtime.Render(ctx, state)
}

// Submit processes one user response. Rejections come back as a
// *validate.Rejection error with the state untouched.
func (e *Engine) Submit(ctx context.Context, state *domain.State, input string) (*domain.State, error) {
	return e.runtime.Submit(ctx, state, input)
}

// ResolveLocation settles a pending location acquisition.
func (e *Engine) ResolveLocation(ctx context.Context, state *domain.State) (*domain.State, error) {
	return e.runtime.ResolveLocation(ctx, state)
}

// Graph returns the graph the engine drives.
func (e *Engine) Graph() *flow.Graph {
	return e.graph
}
