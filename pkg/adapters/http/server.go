// Package http exposes the flow engine as a small JSON API: one route
// to open a session, one to render the current prompt, one to submit
// an answer and one to settle a pending location acquisition. State
// lives in the session manager; the engine itself stays stateless.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/percursohq/percurso/internal/logging"
	"github.com/percursohq/percurso/pkg/domain"
	"github.com/percursohq/percurso/pkg/session"
	"github.com/percursohq/percurso/pkg/validate"
)

// Engine is the slice of the flow engine this adapter needs.
type Engine interface {
	Start(ctx context.Context, sessionID string) *domain.State
	Render(ctx context.Context, state *domain.State) (*domain.Prompt, error)
	Submit(ctx context.Context, state *domain.State, input string) (*domain.State, error)
	ResolveLocation(ctx context.Context, state *domain.State) (*domain.State, error)
}

// Server routes turn requests to per-flow engines.
type Server struct {
	engines  map[string]Engine
	sessions *session.Manager
	metrics  *Metrics
	logger   *slog.Logger
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewHandler builds the chi router over the given engines (keyed by
// flow name) and session manager.
func NewHandler(engines map[string]Engine, sessions *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		engines:  engines,
		sessions: sessions,
		metrics:  NewMetrics(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	r.Post("/flows/{flow}/sessions", s.createSession)
	r.Get("/sessions/{id}", s.getSession)
	r.Post("/sessions/{id}/answer", s.submitAnswer)
	r.Post("/sessions/{id}/location", s.resolveLocation)
	r.Delete("/sessions/{id}", s.deleteSession)
	return r
}

// answerRequest is the submit body.
type answerRequest struct {
	Input string `json:"input"`
}

// turnResponse is what every turn route returns: the session id, the
// prompt to present next and the run's progress flags.
type turnResponse struct {
	SessionID string         `json:"session_id"`
	Flow      string         `json:"flow"`
	Prompt    *domain.Prompt `json:"prompt"`
	Busy      bool           `json:"busy"`
	Completed bool           `json:"completed"`

	// Answers is only included once the flow is complete.
	Answers domain.Answers `json:"answers,omitempty"`
}

// errorResponse carries rejections and failures.
type errorResponse struct {
	Error     string `json:"error"`
	Rejection bool   `json:"rejection,omitempty"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	flowName := chi.URLParam(r, "flow")
	engine, ok := s.engines[flowName]
	if !ok {
		s.writeError(w, http.StatusNotFound, domain.ErrFlowNotFound)
		return
	}

	sessionID := uuid.NewString()
	state := engine.Start(r.Context(), sessionID)
	if err := s.sessions.Save(r.Context(), sessionID, state); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeTurn(w, r, http.StatusCreated, engine, state)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	state, engine, err := s.loadSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeLoadError(w, err)
		return
	}
	s.writeTurn(w, r, http.StatusOK, engine, state)
}

func (s *Server) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var body answerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	sessionID := chi.URLParam(r, "id")
	var (
		engine Engine
		next   *domain.State
	)
	// The whole turn runs under the session lock so a concurrent
	// trigger can't interleave mid-transition.
	err := s.sessions.WithLock(r.Context(), sessionID, func(ctx context.Context) error {
		state, err := s.sessions.Store().Load(ctx, sessionID)
		if err != nil {
			return err
		}
		engine = s.engines[state.Flow]
		if engine == nil {
			return domain.ErrFlowNotFound
		}

		next, err = engine.Submit(ctx, state, body.Input)
		if err != nil {
			if validate.IsRejection(err) {
				s.metrics.Rejections.WithLabelValues(state.Flow).Inc()
			}
			return err
		}

		s.metrics.Turns.WithLabelValues(state.Flow).Inc()
		if next.Completed {
			s.metrics.Completed.WithLabelValues(state.Flow).Inc()
		}
		return s.sessions.Store().Save(ctx, sessionID, next)
	})
	if err != nil {
		s.writeSubmitError(w, err)
		return
	}
	s.writeTurn(w, r, http.StatusOK, engine, next)
}

func (s *Server) resolveLocation(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	var (
		engine Engine
		next   *domain.State
	)
	err := s.sessions.WithLock(r.Context(), sessionID, func(ctx context.Context) error {
		state, err := s.sessions.Store().Load(ctx, sessionID)
		if err != nil {
			return err
		}
		engine = s.engines[state.Flow]
		if engine == nil {
			return domain.ErrFlowNotFound
		}

		next, err = engine.ResolveLocation(ctx, state)
		if err != nil {
			return err
		}
		s.metrics.Locations.WithLabelValues(state.Flow, string(next.Location)).Inc()
		return s.sessions.Store().Save(ctx, sessionID, next)
	})
	if err != nil {
		s.writeSubmitError(w, err)
		return
	}
	s.writeTurn(w, r, http.StatusOK, engine, next)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// loadSession fetches the state and matches it to its engine.
func (s *Server) loadSession(ctx context.Context, sessionID string) (*domain.State, Engine, error) {
	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	engine, ok := s.engines[state.Flow]
	if !ok {
		return nil, nil, domain.ErrFlowNotFound
	}
	return state, engine, nil
}

func (s *Server) writeTurn(w http.ResponseWriter, r *http.Request, status int, engine Engine, state *domain.State) {
	prompt, err := engine.Render(r.Context(), state)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	resp := turnResponse{
		SessionID: state.SessionID,
		Flow:      state.Flow,
		Prompt:    prompt,
		Busy:      state.Busy,
		Completed: state.Completed,
	}
	if state.Completed {
		resp.Answers = state.Answers
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) writeSubmitError(w http.ResponseWriter, err error) {
	switch {
	case validate.IsRejection(err):
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Rejection: true})
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrFlowNotFound):
		s.writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrBusy), errors.Is(err, domain.ErrFlowComplete),
		errors.Is(err, domain.ErrLocationNotPending):
		s.writeError(w, http.StatusConflict, err)
	default:
		s.writeError(w, http.StatusInternalServerError, err)
	}
}

func (s *Server) writeLoadError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrSessionNotFound) || errors.Is(err, domain.ErrFlowNotFound) {
		s.writeError(w, http.StatusNotFound, err)
		return
	}
	s.writeError(w, http.StatusInternalServerError, err)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
