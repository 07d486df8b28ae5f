package ports

import (
	"context"

	"github.com/percursohq/percurso/pkg/domain"
)

// StateStore persists session state between turns, keyed by session ID.
// The engine only needs put/get semantics; the storage mechanism is the
// adapter's business.
type StateStore interface {
	// Save persists the state for a given session ID.
	Save(ctx context.Context, sessionID string, state *domain.State) error

	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.State, error)

	// Delete removes the state for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all stored sessions.
	List(ctx context.Context) ([]string, error)
}
