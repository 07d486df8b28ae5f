package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/percursohq/percurso/pkg/domain"
)

// RunStateStoreContract verifies that a StateStore implementation
// adheres to the interface contract. Adapter test suites call it
// against their concrete store.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewState(sessionID, "vehicle-quote", "welcome")
		state.MergeAnswers("identity", map[string]any{"name": "Maria Silva"})
		state.AppendTranscript("welcome", domain.RoleBot, "Hi!")

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.CurrentStepID, loaded.CurrentStepID)
		assert.Equal(t, state.Flow, loaded.Flow)
		assert.Equal(t, "Maria Silva", loaded.Answers["identity"]["name"])
		require.Len(t, loaded.Transcript, 1)
		assert.Equal(t, 0, loaded.Transcript[0].Sequence)
		assert.Equal(t, domain.LocationUnrequested, loaded.Location)
	})

	t.Run("Load Is Isolated", func(t *testing.T) {
		state := domain.NewState(sessionID, "vehicle-quote", "welcome")
		state.MergeAnswers("identity", map[string]any{"name": "original"})
		require.NoError(t, store.Save(ctx, sessionID, state))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.MergeAnswers("identity", map[string]any{"name": "mutated"})

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "original", again.Answers["identity"]["name"],
			"mutating a loaded state must not leak into the store")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState(sessionID, "vehicle-quote", "welcome"))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState(id1, "vehicle-quote", "welcome"))
		_ = store.Save(ctx, id2, domain.NewState(id2, "health-quote", "welcome"))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
