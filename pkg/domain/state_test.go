package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/percursohq/percurso/pkg/domain"
)

func TestNewState_Defaults(t *testing.T) {
	state := domain.NewState("s1", "vehicle-quote", "welcome")

	assert.Equal(t, "s1", state.SessionID)
	assert.Equal(t, "vehicle-quote", state.Flow)
	assert.Equal(t, "welcome", state.CurrentStepID)
	assert.Equal(t, domain.LocationUnrequested, state.Location)
	assert.False(t, state.Busy)
	assert.False(t, state.Completed)
	assert.Empty(t, state.Transcript)
	assert.Empty(t, state.Answers)
}

func TestAnswers_MergeAndGet(t *testing.T) {
	answers := make(domain.Answers)

	answers.Merge("identity", map[string]any{"name": "Maria"})
	answers.Merge("identity", map[string]any{"email": "maria@example.com"})

	v, ok := answers.Get("identity.name")
	require.True(t, ok)
	assert.Equal(t, "Maria", v)

	v, ok = answers.Get("identity.email")
	require.True(t, ok)
	assert.Equal(t, "maria@example.com", v)

	// Last write wins, other keys untouched.
	answers.Merge("identity", map[string]any{"name": "Ana"})
	v, _ = answers.Get("identity.name")
	assert.Equal(t, "Ana", v)
	_, ok = answers.Get("identity.email")
	assert.True(t, ok)
}

func TestAnswers_GetMissing(t *testing.T) {
	answers := domain.Answers{"identity": {"name": "Maria"}}

	_, ok := answers.Get("identity.age")
	assert.False(t, ok)

	_, ok = answers.Get("vehicle.brand")
	assert.False(t, ok)

	// A bare topic is not a valid path.
	_, ok = answers.Get("identity")
	assert.False(t, ok)
}

func TestAnswers_CloneIsolation(t *testing.T) {
	original := domain.Answers{"identity": {"name": "Maria"}}
	clone := original.Clone()

	clone.Merge("identity", map[string]any{"name": "Ana"})
	clone.Merge("vehicle", map[string]any{"brand": "fiat"})

	v, _ := original.Get("identity.name")
	assert.Equal(t, "Maria", v)
	_, ok := original.Get("vehicle.brand")
	assert.False(t, ok)
}

func TestState_AppendTranscriptSequence(t *testing.T) {
	state := domain.NewState("s1", "f", "start")

	state.AppendTranscript("start", domain.RoleBot, "hi")
	state.AppendTranscript("start", domain.RoleUser, "hello")
	state.AppendTranscript("next", domain.RoleBot, "ok")

	require.Len(t, state.Transcript, 3)
	for i, entry := range state.Transcript {
		assert.Equal(t, i, entry.Sequence)
	}
	assert.Equal(t, domain.RoleUser, state.Transcript[1].Role)
}

func TestState_ResetIsIdempotent(t *testing.T) {
	state := domain.NewState("s1", "f", "start")
	state.MergeAnswers("identity", map[string]any{"name": "Maria"})
	state.AppendTranscript("start", domain.RoleBot, "hi")
	state.Location = domain.LocationGranted
	state.SetBusy(true)
	state.Completed = true

	state.Reset("start")
	first := state.Clone()
	state.Reset("start")

	assert.Equal(t, first, state)
	assert.Empty(t, state.Answers)
	assert.Empty(t, state.Transcript)
	assert.Equal(t, domain.LocationUnrequested, state.Location)
	assert.False(t, state.Busy)
	assert.False(t, state.Completed)
}

func TestState_CloneIsolation(t *testing.T) {
	state := domain.NewState("s1", "f", "start")
	state.MergeAnswers("identity", map[string]any{"name": "Maria"})
	state.AppendTranscript("start", domain.RoleBot, "hi")

	clone := state.Clone()
	clone.MergeAnswers("identity", map[string]any{"name": "Ana"})
	clone.AppendTranscript("start", domain.RoleUser, "hello")
	clone.CurrentStepID = "elsewhere"

	v, _ := state.Answers.Get("identity.name")
	assert.Equal(t, "Maria", v)
	assert.Len(t, state.Transcript, 1)
	assert.Equal(t, "start", state.CurrentStepID)
}

func TestState_CloneNil(t *testing.T) {
	var state *domain.State
	assert.Nil(t, state.Clone())
}
