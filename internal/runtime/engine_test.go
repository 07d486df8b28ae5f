package runtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/percursohq/percurso/internal/runtime"
	"github.com/percursohq/percurso/pkg/domain"
	"github.com/percursohq/percurso/pkg/flow"
	"github.com/percursohq/percurso/pkg/validate"
)

// askFlow is the minimal collection graph: greet, one validated
// question, goodbye.
func askFlow(t *testing.T) *flow.Graph {
	t.Helper()
	b := flow.NewBuilder("ask", "hello")
	b.Step("hello").Say("Hi!").Go("ask-email")
	b.Step("ask-email").
		Ask("What's your e-mail?").
		Input(domain.InputEmail).
		SaveTo("identity.email").
		Go("bye")
	b.Step("bye").Say("Bye!").Terminal()
	return b.MustBuild()
}

func TestEngine_StartAndRender(t *testing.T) {
	engine := runtime.NewEngine(askFlow(t))
	ctx := context.Background()

	state := engine.Start(ctx, "s1")
	assert.Equal(t, "hello", state.CurrentStepID)
	assert.Equal(t, "ask", state.Flow)

	prompt, err := engine.Render(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, "hello", prompt.StepID)
	assert.Equal(t, domain.StepMessage, prompt.Kind)
	assert.Equal(t, "Hi!", prompt.Text)
	assert.False(t, prompt.Terminal)
}

func TestEngine_RenderDoesNotAdvance(t *testing.T) {
	engine := runtime.NewEngine(askFlow(t))
	ctx := context.Background()
	state := engine.Start(ctx, "s1")

	for i := 0; i < 3; i++ {
		_, err := engine.Render(ctx, state)
		require.NoError(t, err)
	}
	assert.Equal(t, "hello", state.CurrentStepID)
	assert.Empty(t, state.Transcript)
}

func TestEngine_SubmitMessageStepAdvances(t *testing.T) {
	engine := runtime.NewEngine(askFlow(t))
	ctx := context.Background()
	state := engine.Start(ctx, "s1")

	next, err := engine.Submit(ctx, state, "")
	require.NoError(t, err)
	assert.Equal(t, "ask-email", next.CurrentStepID)

	// Soft steps log only the bot line.
	require.Len(t, next.Transcript, 1)
	assert.Equal(t, domain.RoleBot, next.Transcript[0].Role)

	// The input state is untouched.
	assert.Equal(t, "hello", state.CurrentStepID)
}

func TestEngine_SubmitRejectionKeepsState(t *testing.T) {
	engine := runtime.NewEngine(askFlow(t))
	ctx := context.Background()
	state := engine.Start(ctx, "s1")
	state, err := engine.Submit(ctx, state, "")
	require.NoError(t, err)

	next, err := engine.Submit(ctx, state, "not-an-email")
	require.Error(t, err)
	assert.True(t, validate.IsRejection(err))
	assert.Nil(t, next)

	// Same step, no new transcript entries, no answers.
	assert.Equal(t, "ask-email", state.CurrentStepID)
	assert.Len(t, state.Transcript, 1)
	_, ok := state.Answers.Get("identity.email")
	assert.False(t, ok)
}

func TestEngine_SubmitAcceptMergesAndLogs(t *testing.T) {
	engine := runtime.NewEngine(askFlow(t))
	ctx := context.Background()
	state := engine.Start(ctx, "s1")
	state, _ = engine.Submit(ctx, state, "")

	next, err := engine.Submit(ctx, state, "  Maria@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "bye", next.CurrentStepID)

	v, ok := next.Answers.Get("identity.email")
	require.True(t, ok)
	assert.Equal(t, "maria@example.com", v)

	// One bot and one user entry for the accepted hard step.
	require.Len(t, next.Transcript, 3)
	assert.Equal(t, domain.RoleBot, next.Transcript[1].Role)
	assert.Equal(t, domain.RoleUser, next.Transcript[2].Role)
	assert.Equal(t, "Maria@Example.com", next.Transcript[2].Text)
}

func TestEngine_CompletionAndTerminalRender(t *testing.T) {
	engine := runtime.NewEngine(askFlow(t))
	ctx := context.Background()
	state := engine.Start(ctx, "s1")
	state, _ = engine.Submit(ctx, state, "")
	state, _ = engine.Submit(ctx, state, "maria@example.com")

	state, err := engine.Submit(ctx, state, "")
	require.NoError(t, err)
	assert.True(t, state.Completed)

	prompt, err := engine.Render(ctx, state)
	require.NoError(t, err)
	assert.True(t, prompt.Terminal)
	assert.Equal(t, domain.StepComplete, prompt.StepID)

	_, err = engine.Submit(ctx, state, "more")
	assert.ErrorIs(t, err, domain.ErrFlowComplete)
}

func TestEngine_SubmitWhileBusy(t *testing.T) {
	engine := runtime.NewEngine(askFlow(t))
	state := engine.Start(context.Background(), "s1")
	state.SetBusy(true)

	_, err := engine.Submit(context.Background(), state, "hi")
	assert.ErrorIs(t, err, domain.ErrBusy)
}

func TestEngine_ChoicePrecedenceOverComputed(t *testing.T) {
	// The step carries both a computed transition and a per-choice
	// override; picking the overriding option must win.
	b := flow.NewBuilder("prec", "pick")
	b.Step("pick").
		Choose("Pick one",
			domain.Choice{ID: "a", Label: "Plain"},
			domain.Choice{ID: "b", Label: "Override", Next: "special"},
		).
		SaveTo("test.pick").
		GoBy(func(domain.Answers) string { return "computed" }, "computed")
	b.Step("computed").Say("computed").Terminal()
	b.Step("special").Say("special").Terminal()
	graph := b.MustBuild()

	engine := runtime.NewEngine(graph)
	ctx := context.Background()

	state := engine.Start(ctx, "s1")
	next, err := engine.Submit(ctx, state, "b")
	require.NoError(t, err)
	assert.Equal(t, "special", next.CurrentStepID)

	state = engine.Start(ctx, "s2")
	next, err = engine.Submit(ctx, state, "a")
	require.NoError(t, err)
	assert.Equal(t, "computed", next.CurrentStepID)
}

func TestEngine_ChoiceMatching(t *testing.T) {
	b := flow.NewBuilder("match", "pick")
	b.Step("pick").
		Choose("Pick one",
			domain.Choice{ID: "yes", Label: "Yes, it's mine", Value: "owned"},
			domain.Choice{ID: "no", Label: "No"},
		).
		SaveTo("test.pick").
		Go("done")
	b.Step("done").Say("done").Terminal()
	engine := runtime.NewEngine(b.MustBuild())
	ctx := context.Background()

	cases := []struct {
		input string
		want  any
	}{
		{"yes", "owned"},     // by id, Value wins
		{"YES", "owned"},     // case-insensitive id
		{"no", "no"},         // nil Value defaults to the id
		{"Yes, it's mine", "owned"}, // by label
		{"2", "no"},          // 1-based position
	}
	for _, tc := range cases {
		state := engine.Start(ctx, "s")
		next, err := engine.Submit(ctx, state, tc.input)
		require.NoError(t, err, tc.input)
		v, _ := next.Answers.Get("test.pick")
		assert.Equal(t, tc.want, v, tc.input)
	}

	state := engine.Start(ctx, "s")
	_, err := engine.Submit(ctx, state, "maybe")
	assert.True(t, validate.IsRejection(err))

	_, err = engine.Submit(ctx, state, "3")
	assert.True(t, validate.IsRejection(err))
}

func TestEngine_ConsentWithheldIsNotAnError(t *testing.T) {
	b := flow.NewBuilder("consent", "gate")
	b.Step("gate").
		Consent("OK to proceed?", "We use your data for quoting only.").
		SaveTo("consent.accepted").
		Go("done")
	b.Step("done").Say("done").Terminal()
	engine := runtime.NewEngine(b.MustBuild())
	ctx := context.Background()

	state := engine.Start(ctx, "s1")
	next, err := engine.Submit(ctx, state, "no thanks")
	require.NoError(t, err)
	assert.Same(t, state, next)
	assert.Equal(t, "gate", next.CurrentStepID)
	assert.Empty(t, next.Transcript)

	next, err = engine.Submit(ctx, state, "I Accept")
	require.NoError(t, err)
	assert.Equal(t, "done", next.CurrentStepID)
	v, _ := next.Answers.Get("consent.accepted")
	assert.Equal(t, true, v)
}

func TestEngine_YearValidatorUsesClock(t *testing.T) {
	b := flow.NewBuilder("year", "ask-year")
	b.Step("ask-year").
		Ask("What year?").
		Input(domain.InputYear).
		SaveTo("vehicle.year").
		Go("done")
	b.Step("done").Say("done").Terminal()

	clock := func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }
	engine := runtime.NewEngine(b.MustBuild(), runtime.WithClock(clock))
	ctx := context.Background()

	state := engine.Start(ctx, "s1")
	next, err := engine.Submit(ctx, state, "2026")
	require.NoError(t, err)
	v, _ := next.Answers.Get("vehicle.year")
	assert.Equal(t, 2026, v)

	_, err = engine.Submit(ctx, state, "2027")
	assert.True(t, validate.IsRejection(err))
}

func TestEngine_MergeWholeTopic(t *testing.T) {
	// A bare-topic SaveTo merges map-shaped answers wholesale.
	b := flow.NewBuilder("city", "ask-city")
	b.Step("ask-city").
		Ask("Which city and region?").
		Input(domain.InputCityRegion).
		SaveTo("location").
		Go("done")
	b.Step("done").Say("done").Terminal()
	engine := runtime.NewEngine(b.MustBuild())

	state := engine.Start(context.Background(), "s1")
	next, err := engine.Submit(context.Background(), state, "Recife, PE")
	require.NoError(t, err)

	city, _ := next.Answers.Get("location.city")
	region, _ := next.Answers.Get("location.region")
	assert.Equal(t, "Recife", city)
	assert.Equal(t, "PE", region)
}
