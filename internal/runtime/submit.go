package runtime

import (
	"context"
	"strconv"
	"strings"

	"github.com/percursohq/percurso/pkg/domain"
	"github.com/percursohq/percurso/pkg/validate"
)

// Submit processes one user turn: validate the raw response, and on
// acceptance fold it into a new state (merge answers, append the bot
// and user transcript entries, resolve the transition, advance).
//
// A validation rejection comes back as a *validate.Rejection error with
// the state untouched; the caller decides how to surface it. Consent
// withheld is not an error: the unchanged state is returned and the
// step simply stays unresolved.
func (e *Engine) Submit(ctx context.Context, state *domain.State, raw string) (*domain.State, error) {
	if state.Busy {
		return nil, domain.ErrBusy
	}
	if state.Completed {
		return nil, domain.ErrFlowComplete
	}

	step, err := e.currentStep(state)
	if err != nil {
		return nil, err
	}

	switch step.Kind {
	case domain.StepMessage, domain.StepProcessing:
		return e.acceptTurn(state, step, "", nil, "")

	case domain.StepTextInput:
		normalized, err := e.validatorFor(step)(raw)
		if err != nil {
			e.logger.Debug("input rejected", "session_id", state.SessionID, "step", step.ID, "err", err)
			return nil, err
		}
		return e.acceptTurn(state, step, raw, normalized, "")

	case domain.StepChoice:
		choice, ok := matchChoice(step, raw)
		if !ok {
			return nil, validate.Reject("please pick one of the listed options")
		}
		value := choice.Value
		if value == nil {
			value = choice.ID
		}
		return e.acceptTurn(state, step, raw, value, choice.Next)

	case domain.StepConsent:
		if !isAffirmative(raw) {
			// Withheld consent leaves the step unresolved; the engine
			// neither times out nor forces a rejection message.
			return state, nil
		}
		return e.acceptTurn(state, step, raw, true, "")

	case domain.StepLocationRequest:
		return e.submitLocationChoice(state, step, raw)
	}

	return nil, validate.Reject("this step does not accept input")
}

// acceptTurn builds the post-acceptance state: answers merged first so
// the transition resolver sees the just-accepted response, then the
// transcript entries, then the advance.
func (e *Engine) acceptTurn(state *domain.State, step domain.Step, raw string, value any, choiceNext string) (*domain.State, error) {
	next := state.Clone()

	if value != nil {
		mergeAnswer(next, step, value)
	}

	next.AppendTranscript(step.ID, domain.RoleBot, Interpolate(step.Prompt, next.Answers))
	if step.WaitsForInput() {
		next.AppendTranscript(step.ID, domain.RoleUser, strings.TrimSpace(raw))
	}

	e.advance(next, e.resolveNext(step, choiceNext, next.Answers))
	return next, nil
}

// resolveNext applies the transition precedence: a per-choice override
// wins over a computed resolver, which wins over the static edge. The
// per-choice edge always wins, even when a resolver exists on the same
// step, because option selection encodes user intent most specifically.
func (e *Engine) resolveNext(step domain.Step, choiceNext string, answers domain.Answers) string {
	if choiceNext != "" {
		return choiceNext
	}
	return step.Next.Target(answers)
}

// validatorFor maps a step's input kind to its validator.
func (e *Engine) validatorFor(step domain.Step) validate.Func {
	switch step.Input {
	case domain.InputEmail:
		return validate.Email()
	case domain.InputDocument:
		return validate.Document()
	case domain.InputYear:
		return validate.Year(e.now)
	case domain.InputAge:
		return validate.Age(step.MinValue, step.MaxValue)
	case domain.InputCityRegion:
		return validate.CityRegion()
	default:
		min := step.MinLength
		if min == 0 {
			min = 2
		}
		return validate.FreeText(min)
	}
}

// mergeAnswer writes the normalized value under the step's SaveTo path.
// A bare topic path merges a map-shaped value wholesale.
func mergeAnswer(state *domain.State, step domain.Step, value any) {
	if step.SaveTo == "" {
		return
	}
	topic, field, ok := strings.Cut(step.SaveTo, ".")
	if !ok {
		if patch, isMap := value.(map[string]any); isMap {
			state.MergeAnswers(topic, patch)
		}
		return
	}
	state.MergeAnswers(topic, map[string]any{field: value})
}

// matchChoice finds the picked option by id, label or 1-based position.
func matchChoice(step domain.Step, raw string) (domain.Choice, bool) {
	input := strings.TrimSpace(raw)
	if c, ok := step.ChoiceByID(input); ok {
		return c, true
	}
	for _, c := range step.Choices {
		if strings.EqualFold(c.Label, input) {
			return c, true
		}
	}
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(step.Choices) {
		return step.Choices[n-1], true
	}
	return domain.Choice{}, false
}

// isAffirmative reports whether the response actively accepts consent.
func isAffirmative(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "y", "yes", "true", "1", "accept", "i accept":
		return true
	}
	return false
}
