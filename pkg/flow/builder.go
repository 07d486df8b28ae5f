package flow

import "github.com/percursohq/percurso/pkg/domain"

// Builder assembles a graph with a fluent API. Build validates the
// result, so a graph coming out of a builder always satisfies the
// structural invariants.
type Builder struct {
	name  string
	start string
	order []string
	steps map[string]*StepBuilder
}

// NewBuilder creates a builder for a named flow starting at startID.
func NewBuilder(name, startID string) *Builder {
	return &Builder{
		name:  name,
		start: startID,
		steps: make(map[string]*StepBuilder),
	}
}

// Step creates (or returns) the builder for a step id.
func (b *Builder) Step(id string) *StepBuilder {
	if sb, ok := b.steps[id]; ok {
		return sb
	}
	sb := &StepBuilder{step: domain.Step{ID: id}}
	b.steps[id] = sb
	b.order = append(b.order, id)
	return sb
}

// Build compiles and validates the graph.
func (b *Builder) Build() (*Graph, error) {
	steps := make([]domain.Step, 0, len(b.order))
	for _, id := range b.order {
		steps = append(steps, b.steps[id].step)
	}
	g := New(b.name, b.start, steps...)
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// MustBuild builds the graph and panics on structural problems.
// Intended for graphs declared at package init, where a defect is a
// programming error.
func (b *Builder) MustBuild() *Graph {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}

// StepBuilder configures a single step.
type StepBuilder struct {
	step domain.Step
}

// Say marks the step as a message and sets its prompt.
func (s *StepBuilder) Say(prompt string) *StepBuilder {
	s.step.Kind = domain.StepMessage
	s.step.Prompt = prompt
	return s
}

// Ask marks the step as a text input and sets its prompt.
func (s *StepBuilder) Ask(prompt string) *StepBuilder {
	s.step.Kind = domain.StepTextInput
	s.step.Prompt = prompt
	return s
}

// Choose marks the step as a choice and sets its prompt and options.
func (s *StepBuilder) Choose(prompt string, choices ...domain.Choice) *StepBuilder {
	s.step.Kind = domain.StepChoice
	s.step.Prompt = prompt
	s.step.Choices = choices
	return s
}

// Consent marks the step as a consent gate with the given disclosure.
func (s *StepBuilder) Consent(prompt, disclosure string) *StepBuilder {
	s.step.Kind = domain.StepConsent
	s.step.Prompt = prompt
	s.step.ConsentText = disclosure
	return s
}

// Processing marks the step as a processing placeholder.
func (s *StepBuilder) Processing(prompt string) *StepBuilder {
	s.step.Kind = domain.StepProcessing
	s.step.Prompt = prompt
	return s
}

// Location marks the step as a location request. successID is the edge
// taken after a granted acquisition; manualID is the manual-entry step
// used both for the explicit "enter manually" choice and as the fixed
// fallback on failure or timeout.
func (s *StepBuilder) Location(prompt, successID, manualID string) *StepBuilder {
	s.step.Kind = domain.StepLocationRequest
	s.step.Prompt = prompt
	s.step.Choices = []domain.Choice{
		{ID: domain.ChoiceLocationAllow, Label: "Share my location"},
		{ID: domain.ChoiceLocationManual, Label: "Enter it manually", Next: manualID},
	}
	s.step.Next = domain.GoTo(successID)
	return s
}

// Input selects the validator kind for a text input step.
func (s *StepBuilder) Input(kind string) *StepBuilder {
	s.step.Input = kind
	return s
}

// MinLen sets the minimum trimmed length for free text input.
func (s *StepBuilder) MinLen(n int) *StepBuilder {
	s.step.MinLength = n
	return s
}

// Bounds narrows the accepted numeric range (age input).
func (s *StepBuilder) Bounds(min, max int) *StepBuilder {
	s.step.MinValue = min
	s.step.MaxValue = max
	return s
}

// SaveTo sets the "topic.field" path the accepted answer merges under.
func (s *StepBuilder) SaveTo(path string) *StepBuilder {
	s.step.SaveTo = path
	return s
}

// Go adds a fixed transition to the target step.
func (s *StepBuilder) Go(target string) *StepBuilder {
	s.step.Next = domain.GoTo(target)
	return s
}

// GoBy adds a computed transition. Candidates must cover every id the
// resolver can return.
func (s *StepBuilder) GoBy(fn domain.Resolver, candidates ...string) *StepBuilder {
	s.step.Next = domain.ComputedBy(fn, candidates...)
	return s
}

// Terminal marks the step as the end of the flow.
func (s *StepBuilder) Terminal() *StepBuilder {
	s.step.Next = domain.Transition{}
	return s
}

// Build returns the underlying domain.Step.
func (s *StepBuilder) Build() domain.Step {
	return s.step
}
