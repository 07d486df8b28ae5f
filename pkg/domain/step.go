package domain

import "strings"

// StepKind constants define how a step behaves when presented.
const (
	// StepMessage displays content and continues without input (soft step).
	StepMessage = "message"
	// StepChoice displays content and halts waiting for an option pick (hard step).
	StepChoice = "choice"
	// StepTextInput displays content and halts waiting for free-form text.
	StepTextInput = "text_input"
	// StepConsent displays disclosure text and halts until actively accepted.
	StepConsent = "consent"
	// StepLocationRequest asks permission to acquire the device location.
	StepLocationRequest = "location_request"
	// StepProcessing is a placeholder while external work happens (silent step).
	StepProcessing = "processing"
)

// StepComplete is the sentinel target meaning "flow finished".
// Terminal steps resolve to it; it is never a real step id.
const StepComplete = "__complete__"

// InputKind constants select which validator applies to a text_input step.
const (
	InputFreeText   = "free_text"
	InputEmail      = "email"
	InputDocument   = "document" // 11-digit national identity number
	InputYear       = "year"
	InputAge        = "age"
	InputCityRegion = "city_region" // "city, region" manual location entry
)

// Choice ids reserved by location_request steps.
const (
	ChoiceLocationAllow  = "allow"
	ChoiceLocationManual = "manual"
)

// Resolver computes a transition target from the merged answer record.
// It must be pure: same answers, same target.
type Resolver func(answers Answers) string

// Transition is a closed sum: either a fixed target id or a computed one.
// The zero value means "no further step" (terminal).
type Transition struct {
	// To is the fixed target. Ignored when Resolve is set.
	To string `json:"to,omitempty" yaml:"to,omitempty"`

	// Resolve, when non-nil, computes the target from the session record.
	Resolve Resolver `json:"-" yaml:"-"`

	// Candidates lists every id a Resolve function may return.
	// Declared so graph validation can check computed edges statically.
	Candidates []string `json:"candidates,omitempty" yaml:"candidates,omitempty"`
}

// GoTo builds a fixed transition.
func GoTo(stepID string) Transition {
	return Transition{To: stepID}
}

// ComputedBy builds a computed transition. Candidates must cover every
// id fn can return; validation treats them as declared edges.
func ComputedBy(fn Resolver, candidates ...string) Transition {
	return Transition{Resolve: fn, Candidates: candidates}
}

// IsZero reports whether the transition declares no target at all.
func (t Transition) IsZero() bool {
	return t.To == "" && t.Resolve == nil
}

// Target resolves the transition against the merged answer record.
// Computed wins over fixed; a zero transition yields StepComplete.
func (t Transition) Target(answers Answers) string {
	if t.Resolve != nil {
		if id := t.Resolve(answers); id != "" {
			return id
		}
		return StepComplete
	}
	if t.To != "" {
		return t.To
	}
	return StepComplete
}

// Choice is one selectable option of a choice or location_request step.
type Choice struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`

	// Value is what gets merged into the answer record when picked.
	// Defaults to the ID when nil.
	Value any `json:"value,omitempty" yaml:"value,omitempty"`

	// Next overrides the step transition when this choice is picked.
	// Option selection encodes user intent most specifically, so it
	// always wins over the step's own transition.
	Next string `json:"next,omitempty" yaml:"next,omitempty"`
}

// Step is one immutable node of a flow graph.
type Step struct {
	ID   string `json:"id" yaml:"id"`
	Kind string `json:"kind" yaml:"kind"`

	// Prompt is the presentation text. Placeholders like {{vehicle.brand}}
	// are substituted from the answer record at render time; an absent key
	// leaves the placeholder literally visible (fail soft).
	Prompt string `json:"prompt,omitempty" yaml:"prompt,omitempty"`

	// ConsentText is the disclosure the user must accept (consent steps).
	ConsentText string `json:"consent_text,omitempty" yaml:"consent_text,omitempty"`

	// Choices are the options of choice/location_request steps, in order.
	Choices []Choice `json:"choices,omitempty" yaml:"choices,omitempty"`

	// Input selects the validator for text_input steps.
	Input string `json:"input,omitempty" yaml:"input,omitempty"`

	// MinLength is the minimum trimmed length for free_text input.
	MinLength int `json:"min_length,omitempty" yaml:"min_length,omitempty"`

	// MinValue/MaxValue narrow the accepted range for age input.
	// Both zero means the validator default applies.
	MinValue int `json:"min_value,omitempty" yaml:"min_value,omitempty"`
	MaxValue int `json:"max_value,omitempty" yaml:"max_value,omitempty"`

	// SaveTo is a "topic.field" path the accepted answer is merged under.
	// A bare "topic" merges a map-shaped answer into the whole topic.
	SaveTo string `json:"save_to,omitempty" yaml:"save_to,omitempty"`

	// Next is the step transition. Per-choice Next takes precedence;
	// a zero Next marks the step terminal.
	Next Transition `json:"next,omitempty" yaml:"next,omitempty"`
}

// ChoiceByID returns the choice with the given id, matched case-insensitively.
func (s Step) ChoiceByID(id string) (Choice, bool) {
	for _, c := range s.Choices {
		if strings.EqualFold(c.ID, id) {
			return c, true
		}
	}
	return Choice{}, false
}

// WaitsForInput reports whether the step halts the flow until the user responds.
func (s Step) WaitsForInput() bool {
	switch s.Kind {
	case StepChoice, StepTextInput, StepConsent, StepLocationRequest:
		return true
	}
	return false
}
