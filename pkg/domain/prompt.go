package domain

// Prompt is what the engine hands the presentation layer each turn:
// the current step's resolved text, its kind and, for option-bearing
// steps, the ordered choices. Rendering visuals is the caller's business.
type Prompt struct {
	StepID      string   `json:"step_id"`
	Kind        string   `json:"kind"`
	Text        string   `json:"text"`
	ConsentText string   `json:"consent_text,omitempty"`
	Choices     []Choice `json:"choices,omitempty"`

	// Busy is true while a location acquisition is in flight; no other
	// step may be presented until it settles.
	Busy bool `json:"busy,omitempty"`

	// Terminal is true once the flow reached the complete sentinel.
	Terminal bool `json:"terminal,omitempty"`
}
