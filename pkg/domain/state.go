package domain

import "strings"

// LocationPermission tracks the one-shot acquisition state machine:
// unrequested -> pending -> (granted | denied).
type LocationPermission string

const (
	LocationUnrequested LocationPermission = "unrequested"
	LocationPending     LocationPermission = "pending"
	LocationGranted     LocationPermission = "granted"
	LocationDenied      LocationPermission = "denied"
)

// Role identifies who produced a transcript entry.
type Role string

const (
	RoleBot  Role = "bot"
	RoleUser Role = "user"
)

// Entry is one transcript line. The transcript is append-only audit
// data; the transition resolver never reads it.
type Entry struct {
	StepID   string `json:"step_id"`
	Role     Role   `json:"role"`
	Text     string `json:"text"`
	Sequence int    `json:"sequence"`
}

// Answers is the topic-partitioned answer record, e.g.
// {"identity": {"name": "Maria"}, "vehicle": {"brand": "fiat"}}.
type Answers map[string]map[string]any

// Get looks up a "topic.field" path. Last write wins, so it reads
// whatever the most recent merge put there.
func (a Answers) Get(path string) (any, bool) {
	topic, field, ok := strings.Cut(path, ".")
	if !ok {
		return nil, false
	}
	fields, ok := a[topic]
	if !ok {
		return nil, false
	}
	v, ok := fields[field]
	return v, ok
}

// Merge shallow-merges a patch into a topic. Last write per leaf key
// wins; keys absent from the patch are never deleted.
func (a Answers) Merge(topic string, patch map[string]any) {
	fields, ok := a[topic]
	if !ok {
		fields = make(map[string]any, len(patch))
		a[topic] = fields
	}
	for k, v := range patch {
		fields[k] = v
	}
}

// Clone returns a deep copy of the record (topics and fields).
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for topic, fields := range a {
		cp := make(map[string]any, len(fields))
		for k, v := range fields {
			cp[k] = v
		}
		out[topic] = cp
	}
	return out
}

// State is the run-scoped session accumulator. It is an explicit value
// owned by one flow run: the engine returns fresh copies instead of
// mutating shared storage, so transitions stay deterministic and replayable.
type State struct {
	SessionID     string             `json:"session_id"`
	Flow          string             `json:"flow"`
	CurrentStepID string             `json:"current_step_id"`
	Answers       Answers            `json:"answers"`
	Transcript    []Entry            `json:"transcript"`
	Location      LocationPermission `json:"location_permission"`
	Busy          bool               `json:"busy"`
	Completed     bool               `json:"completed"`
}

// NewState creates a fresh state positioned at the flow's start step.
func NewState(sessionID, flow, startStepID string) *State {
	s := &State{SessionID: sessionID, Flow: flow}
	s.Reset(startStepID)
	return s
}

// Reset discards all answers and transcript and returns the run to the
// given start step. Calling it mid-flow abandons the run; calling it
// twice in a row is equivalent to calling it once.
func (s *State) Reset(startStepID string) {
	s.CurrentStepID = startStepID
	s.Answers = make(Answers)
	s.Transcript = nil
	s.Location = LocationUnrequested
	s.Busy = false
	s.Completed = false
}

// MergeAnswers shallow-merges a topic-scoped patch into the record.
func (s *State) MergeAnswers(topic string, patch map[string]any) {
	s.Answers.Merge(topic, patch)
}

// AppendTranscript appends an entry, deriving Sequence from the current
// transcript length so ordering is monotonically increasing.
func (s *State) AppendTranscript(stepID string, role Role, text string) {
	s.Transcript = append(s.Transcript, Entry{
		StepID:   stepID,
		Role:     role,
		Text:     text,
		Sequence: len(s.Transcript),
	})
}

// SetBusy toggles the in-flight flag around processing steps and
// location acquisition.
func (s *State) SetBusy(busy bool) {
	s.Busy = busy
}

// Clone returns a copy safe for independent mutation. The transcript
// slice is copied; answers are deep-copied.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	next := *s
	next.Answers = s.Answers.Clone()
	next.Transcript = make([]Entry, len(s.Transcript))
	copy(next.Transcript, s.Transcript)
	return &next
}
