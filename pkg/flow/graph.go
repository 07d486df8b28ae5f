package flow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/percursohq/percurso/pkg/domain"
)

// Graph is a named, static step graph with one designated start step.
// It is immutable after construction; the engine assumes structural
// validity and Validate exists so tests can verify it per instance.
type Graph struct {
	name  string
	start string
	steps map[string]domain.Step
}

// New assembles a graph from steps. It does not validate; call Validate
// (or build through the Builder, which does) before handing the graph
// to an engine.
func New(name, start string, steps ...domain.Step) *Graph {
	g := &Graph{
		name:  name,
		start: start,
		steps: make(map[string]domain.Step, len(steps)),
	}
	for _, s := range steps {
		g.steps[s.ID] = s
	}
	return g
}

// Name returns the flow name (e.g. "vehicle-quote").
func (g *Graph) Name() string { return g.name }

// Start returns the designated start step id.
func (g *Graph) Start() string { return g.start }

// Step returns the step with the given id.
func (g *Graph) Step(id string) (domain.Step, bool) {
	s, ok := g.steps[id]
	return s, ok
}

// Steps returns all steps in deterministic (id) order.
func (g *Graph) Steps() []domain.Step {
	ids := make([]string, 0, len(g.steps))
	for id := range g.steps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]domain.Step, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.steps[id])
	}
	return out
}

// Len returns the number of steps.
func (g *Graph) Len() int { return len(g.steps) }

// ValidationError aggregates every structural problem found in a graph.
// A graph with problems is a programming error, not a runtime condition.
type ValidationError struct {
	Graph    string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("flow %q has %d structural problems:\n- %s",
		e.Graph, len(e.Problems), strings.Join(e.Problems, "\n- "))
}

// Validate checks the construction-time structural invariants:
// the start step exists, every declared edge (fixed, computed candidate
// or per-choice) targets an existing step or the terminal sentinel,
// location steps carry both the allow and manual choices, and every
// step is reachable from the start.
func (g *Graph) Validate() error {
	var problems []string
	report := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if _, ok := g.steps[g.start]; !ok {
		report("start step %q not found", g.start)
	}

	checkEdge := func(from, to, kind string) {
		if to == domain.StepComplete {
			return
		}
		if _, ok := g.steps[to]; !ok {
			report("step %q: %s edge targets missing step %q", from, kind, to)
		}
	}

	for _, s := range g.Steps() {
		switch s.Kind {
		case domain.StepMessage, domain.StepChoice, domain.StepTextInput,
			domain.StepConsent, domain.StepLocationRequest, domain.StepProcessing:
		default:
			report("step %q: unknown kind %q", s.ID, s.Kind)
		}

		if s.Next.To != "" {
			checkEdge(s.ID, s.Next.To, "fixed")
		}
		if s.Next.Resolve != nil && len(s.Next.Candidates) == 0 {
			report("step %q: computed transition declares no candidates", s.ID)
		}
		for _, c := range s.Next.Candidates {
			checkEdge(s.ID, c, "computed")
		}
		for _, c := range s.Choices {
			if c.Next != "" {
				checkEdge(s.ID, c.Next, "choice")
			}
		}

		switch s.Kind {
		case domain.StepChoice:
			if len(s.Choices) == 0 {
				report("step %q: choice step has no choices", s.ID)
			}
		case domain.StepLocationRequest:
			if _, ok := s.ChoiceByID(domain.ChoiceLocationAllow); !ok {
				report("step %q: location step missing %q choice", s.ID, domain.ChoiceLocationAllow)
			}
			manual, ok := s.ChoiceByID(domain.ChoiceLocationManual)
			if !ok {
				report("step %q: location step missing %q choice", s.ID, domain.ChoiceLocationManual)
			} else if manual.Next == "" {
				report("step %q: manual choice must declare the manual-entry step", s.ID)
			}
			if s.Next.IsZero() {
				report("step %q: location step must declare a success edge", s.ID)
			}
		case domain.StepConsent:
			if s.ConsentText == "" {
				report("step %q: consent step has no consent text", s.ID)
			}
		}
	}

	for _, id := range g.unreachable() {
		report("step %q is unreachable from start", id)
	}

	if len(problems) > 0 {
		return &ValidationError{Graph: g.name, Problems: problems}
	}
	return nil
}

// unreachable crawls every declared edge from the start and returns the
// ids of steps the crawl never visits, in deterministic order.
func (g *Graph) unreachable() []string {
	visited := make(map[string]bool, len(g.steps))
	queue := []string{g.start}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] || id == domain.StepComplete {
			continue
		}
		visited[id] = true

		s, ok := g.steps[id]
		if !ok {
			continue
		}
		if s.Next.To != "" {
			queue = append(queue, s.Next.To)
		}
		queue = append(queue, s.Next.Candidates...)
		for _, c := range s.Choices {
			if c.Next != "" {
				queue = append(queue, c.Next)
			}
		}
	}

	var missing []string
	for _, s := range g.Steps() {
		if !visited[s.ID] {
			missing = append(missing, s.ID)
		}
	}
	return missing
}
