// Package file loads flow graphs declared in YAML documents. Only
// fixed and per-choice transitions are expressible; computed resolvers
// are code and belong to graphs built with pkg/flow's Builder.
package file

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/percursohq/percurso/pkg/domain"
	"github.com/percursohq/percurso/pkg/flow"
)

// graphDoc mirrors the YAML layout of a flow definition.
type graphDoc struct {
	Name  string    `yaml:"name"`
	Start string    `yaml:"start"`
	Steps []stepDoc `yaml:"steps"`
}

type stepDoc struct {
	ID          string      `yaml:"id"`
	Kind        string      `yaml:"kind"`
	Prompt      string      `yaml:"prompt"`
	ConsentText string      `yaml:"consent_text"`
	Input       string      `yaml:"input"`
	MinLength   int         `yaml:"min_length"`
	MinValue    int         `yaml:"min_value"`
	MaxValue    int         `yaml:"max_value"`
	SaveTo      string      `yaml:"save_to"`
	Choices     []choiceDoc `yaml:"choices"`

	// Next is the static edge; empty marks the step terminal.
	Next string `yaml:"next"`
}

type choiceDoc struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Value any    `yaml:"value"`
	Next  string `yaml:"next"`
}

// Load reads and parses a flow definition from disk. The resulting
// graph is validated before being returned.
func Load(path string) (*flow.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read flow file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML flow definition and validates the graph.
func Parse(data []byte) (*flow.Graph, error) {
	var doc graphDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse flow yaml: %w", err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("flow definition is missing a name")
	}
	if doc.Start == "" {
		return nil, fmt.Errorf("flow %q is missing a start step", doc.Name)
	}

	steps := make([]domain.Step, 0, len(doc.Steps))
	for _, sd := range doc.Steps {
		steps = append(steps, mapStep(sd))
	}

	g := flow.New(doc.Name, doc.Start, steps...)
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func mapStep(sd stepDoc) domain.Step {
	step := domain.Step{
		ID:          sd.ID,
		Kind:        sd.Kind,
		Prompt:      sd.Prompt,
		ConsentText: sd.ConsentText,
		Input:       sd.Input,
		MinLength:   sd.MinLength,
		MinValue:    sd.MinValue,
		MaxValue:    sd.MaxValue,
		SaveTo:      sd.SaveTo,
	}
	if sd.Next != "" {
		step.Next = domain.GoTo(sd.Next)
	}
	for _, cd := range sd.Choices {
		step.Choices = append(step.Choices, domain.Choice{
			ID:    cd.ID,
			Label: cd.Label,
			Value: cd.Value,
			Next:  cd.Next,
		})
	}
	return step
}
