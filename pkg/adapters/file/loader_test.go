package file_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/percursohq/percurso/pkg/adapters/file"
	"github.com/percursohq/percurso/pkg/domain"
)

const petFlow = `
name: pet-quote
start: welcome
steps:
  - id: welcome
    kind: message
    prompt: "Hi! Let's quote a plan for your pet."
    next: ask-name
  - id: ask-name
    kind: text_input
    prompt: "What's your pet's name?"
    input: free_text
    min_length: 2
    save_to: pet.name
    next: species
  - id: species
    kind: choice
    prompt: "Dog or cat?"
    save_to: pet.species
    choices:
      - id: dog
        label: Dog
      - id: cat
        label: Cat
      - id: other
        label: Something else
        next: not-covered
    next: summary
  - id: not-covered
    kind: message
    prompt: "We only cover dogs and cats for now, sorry!"
  - id: summary
    kind: message
    prompt: "All set for {{pet.name}}!"
`

func TestParse(t *testing.T) {
	g, err := file.Parse([]byte(petFlow))
	require.NoError(t, err)

	assert.Equal(t, "pet-quote", g.Name())
	assert.Equal(t, "welcome", g.Start())
	assert.Equal(t, 5, g.Len())

	step, ok := g.Step("ask-name")
	require.True(t, ok)
	assert.Equal(t, domain.StepTextInput, step.Kind)
	assert.Equal(t, 2, step.MinLength)
	assert.Equal(t, "pet.name", step.SaveTo)
	assert.Equal(t, "species", step.Next.To)

	species, _ := g.Step("species")
	require.Len(t, species.Choices, 3)
	assert.Equal(t, "not-covered", species.Choices[2].Next)

	// An absent next marks the step terminal.
	terminal, _ := g.Step("summary")
	assert.True(t, terminal.Next.IsZero())
}

func TestParse_RejectsInvalidGraph(t *testing.T) {
	_, err := file.Parse([]byte(`
name: broken
start: welcome
steps:
  - id: welcome
    kind: message
    next: nowhere
`))
	assert.Error(t, err)
}

func TestParse_RequiresNameAndStart(t *testing.T) {
	_, err := file.Parse([]byte("start: welcome\nsteps: []\n"))
	assert.ErrorContains(t, err, "missing a name")

	_, err = file.Parse([]byte("name: x\nsteps: []\n"))
	assert.ErrorContains(t, err, "missing a start step")
}

func TestParse_RejectsMalformedYAML(t *testing.T) {
	_, err := file.Parse([]byte("{not yaml"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(petFlow), 0o644))

	g, err := file.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "pet-quote", g.Name())

	_, err = file.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
