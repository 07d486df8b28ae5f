package percurso

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/percursohq/percurso/pkg/domain"
	"github.com/percursohq/percurso/pkg/validate"
)

// Runner drives an Engine as a line-based conversation over the
// provided IO. It is the reference presentation layer: the CLI uses it
// directly and tests script it with buffers.
type Runner struct {
	Input  io.Reader
	Output io.Writer
}

// NewRunner creates a Runner. Input and Output must be set before Run
// (os.Stdin/os.Stdout for the CLI).
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes one flow run until its terminal step, EOF or "exit".
func (r *Runner) Run(ctx context.Context, engine *Engine, sessionID string) (*domain.State, error) {
	if r.Input == nil {
		return nil, fmt.Errorf("input reader must be set (use os.Stdin)")
	}
	if r.Output == nil {
		return nil, fmt.Errorf("output writer must be set (use os.Stdout)")
	}
	lines := bufio.NewReader(r.Input)

	state := engine.Start(ctx, sessionID)

	for {
		prompt, err := engine.Render(ctx, state)
		if err != nil {
			return state, fmt.Errorf("render error: %w", err)
		}
		if prompt.Terminal {
			return state, nil
		}

		r.display(prompt)

		// A pending acquisition is the only thing allowed to hold the
		// flow; settle it before presenting anything else.
		if prompt.Busy {
			state, err = engine.ResolveLocation(ctx, state)
			if err != nil {
				return state, fmt.Errorf("location error: %w", err)
			}
			continue
		}

		input := ""
		if stepWaits(prompt.Kind) {
			fmt.Fprint(r.Output, "> ")
			text, err := lines.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					return state, nil
				}
				return state, fmt.Errorf("input error: %w", err)
			}
			input = strings.TrimSpace(text)
			if input == "exit" || input == "quit" {
				fmt.Fprintln(r.Output, "Bye!")
				return state, nil
			}
		}

		next, err := engine.Submit(ctx, state, input)
		if err != nil {
			if validate.IsRejection(err) {
				fmt.Fprintln(r.Output, err.Error())
				continue
			}
			return state, fmt.Errorf("submit error: %w", err)
		}
		state = next
	}
}

// display writes the prompt text, disclosure and options.
func (r *Runner) display(prompt *domain.Prompt) {
	if prompt.Busy {
		fmt.Fprintln(r.Output, "Locating you...")
		return
	}
	if prompt.Text != "" {
		fmt.Fprintln(r.Output, prompt.Text)
	}
	if prompt.ConsentText != "" {
		fmt.Fprintln(r.Output, prompt.ConsentText)
		fmt.Fprintln(r.Output, `(answer "yes" to accept)`)
	}
	for i, c := range prompt.Choices {
		fmt.Fprintf(r.Output, "  %d. %s\n", i+1, c.Label)
	}
}

func stepWaits(kind string) bool {
	switch kind {
	case domain.StepChoice, domain.StepTextInput, domain.StepConsent, domain.StepLocationRequest:
		return true
	}
	return false
}
