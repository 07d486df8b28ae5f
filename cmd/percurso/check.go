package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/percursohq/percurso/pkg/flow"
)

// checkCmd validates every registered graph for dangling edges,
// unreachable steps and malformed step definitions.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the registered flow graphs for consistency",
	Long:  `Validates every flow graph (built-in and loaded from --flows) and reports dead edges, unreachable steps and malformed steps.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runCheck(cmd); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("All flows are valid! ✅")
	},
}

func runCheck(cmd *cobra.Command) error {
	registry, err := loadRegistry(cmd)
	if err != nil {
		return err
	}

	for _, name := range registry.Names() {
		graph, err := registry.Get(name)
		if err != nil {
			return err
		}
		if err := graph.Validate(); err != nil {
			var verr *flow.ValidationError
			if errors.As(err, &verr) {
				fmt.Printf("flow %s:\n", name)
				for _, problem := range verr.Problems {
					fmt.Printf("  - %s\n", problem)
				}
			}
			return err
		}
		fmt.Printf("flow %s: %d steps ok\n", name, graph.Len())
	}
	return nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
