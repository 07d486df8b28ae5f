package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/percursohq/percurso"
	geoAdapter "github.com/percursohq/percurso/pkg/adapters/geo"
	"github.com/percursohq/percurso/pkg/geo"
)

// runCmd starts an interactive flow on the terminal.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a quote flow interactively",
	Long:  `Starts a flow in the terminal and drives it turn by turn until the quote is complete.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runInteractive(cmd); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func runInteractive(cmd *cobra.Command) error {
	registry, err := loadRegistry(cmd)
	if err != nil {
		return err
	}

	flowName, _ := cmd.Flags().GetString("flow")
	graph, err := registry.Get(flowName)
	if err != nil {
		return fmt.Errorf("unknown flow %q (available: %v)", flowName, registry.Names())
	}

	opts := []percurso.Option{percurso.WithLogger(newLogger(cmd))}

	// A simulated device location turns the "allow" branch on; without
	// it the engine falls back to manual city entry.
	city, _ := cmd.Flags().GetString("city")
	region, _ := cmd.Flags().GetString("region")
	if city != "" {
		delay, _ := cmd.Flags().GetDuration("location-delay")
		opts = append(opts,
			percurso.WithLocationProvider(&geoAdapter.StaticProvider{Delay: delay}),
			percurso.WithGeocoder(&geoAdapter.StaticGeocoder{
				Place: geo.Place{City: city, Region: region, Country: "BR"},
			}),
		)
	}

	engine, err := percurso.New(graph, opts...)
	if err != nil {
		return err
	}

	runner := percurso.NewRunner()
	runner.Input = os.Stdin
	runner.Output = os.Stdout

	state, err := runner.Run(cmd.Context(), engine, uuid.NewString())
	if err != nil {
		return err
	}
	if state != nil && state.Completed {
		fmt.Println("\nThanks for quoting with us!")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("flow", "vehicle-quote", "Flow to run")
	runCmd.Flags().String("city", "", "Simulate device location with this city")
	runCmd.Flags().String("region", "", "Region for the simulated location")
	runCmd.Flags().Duration("location-delay", 500*time.Millisecond, "Latency of the simulated location lookup")
}
