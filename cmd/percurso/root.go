package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/percursohq/percurso/internal/logging"
	"github.com/percursohq/percurso/pkg/adapters/file"
	"github.com/percursohq/percurso/pkg/flow"
	"github.com/percursohq/percurso/pkg/quote"
)

var rootCmd = &cobra.Command{
	Use:   "percurso",
	Short: "Percurso is a conversational flow engine for insurance quoting",
	Long:  `Percurso runs declarative question flows that collect quote data turn by turn, with validation, branching and optional device location.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("flows", "", "Directory with extra flow graphs (YAML)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
}

// newLogger builds the process logger from the --log-level flag.
func newLogger(cmd *cobra.Command) *slog.Logger {
	name, _ := cmd.Flags().GetString("log-level")
	level := slog.LevelInfo
	switch name {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return logging.New(level)
}

// loadRegistry registers the shipped quote flows plus any YAML graphs
// found under the --flows directory.
func loadRegistry(cmd *cobra.Command) (*flow.Registry, error) {
	registry := flow.NewRegistry()
	quote.Register(registry)

	dir, _ := cmd.Flags().GetString("flows")
	if dir == "" {
		return registry, nil
	}

	for _, pattern := range []string{"*.yaml", "*.yml"} {
		paths, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		for _, path := range paths {
			graph, err := file.Load(path)
			if err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", path, err)
			}
			registry.Register(graph)
		}
	}
	return registry, nil
}
