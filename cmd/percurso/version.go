package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/percursohq/percurso"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of percurso",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("percurso version %s\n", strings.TrimSpace(percurso.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
