// Package main provides the entry point for the axeline CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/axeline/axeline/cmd/axeline/commands"
	"github.com/axeline/axeline/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "axeline",
		Short: "Axeline - static accessibility analyzer for widget trees",
		Long: `Axeline analyzes resolved widget-construction trees and reports
accessibility violations without executing the program.

Commands:
  analyze            Analyze resolved-dump files
  rules              List the available rules
  validate-metadata  Validate a widget metadata table`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewRulesCommand())
	rootCmd.AddCommand(commands.NewValidateMetadataCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintln(os.Stdout, version.String())
		},
	}
}
