package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/axeline/axeline/pkg/ruledsl"
	"github.com/axeline/axeline/pkg/rules"
)

// NewRulesCommand creates the rules subcommand.
func NewRulesCommand() *cobra.Command {
	var packDir string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available rules",
		Long: `List the built-in rules, and optionally the rules of a
declarative pack directory.

Examples:
  axeline rules                      # Built-in rules only
  axeline rules --pack ./team-rules  # Include a rule pack`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runRules(os.Stdout, packDir)
		},
	}

	cmd.Flags().StringVar(&packDir, "pack", "", "declarative rule pack directory")

	return cmd
}

func runRules(w *os.File, packDir string) error {
	ruleSet := rules.Default()

	if packDir != "" {
		pack, err := ruledsl.LoadPack(packDir)
		if err != nil {
			return err
		}

		for _, diag := range pack.Diagnostics {
			slog.Warn("skipped rule file", slog.String("diagnostic", diag.String()))
		}

		ruleSet = append(ruleSet, pack.Rules...)
	}

	nameColor := color.New(color.Bold)

	for _, rule := range ruleSet {
		summary, _, _ := strings.Cut(rule.Doc, "\n")
		fmt.Fprintf(w, "%s [%s]\n    %s\n", nameColor.Sprint(rule.Name), rule.Severity, summary)
	}

	return nil
}
