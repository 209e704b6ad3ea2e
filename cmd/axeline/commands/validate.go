package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/axeline/axeline/pkg/metadata"
)

// NewValidateMetadataCommand creates the validate-metadata subcommand.
func NewValidateMetadataCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-metadata <table.json>",
		Short: "Validate a widget metadata table",
		Long: `Validate a regenerated widget metadata table against the
table schema before shipping it.

Examples:
  axeline validate-metadata widgets.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidateMetadata(args[0])
		},
	}
}

func runValidateMetadata(path string) error {
	table, err := metadata.LoadFile(path)
	if err != nil {
		return fmt.Errorf("validate %s: %w", path, err)
	}

	okColor := color.New(color.FgGreen)
	fmt.Fprintf(os.Stdout, "%s %s: %d widget types, table version %d\n",
		okColor.Sprint("ok"), path, table.Len(), metadata.TableVersion)

	return nil
}
