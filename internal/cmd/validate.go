package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"digital.vasic.lessons/pkg/catalog"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <bank-file>...",
		Short: "Validate bank file structure",
		Long: `Check bank files for structural problems: missing IDs or
titles, duplicate IDs, steps with zero or multiple
variants, and self-referential prerequisites. Exits
non-zero if any file has issues.`,
		Args: cobra.MinimumNArgs(1),
		RunE: validateCommand,
	}
}

// validateCommand implements the validate command logic.
func validateCommand(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	okColor := color.New(color.FgGreen)
	badColor := color.New(color.FgRed)

	totalIssues := 0
	for _, path := range args {
		issues := catalog.ValidateFile(path)
		if len(issues) == 0 {
			okColor.Fprintf(out, "ok    %s\n", path)
			continue
		}

		badColor.Fprintf(
			out, "FAIL  %s (%d issues)\n", path, len(issues),
		)
		for _, issue := range issues {
			fmt.Fprintf(out, "      %s\n", issue.Error())
		}
		totalIssues += len(issues)
	}

	if totalIssues > 0 {
		return fmt.Errorf(
			"%d validation issues found", totalIssues,
		)
	}
	return nil
}
