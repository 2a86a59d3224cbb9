package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"digital.vasic.lessons/pkg/catalog"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <bank-file|dir|url>...",
		Short: "List lessons from one or more bank files",
		Long: `List the lessons in the given bank files, directories of
bank files, or http(s) URLs, grouped by category in
registration order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: listCommand,
	}

	cmd.Flags().String("category", "", "List only lessons of this category")

	return cmd
}

// listCommand implements the list command logic.
func listCommand(cmd *cobra.Command, args []string) error {
	category, _ := cmd.Flags().GetString("category")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	reg := catalog.NewRegistry()
	loader := catalog.NewLoader(reg, nil)
	if err := loadSources(ctx, loader, args); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	headerColor := color.New(color.FgCyan, color.Bold)
	idColor := color.New(color.FgGreen)

	categories := []string{category}
	if category == "" {
		categories = reg.Categories()
	}

	total := 0
	for _, cat := range categories {
		lessons := reg.List(cat)
		if len(lessons) == 0 {
			continue
		}

		headerColor.Fprintf(
			out, "%s (%d)\n", cat, len(lessons),
		)
		for _, l := range lessons {
			idColor.Fprintf(out, "  %-24s", l.ID)
			fmt.Fprintf(out, " %s", l.Title)
			if len(l.Requires) > 0 {
				fmt.Fprintf(
					out, "  (requires %v)", l.Requires,
				)
			}
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out)
		total += len(lessons)
	}

	fmt.Fprintf(out, "%d lessons\n", total)
	return nil
}
