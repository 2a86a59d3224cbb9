// Package cmd implements the catalog command-line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

// NewRootCommand creates and returns the root cobra command
// for the catalog tool.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Run and inspect a catalog of teaching lessons",
		Long: `Catalog executes self-contained teaching lessons defined in
JSON or YAML bank files.

Each lesson is an ordered sequence of steps (log output,
assertions over that output, simulated delays and errors)
executed in isolation under a timeout budget. Results are
aggregated into a deterministic summary report.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text.
		SilenceUsage: true,
	}

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewListCommand())
	cmd.AddCommand(NewValidateCommand())

	return cmd
}
