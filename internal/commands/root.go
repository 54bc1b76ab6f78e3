package commands

import (
	"io/fs"

	"github.com/spf13/cobra"

	"salesboard/internal/app"
)

// NewRootCommand creates the root CLI command with all subcommands
// registered. webFS is the embedded dashboard page used by serve; it may
// be nil, in which case serve runs API-only.
func NewRootCommand(webFS fs.FS) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "salesboard",
		Short:   "Sales analytics dashboard",
		Version: app.Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCommand(webFS))
	rootCmd.AddCommand(newSummaryCommand())
	rootCmd.AddCommand(newExportCommand())

	return rootCmd
}
