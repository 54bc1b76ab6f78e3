package commands

import (
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"salesboard/internal/app"
)

func newServeCommand(webFS fs.FS) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := app.NewApplication(webFS)
			if err != nil {
				return fmt.Errorf("starting application: %w", err)
			}

			return application.Run(cmd.Context())
		},
	}
}
