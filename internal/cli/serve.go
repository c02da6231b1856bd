package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrlokans/calibre-xmnote/internal/entrypoint"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the local HTTP API used by the export dialog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(false, func(app *entrypoint.App) error {
				return entrypoint.Serve(cmd.Context(), app, opts.version)
			})
		},
	}
}
