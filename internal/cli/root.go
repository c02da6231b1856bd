// Package cli implements the calibre-xmnote command line.
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mrlokans/calibre-xmnote/internal/config"
	"github.com/mrlokans/calibre-xmnote/internal/entrypoint"
)

type rootOptions struct {
	libraryPath  string
	databasePath string
	verbose      bool
	version      string
	commit       string
}

// NewRootCommand builds the command tree. version and commit are set at
// build time via ldflags.
func NewRootCommand(version, commit string) *cobra.Command {
	opts := &rootOptions{version: version, commit: commit}

	root := &cobra.Command{
		Use:   "calibre-xmnote",
		Short: "Send Calibre highlights and notes to XMnote (纸间书摘)",
		Long: `calibre-xmnote reads highlights from a Calibre library and posts them,
one book per request, to the XMnote app's "import via API" endpoint on the local network.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.libraryPath, "library", "", "Calibre library directory (overrides CALIBRE_LIBRARY_PATH)")
	root.PersistentFlags().StringVar(&opts.databasePath, "db", "", "State database file (overrides DATABASE_PATH)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newExportCommand(opts),
		newConfigCommand(opts),
		newBooksCommand(opts),
		newSummaryCommand(opts),
		newMarkSingleFormatCommand(opts),
		newOpenLatestCommand(opts),
		newHelpXMnoteCommand(),
		newServeCommand(opts),
		newVersionCommand(opts),
	)
	return root
}

// loadApp builds the application from environment, .env files and flags.
// The returned cleanup must be called when the command is done.
func (o *rootOptions) loadApp() (*entrypoint.App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if o.libraryPath != "" {
		cfg.Calibre.LibraryPath = o.libraryPath
	}
	if o.databasePath != "" {
		cfg.Database.Path = o.databasePath
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}

	log, err := entrypoint.NewLogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	app, err := entrypoint.NewApp(cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, err
	}

	cleanup := func() {
		if err := app.Close(); err != nil {
			log.Warn("error closing resources")
		}
		_ = log.Sync()
	}
	return app, cleanup, nil
}

// withApp runs fn with a loaded app. When needLibrary is set, a missing
// Calibre library is an error.
func (o *rootOptions) withApp(needLibrary bool, fn func(app *entrypoint.App) error) error {
	app, cleanup, err := o.loadApp()
	if err != nil {
		return err
	}
	defer cleanup()

	if needLibrary {
		if err := app.RequireLibrary(); err != nil {
			return err
		}
	}
	return fn(app)
}

func parseBookIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid book id %q", arg)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func newVersionCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "calibre-xmnote %s (%s)\n", opts.version, opts.commit)
		},
	}
}
