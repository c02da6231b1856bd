package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrlokans/calibre-xmnote/internal/entities"
	"github.com/mrlokans/calibre-xmnote/internal/entrypoint"
	"github.com/mrlokans/calibre-xmnote/internal/services"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var marked bool

	cmd := &cobra.Command{
		Use:   "export [book-id...]",
		Short: "Send the highlights of the given books to the XMnote device",
		Long: `Sends one request per book, in the order given. The export stops at the
first book that cannot be sent; books sent before it are not rolled back.`,
		Example: `  calibre-xmnote export 12 15
  calibre-xmnote export --marked`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseBookIDs(args)
			if err != nil {
				return err
			}
			return opts.withApp(true, func(app *entrypoint.App) error {
				if marked {
					markedIDs, err := app.Actions.MarkedBooks()
					if err != nil {
						return err
					}
					ids = append(ids, markedIDs...)
				}
				return runExport(cmd, app, ids)
			})
		},
	}

	cmd.Flags().BoolVar(&marked, "marked", false, "Also export the books marked by mark-single-format")
	return cmd
}

func runExport(cmd *cobra.Command, app *entrypoint.App, ids []int64) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "📚 XMnote Export")
	fmt.Fprintln(out, "================")

	label, err := app.Actions.Summary(ids)
	if err != nil {
		return err
	}
	fmt.Fprint(out, label)

	result, err := app.Exporter.Export(cmd.Context(), ids)
	printResult(out, result)
	if err != nil {
		fmt.Fprintln(out)
		return reportError(out, err)
	}

	fmt.Fprintf(out, "\n✅ Sent %d book(s) to %s\n", result.Sent(), result.TargetURL)
	return nil
}

func printResult(out io.Writer, result services.ExportResult) {
	for _, book := range result.Books {
		icon := "✅"
		if book.Status != entities.ExportStatusSent {
			icon = "❌"
		}
		fmt.Fprintf(out, "%s [%d] %s: %d entries\n", icon, book.BookID, book.Title, book.Entries)
	}
}
