package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrlokans/calibre-xmnote/internal/entrypoint"
	"github.com/mrlokans/calibre-xmnote/internal/services"
)

func newBooksCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "books",
		Short: "List the books in the Calibre library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(true, func(app *entrypoint.App) error {
				books, err := app.Actions.Books()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, book := range books {
					formats := make([]string, 0, len(book.Formats))
					for _, f := range book.Formats {
						formats = append(formats, f.Format)
					}
					fmt.Fprintf(out, "%5d  %s by %s [%s]\n", book.ID, book.Title, book.AuthorString(), strings.Join(formats, ", "))
				}
				fmt.Fprintf(out, "\n📚 %d book(s)\n", len(books))
				return nil
			})
		},
	}
}

func newSummaryCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary [book-id...]",
		Short: "Show the target device and the selected books",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseBookIDs(args)
			if err != nil {
				return err
			}
			return opts.withApp(true, func(app *entrypoint.App) error {
				label, err := app.Actions.Summary(ids)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), label)
				return nil
			})
		},
	}
}

func newMarkSingleFormatCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mark-single-format",
		Short: "Mark every book that has exactly one format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(true, func(app *entrypoint.App) error {
				ids, err := app.Actions.MarkSingleFormat()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(ids) == 0 {
					fmt.Fprintln(out, "ℹ️  No single-format books found")
					return nil
				}
				strs := make([]string, len(ids))
				for i, id := range ids {
					strs[i] = fmt.Sprint(id)
				}
				fmt.Fprintf(out, "🔖 Marked %d book(s): %s\n", len(ids), strings.Join(strs, ", "))
				return nil
			})
		},
	}
}

func newOpenLatestCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "open-latest",
		Short: "Open the most recently added book with the default application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(true, func(app *entrypoint.App) error {
				book, path, err := app.Actions.OpenLatest()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "📖 Opened %s\n   %s\n", book.Title, path)
				return nil
			})
		},
	}
}

func newHelpXMnoteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "help-xmnote",
		Short: "Explain how to prepare XMnote for an import",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", services.HelpTitle, services.HelpText)
		},
	}
}
