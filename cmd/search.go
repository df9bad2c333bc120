package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

func newSearchCmd(flags *storeFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search [QUERY]",
		Short: "Search the catalog by title, author, publisher or code",
		Long: `Lists books whose title, author, publisher or code contains QUERY,
ignoring accents, case and spaces. Without a query, or with one shorter
than BOOKTAB_SEARCH_MIN_LENGTH, the whole catalog is listed.`,
		Example: `  booktab search καζαντζάκης
  booktab search "12ΑΒ" --limit 5`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.Close()

			query := strings.TrimSpace(strings.Join(args, " "))
			if utf8.RuneCountInString(query) < a.cfg.Search.MinLength {
				query = ""
			}

			cursor := a.catalog.Search(query)
			defer cursor.Close()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tTITLE\tAUTHOR\tPUBLISHER\tLOCATION")

			count := 0
			for m := range cursor.Seq() {
				if limit > 0 && count >= limit {
					break
				}
				b := m.Book
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", b.Code, b.Title, b.Author, b.Publisher, b.LibraryID)
				count++
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%d books\n", count)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of books to list (0 for all)")

	return cmd
}
