package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/booktab/internal/catalog"
	"github.com/lehigh-university-libraries/booktab/internal/tabular"
)

func newImportCmd(flags *storeFlags) *cobra.Command {
	var encoding string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the catalog with a spreadsheet",
		Long: `Reads a CSV, TSV or Parquet spreadsheet and replaces the whole catalog
with its rows.

The import is rejected, and the catalog left untouched, when any column
cannot be matched to a catalog field.`,
		Example: `  # Import a UTF-8 CSV
  booktab import books.csv

  # Import a CSV saved by Excel with the Greek Windows code page
  booktab import books.csv --encoding windows-1253`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.Close()

			if encoding == "" {
				encoding = a.cfg.Import.Encoding
			}

			sheet, err := tabular.Load(args[0], tabular.Options{Encoding: encoding})
			if err != nil {
				return fmt.Errorf("failed to read spreadsheet: %w", err)
			}

			slog.Info("Read spreadsheet", "path", args[0], "columns", len(sheet.Headers), "rows", len(sheet.Rows))

			result, err := a.catalog.Import(cmd.Context(), sheet.Headers, sheet.Rows)
			var mappingErr *catalog.MappingError
			if errors.As(err, &mappingErr) {
				out := cmd.ErrOrStderr()
				fmt.Fprintln(out, "These columns could not be matched to a catalog field:")
				for _, h := range mappingErr.Headers {
					fmt.Fprintf(out, "  - %q\n", h)
				}
				fmt.Fprintln(out, "Run `booktab inspect` on the file for details.")
				return err
			}
			if err != nil {
				return err
			}

			if result.Unchanged {
				fmt.Fprintf(cmd.OutOrStdout(), "Catalog already matches %s (%d books)\n", args[0], result.Count)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d books (batch %s)\n", result.Count, result.BatchID)
			return nil
		},
	}

	cmd.Flags().StringVar(&encoding, "encoding", "", "CSV text encoding: utf-8, windows-1253 or iso-8859-7 (default from BOOKTAB_CSV_ENCODING)")

	return cmd
}
