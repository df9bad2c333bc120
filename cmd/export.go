package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/booktab/internal/tabular"
)

func newExportCmd(flags *storeFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Write the catalog to a spreadsheet",
		Long: `Writes the catalog with the standard column headers. The format is
chosen by extension: .csv, .tsv or .parquet.`,
		Example: `  booktab export books.csv
  booktab export snapshot.parquet`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.Close()

			data := a.catalog.Export()
			sheet := &tabular.Sheet{Headers: data.Headers, Rows: data.Rows}
			if err := tabular.Save(args[0], sheet); err != nil {
				return fmt.Errorf("failed to export catalog: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d books to %s\n", len(data.Rows), args[0])
			return nil
		},
	}

	return cmd
}
