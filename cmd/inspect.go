package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/booktab/internal/mapper"
	"github.com/lehigh-university-libraries/booktab/internal/tabular"
)

// inspectReport is printed by `booktab inspect`.
type inspectReport struct {
	File        string          `yaml:"file"`
	Rows        int             `yaml:"rows"`
	Importable  bool            `yaml:"importable"`
	Passthrough []string        `yaml:"unmapped,omitempty"`
	Columns     []mapper.Column `yaml:"columns"`
}

func newInspectCmd(flags *storeFlags) *cobra.Command {
	var encoding string

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Show how the columns of a spreadsheet would be matched",
		Long: `Reads a spreadsheet and prints, as YAML, the catalog field each column
resolves to and how: by exact label, by position confirmed against the
data, as an empty column to ignore, or not at all. Nothing is imported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if encoding == "" {
				encoding = cfg.Import.Encoding
			}

			sheet, err := tabular.Load(args[0], tabular.Options{Encoding: encoding})
			if err != nil {
				return fmt.Errorf("failed to read spreadsheet: %w", err)
			}

			result := mapper.Map(sheet.Headers, sheet.Rows)
			report := inspectReport{
				File:        args[0],
				Rows:        len(sheet.Rows),
				Passthrough: result.Passthrough(),
				Columns:     result.Columns,
			}
			report.Importable = len(report.Passthrough) == 0

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(report); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			return enc.Close()
		},
	}

	cmd.Flags().StringVar(&encoding, "encoding", "", "CSV text encoding: utf-8, windows-1253 or iso-8859-7 (default from BOOKTAB_CSV_ENCODING)")

	return cmd
}
