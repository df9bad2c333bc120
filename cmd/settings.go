package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/booktab/internal/models"
	"github.com/lehigh-university-libraries/booktab/internal/settings"
)

func newSettingsCmd(flags *storeFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Read and change terminal settings",
		Long: `Settings are stored in BOOKTAB_SETTINGS_PATH. An explicit value wins
over one detected from the catalog, which wins over the built-in default.`,
	}

	open := func() (*settings.Store, error) {
		cfg, err := loadConfig(flags)
		if err != nil {
			return nil, err
		}
		return settings.Open(cfg.Store.SettingsPath), nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show every setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			for _, key := range s.Keys() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", key, s.Get(key))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get KEY",
		Short: "Print the effective value of a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.Get(args[0]))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "set KEY VALUE",
		Short:   "Set a setting explicitly",
		Example: `  booktab settings set terminal-location reading-room`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if key == settings.TerminalLocation {
				if id := models.LibraryID(value); id == models.LibraryNone || !id.Valid() {
					return fmt.Errorf("invalid terminal location %q (must be library, expo or reading-room)", value)
				}
			}

			s, err := open()
			if err != nil {
				return err
			}
			return s.Set(key, value)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset KEY",
		Short: "Remove the explicit and detected values of a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			return s.Reset(args[0])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "autodetect [KEY]",
		Short: "Replace a setting with the value detected from the catalog",
		Long: `Drops the explicit and detected values of KEY and detects it again from
the stored catalog. KEY defaults to terminal-location, the only setting that
can be detected.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := settings.TerminalLocation
			if len(args) == 1 {
				key = args[0]
			}

			a, err := newApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer a.Close()

			value, err := a.catalog.Autodetect(key)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", key, value)
			return nil
		},
	})

	return cmd
}
