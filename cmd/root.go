package cmd

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/booktab/internal/catalog"
	"github.com/lehigh-university-libraries/booktab/internal/config"
	"github.com/lehigh-university-libraries/booktab/internal/logging"
	"github.com/lehigh-university-libraries/booktab/internal/settings"
	"github.com/lehigh-university-libraries/booktab/internal/storage"
)

// storeFlags override the environment configuration for a single run.
type storeFlags struct {
	driver       string
	path         string
	settingsPath string
}

func NewRootCmd() *cobra.Command {
	flags := &storeFlags{}

	cmd := &cobra.Command{
		Use:   "booktab",
		Short: "Spreadsheet import, export and search for a Greek book catalog",
		Long: `Booktab keeps a small book catalog for a lending library, an exhibition
and a reading room.

Catalogs are imported from spreadsheets whose headers may be misspelled,
reordered or missing; columns are matched to the catalog fields by label,
by position and by checking the data. The catalog can be searched without
regard to accents or case and exported back to CSV or Parquet.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.PersistentFlags().StringVar(&flags.driver, "store", "", "Catalog store driver: file, sqlite or memory (default from BOOKTAB_STORE_DRIVER)")
	cmd.PersistentFlags().StringVar(&flags.path, "store-path", "", "Catalog file or database (default from BOOKTAB_STORE_PATH)")
	cmd.PersistentFlags().StringVar(&flags.settingsPath, "settings", "", "Settings file (default from BOOKTAB_SETTINGS_PATH)")

	cmd.AddCommand(newImportCmd(flags))
	cmd.AddCommand(newExportCmd(flags))
	cmd.AddCommand(newSearchCmd(flags))
	cmd.AddCommand(newInspectCmd(flags))
	cmd.AddCommand(newSettingsCmd(flags))
	cmd.AddCommand(newServeCmd(flags))

	return cmd
}

// app carries the dependencies shared by the commands. It is built once per
// command run and passed down explicitly.
type app struct {
	cfg      *config.Config
	store    storage.Store
	settings *settings.Store
	catalog  *catalog.Service
}

func loadConfig(flags *storeFlags) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if flags.driver != "" {
		cfg.Store.Driver = flags.driver
	}
	if flags.path != "" {
		cfg.Store.Path = flags.path
	}
	if flags.settingsPath != "" {
		cfg.Store.SettingsPath = flags.settingsPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	return cfg, nil
}

func newApp(ctx context.Context, flags *storeFlags) (*app, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog store: %w", err)
	}

	prefs := settings.Open(cfg.Store.SettingsPath)
	books := catalog.NewService(store, prefs)
	books.Init(ctx)

	return &app{
		cfg:      cfg,
		store:    store,
		settings: prefs,
		catalog:  books,
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}
