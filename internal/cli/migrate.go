package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"storefront/internal/config"
	"storefront/internal/repository/postgres"
	"storefront/migrations"
)

var errNoDatabase = errors.New("DATABASE_URL is required")

var migrateCmd = &cobra.Command{
	Use:       "migrate up|down",
	Short:     "Apply or roll back the products/reviews schema",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadLocal()
		if err != nil {
			return err
		}
		if cfg.Database.URL == "" {
			return errNoDatabase
		}
		db, err := postgres.NewConnection(&cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		applied, err := postgres.Migrate(cmd.Context(), db, migrations.FS, args[0] == "up")
		for _, name := range applied {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return err
	},
}
