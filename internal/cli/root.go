// Package cli команды storefront: сервер, миграции, синхронизация, экспорт.
package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Curtains and textiles storefront server",
	Long: `storefront serves the catalog, carts, checkout and admin panel of the
curtains shop together with the orders/reviews backend.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

// Execute запускает корневую команду
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(exportCmd)
}
