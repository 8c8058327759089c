package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"storefront/internal/config"
	"storefront/internal/service"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronise the remote tables with the built-in data",
}

var syncProductsCmd = &cobra.Command{
	Use:   "products",
	Short: "Upsert the built-in catalog into the products table by name",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := config.LoadLocal()
		if err != nil {
			return err
		}
		a, err := newApp(ctx, cfg, false)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		local, err := a.fixture.Products(ctx)
		if err != nil {
			return err
		}
		rep, err := a.products.SyncProducts(ctx, local)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "inserted: %d, updated: %d, deleted: %d\n", rep.Inserted, rep.Updated, rep.Deleted)
		return nil
	},
}

var syncReviewsCmd = &cobra.Command{
	Use:   "reviews",
	Short: "Insert the seed reviews that are missing from the reviews table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := config.LoadLocal()
		if err != nil {
			return err
		}
		a, err := newApp(ctx, cfg, false)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		n, err := a.reviews.SyncReviews(ctx, service.SeedReviews)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "inserted: %d\n", n)
		return nil
	},
}

func init() {
	syncCmd.AddCommand(syncProductsCmd)
	syncCmd.AddCommand(syncReviewsCmd)
}
