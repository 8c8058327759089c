package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"storefront/internal/config"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export data to files",
}

var exportProductsCmd = &cobra.Command{
	Use:   "products <file.xlsx>",
	Short: "Write the products table to an Excel workbook",
	Args:  cobra.ExactArgs(1),
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

		panel := a.productsPanel()
		list, err := panel.Refresh(ctx)
		if err != nil {
			return err
		}

		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("create %s: %w", args[0], err)
		}
		if err := panel.ExportExcel(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported %d products to %s\n", len(list), args[0])
		return nil
	},
}

func init() {
	exportCmd.AddCommand(exportProductsCmd)
}
