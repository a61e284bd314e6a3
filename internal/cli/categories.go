// internal/cli/categories.go
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/app"
)

// categoriesCmd lists the top-level categories and exits. Nothing is
// written: no CSV rows, no checkpoint.
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Print every top-level category name and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return a.Crawler.ListCategories(ctx)
		})
	},
}

// subcategoriesCmd lists every category with its subcategories and exits.
var subcategoriesCmd = &cobra.Command{
	Use:   "subcategories",
	Short: "Print every category with its subcategory names and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return a.Crawler.ListSubcategories(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(subcategoriesCmd)
}
