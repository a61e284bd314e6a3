// internal/cli/root.go
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/app"
	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "exhibitors",
	Short: "Scrape the CONEXPO-CON/AGG exhibitor directory into a CSV",
	Long: `Exhibitors drives a headless Chrome browser over the trade-show
directory (category → subcategory → exhibitor detail pages), extracts a fixed
set of fields per exhibitor, and appends validated rows to a CSV file.

Progress is checkpointed to a JSON file after every exhibitor, so an
interrupted crawl resumes within one exhibitor of where it stopped.`,
	Version: "1.0.0",
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	config.RegisterFlags(rootCmd)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// withApp loads config from the command's flags, wires the application, and
// runs fn, guaranteeing browser shutdown afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return err
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(cmd.Context(), a)
}
