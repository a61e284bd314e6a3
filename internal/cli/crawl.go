// internal/cli/crawl.go
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/betaluis/conexpo-exhibitor-directory-scraper-2026/internal/app"
)

// crawlCmd represents the crawl command
var crawlCmd = &cobra.Command{
	Use:   "crawl",
	Short: "Run the full resumable crawl",
	Long: `Walks every category, subcategory, and exhibitor card in document
order, extracts the detail fields for each exhibitor, and appends complete
records to the output CSV.

An existing checkpoint resumes the crawl at the recorded position. With
--resume-after, extracted records are discarded until the named company has
been seen once, for topping up a CSV from an earlier run.`,
	Example: `  # Resume (or start) the crawl
  exhibitors crawl

  # Ignore the checkpoint and any resume name, start from the beginning
  exhibitors crawl --fresh

  # Skip re-adding records up through a company already in the CSV
  exhibitors crawl --resume-after "Stedman Machine Company"

  # Show a per-subcategory progress bar
  exhibitors crawl --progress`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			return a.Crawler.Run(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(crawlCmd)

	crawlCmd.Flags().Bool("fresh", false, "Ignore the checkpoint and resume name, start from the first category")
	crawlCmd.Flags().String("resume-after", "", "Discard records until this company name has been seen once")
	crawlCmd.Flags().Bool("description-markdown", false, "Render the description section as Markdown instead of plain text")
	crawlCmd.Flags().Bool("progress", false, "Show a progress bar per subcategory")
}
