package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output except errors")
	cmd.PersistentFlags().Bool("json", false, "Emit logs as JSON")
	cmd.PersistentFlags().String("config", "", "Path to YAML configuration file (optional)")
	cmd.PersistentFlags().String("start-url", "", "Directory start URL")
	cmd.PersistentFlags().String("timeout", "", "Navigation and selector-wait timeout (e.g. 60s)")
	cmd.PersistentFlags().String("user-agent", "", "Custom user agent string")
	cmd.PersistentFlags().String("chrome", "", "Path to the Chrome/Chromium binary")
	cmd.PersistentFlags().Bool("headful", false, "Run the browser with a visible window")
	cmd.PersistentFlags().StringP("output", "o", "", "Output CSV file path")
	cmd.PersistentFlags().String("checkpoint", "", "Checkpoint JSON file path")
}
