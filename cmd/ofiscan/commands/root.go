// Package commands implements the CLI commands for ofiscan.
package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "ofiscan",
	Short: "Paginated crawler for ofis.az listings",
	Long: `Ofiscan walks the ofis.az listing index page by page, fetches every
detail page and reveals seller phone numbers through the site's XHR
endpoint.

Results come out as JSON, JSONL, YAML or CSV, and can optionally be
mirrored into a local SQLite database.

Examples:
  # Crawl the first five index pages to stdout
  ofiscan crawl

  # Crawl until the listings run out, three seconds between pages
  ofiscan crawl --max-pages 0 --page-delay 3s --format jsonl -o all.jsonl

  # Skip the phone-reveal endpoint entirely
  ofiscan crawl --skip-phones

  # Keep a local SQLite mirror alongside the JSON output
  ofiscan crawl --db listings.db`,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.ofiscan.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".ofiscan")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("OFISCAN")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
