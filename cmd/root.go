package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"flipclerk/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "flipclerk",
	Short: "Sync, inspect, correct, and export the event history of a TimeFlip-style tracking cube.",
	Long: `flipclerk talks to a tracking cube through its HTTP bridge daemon,
pulls newly recorded facet events into a durable local history, and renders
that history as raw lines, a per-day table, or a per-facet summary.

Recorded history can be corrected through an external editor round trip and
exported to CSV or Excel.`,
	Example: `
  # Create configuration file
  flipclerk config create

  # List new events, keeping an incremental cache between runs
  flipclerk history list --update ~/.flipclerk/cache.db

  # Show last week's events as a per-day table
  flipclerk history list --since 2026-08-24 --style tabular

  # Correct recorded history in $EDITOR
  flipclerk history edit

  # Export per-day totals to Excel
  flipclerk export --mode daily --output ./daily.xlsx

  # Check the bridge connection and cube battery
  flipclerk status
`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. The context bounds every device round trip; cancelling it
// (Ctrl-C) aborts the invocation without leaving a half-written store.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.flipclerk.yaml, then ./.flipclerk.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".flipclerk" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".flipclerk")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one first with: flipclerk config create")
	}
}
