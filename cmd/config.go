package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage flipclerk configuration file values.",
	Long: `Create, edit, and display the flipclerk configuration file.

The configuration stores application-wide values:
- device.url / device.password / device.zero_based_ids
- sides[].name
- history.file, cache.file, editor`,
	Example: `
  # Create default config in $HOME/.flipclerk.yaml
  flipclerk config create

  # Show active config and source file
  flipclerk config show

  # Open active config in editor (creates example if missing)
  flipclerk config edit
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
