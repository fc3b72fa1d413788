package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"flipclerk/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  flipclerk config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
			fmt.Println("Configuration:")
			fmt.Printf("device.url: %s\n", cfg.Device.URL)
			password := "(empty)"
			if cfg.Device.Password != "" {
				password = "(set)"
			}
			fmt.Printf("device.password: %s\n", password)
			fmt.Printf("device.zero_based_ids: %t\n", cfg.Device.ZeroBasedIDs)
			fmt.Printf("history.file: %s\n", cfg.History.File)
			fmt.Printf("cache.file: %s\n", cfg.Cache.File)
			fmt.Printf("editor: %s\n", cfg.Editor)
			fmt.Printf("sides: %d\n", len(cfg.Sides))
			for i, side := range cfg.Sides {
				fmt.Printf("sides[%d].name: %s\n", i, side.Name)
			}
		}
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
