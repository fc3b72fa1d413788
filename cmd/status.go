package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"flipclerk/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the connected cube's identity and battery level.",
	Example: `
  flipclerk status
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		reader, err := deviceReader(cfg)
		if err != nil {
			return err
		}

		status, err := reader.FetchStatus(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch device status: %w", err)
		}

		fmt.Printf("Device:   %s\n", status.Name)
		fmt.Printf("Firmware: %s\n", status.Firmware)
		fmt.Printf("Facets:   %d\n", status.FacetCount)
		fmt.Printf("Battery:  %d%%\n", status.BatteryPct)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
