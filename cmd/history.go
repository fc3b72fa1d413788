package cmd

import "github.com/spf13/cobra"

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print or edit logged cube events.",
	Long: `Read the cube's event history.

"history list" merges newly fetched events with the optional incremental
cache and renders the result; "history edit" stages a range of entries in an
external editor and commits the corrected result to the local history file.`,
	Example: `
  # Tabular listing of everything the cube remembers
  flipclerk history list

  # Only new events since the cached ones, as raw lines
  flipclerk history list --update ~/.flipclerk/cache.db --style lines

  # Correct entries 10 through 20
  flipclerk history edit --start-id 10 --end-id 20
`,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
