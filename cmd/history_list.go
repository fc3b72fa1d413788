package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"flipclerk/config"
	"flipclerk/view"
)

var (
	listUpdatePath string
	listStartWith  uint32
	listSince      string
	listStyle      string
)

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print logged cube events.",
	Long: `Fetch new events from the cube, merge them with the incremental cache when
one is configured, and render the combined history.

Events already cached win over re-sent duplicates; the cube never rewrites
recorded history. When --update points at a cache file, the next run resumes
fetching after the highest cached id.`,
	Example: `
  # Everything, one line per event
  flipclerk history list --style lines

  # Per-day table of recent events, resuming from the cache
  flipclerk history list --update ~/.flipclerk/cache.db --since 2026-08-24

  # Per-facet totals
  flipclerk history list --style summarized

  # Re-read from a specific entry id
  flipclerk history list --start-with 120
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		cachePath := listUpdatePath
		if cachePath == "" {
			cachePath = cfg.Cache.File
		}

		var startWith *uint32
		if cmd.Flags().Changed("start-with") {
			startWith = &listStartWith
		}

		entries, err := mergedSnapshot(cmd.Context(), cfg, cachePath, startWith)
		if err != nil {
			return err
		}

		snapshot := view.NewHistory(entries)
		if listSince != "" {
			since, err := parseSinceDate(listSince)
			if err != nil {
				return err
			}
			snapshot = snapshot.Since(since)
		}

		rendered, err := snapshot.Render(listStyle)
		if err != nil {
			return err
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyListCmd)

	historyListCmd.Flags().StringVar(&listUpdatePath, "update", "", "Read cached events from and write new events to this cache file")
	historyListCmd.Flags().Uint32Var(&listStartWith, "start-with", 0, "Start reading with this entry id instead of resuming after the cache")
	historyListCmd.Flags().StringVar(&listSince, "since", "", "Only display entries starting on or after DATE (YYYY-MM-DD)")
	historyListCmd.Flags().StringVar(&listStyle, "style", view.StyleTabular, "Output style: lines|tabular|summarized")
}
