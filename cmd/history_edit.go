package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"flipclerk/config"
	"flipclerk/editsession"
	"flipclerk/facet"
	"flipclerk/history"
)

var (
	editEditor      string
	editHistoryFile string
	editStartID     uint32
	editEndID       uint32
)

var historyEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Correct logged cube events in an external editor.",
	Long: `Stage a range of history entries in an editable text file, open it in an
editor, and commit the corrected result to the local history file.

The staged view is the recorded history merged with events freshly fetched
from the cube; recorded entries win over re-sent duplicates. The commit is
atomic: either the full edited batch is saved durably or nothing changes.
When the edited file fails to parse or validate, it is kept so the edits can
be fixed and retried.

Editor selection order:
1) --editor
2) "editor" config value
3) $VISUAL
4) $EDITOR
5) vi

A non-zero exit code from the editor is accepted; some editors exit non-zero
after a successful save. Only failing to launch the editor aborts.`,
	Example: `
  # Stage the whole history in $EDITOR
  flipclerk history edit

  # Annotate entries 10 through 20 in nano
  flipclerk history edit --editor nano --start-id 10 --end-id 20

  # Work on a dedicated history file
  flipclerk history edit --history-file ./project-history.json
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		historyPath, err := resolveHistoryPath(editHistoryFile, cfg.History.File)
		if err != nil {
			return err
		}
		store := history.NewStore(historyPath)

		stored, err := store.Load()
		if err != nil {
			return err
		}

		reader, err := deviceReader(cfg)
		if err != nil {
			return err
		}

		// Resume fetching right after the highest recorded id; Load
		// returns entries ascending.
		startID := history.NextStartID(nil, history.MergeOptions{ZeroBasedIDs: cfg.Device.ZeroBasedIDs})
		if len(stored) > 0 {
			startID = stored[len(stored)-1].ID + 1
		}

		incoming, err := reader.FetchSince(cmd.Context(), startID)
		if err != nil {
			return fmt.Errorf("fetch device history: %w", err)
		}

		names := cfg.FacetNames()
		fetched := make([]facet.EntryEdit, 0, len(incoming))
		for _, entry := range incoming {
			fetched = append(fetched, facet.NewEntryEdit(entry, names))
		}

		// Recorded entries win over anything the device re-sent.
		merged := history.Apply(fetched, stored)

		session := editsession.New(store, merged, editsession.Options{
			StartID: editStartID,
			EndID:   editEndID,
			Editor:  editsession.ResolveEditor(editEditor, cfg.Editor, os.Getenv("VISUAL"), os.Getenv("EDITOR")),
		})

		result, err := session.Run(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Edit committed. Entries exported: %d, entries committed: %d, history: %s\n",
			result.Exported, result.Committed, historyPath)
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyEditCmd)

	historyEditCmd.Flags().StringVar(&editEditor, "editor", "", "Editor program to open the staged entries with")
	historyEditCmd.Flags().StringVar(&editHistoryFile, "history-file", "", "History file to read and commit to (default $HOME/.flipclerk/history.json)")
	historyEditCmd.Flags().Uint32Var(&editStartID, "start-id", 0, "First entry id to stage for editing")
	historyEditCmd.Flags().Uint32Var(&editEndID, "end-id", 0, "Last entry id to stage for editing (0 = unbounded)")
}
