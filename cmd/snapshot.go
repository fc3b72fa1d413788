package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"flipclerk/cache"
	"flipclerk/config"
	"flipclerk/device"
	"flipclerk/facet"
	"flipclerk/history"
)

func deviceReader(cfg *config.Config) (*device.Client, error) {
	return device.NewClient(device.ClientConfig{
		BaseURL:   cfg.Device.URL,
		Password:  cfg.Device.Password,
		UserAgent: "flipclerk",
	})
}

// mergedSnapshot pulls new events from the device, reconciles them with the
// optional incremental cache and the recorded history file, and returns the
// combined view as editable entries. Recorded entries win over re-sent
// device events, so corrections made through "history edit" survive into
// every listing and export. startWith overrides the computed fetch id when
// non-nil. A cache write failure degrades to a warning; the snapshot itself
// is already complete at that point.
func mergedSnapshot(ctx context.Context, cfg *config.Config, cachePath string, startWith *uint32) ([]facet.EntryEdit, error) {
	reader, err := deviceReader(cfg)
	if err != nil {
		return nil, err
	}

	var existing []facet.Entry
	var store *cache.SQLite
	if cachePath != "" {
		store, err = cache.Open(cachePath)
		if err != nil {
			return nil, err
		}
		defer store.Close()

		existing, err = store.List()
		if err != nil {
			return nil, err
		}
	}

	opts := history.MergeOptions{ZeroBasedIDs: cfg.Device.ZeroBasedIDs, NextStartID: startWith}
	incoming, err := reader.FetchSince(ctx, history.NextStartID(existing, opts))
	if err != nil {
		return nil, fmt.Errorf("fetch device history: %w", err)
	}

	merged, _ := history.Merge(existing, incoming, history.MergeOptions{ZeroBasedIDs: cfg.Device.ZeroBasedIDs})

	if store != nil {
		if _, err := store.Put(incoming); err != nil {
			fmt.Fprintf(os.Stderr, "cannot update cache %s: %v\n", cachePath, err)
		}
	}

	names := cfg.FacetNames()
	edits := make([]facet.EntryEdit, 0, len(merged))
	for _, entry := range merged {
		edits = append(edits, facet.NewEntryEdit(entry, names))
	}

	historyPath, err := resolveHistoryPath("", cfg.History.File)
	if err != nil {
		return nil, err
	}
	recorded, err := history.NewStore(historyPath).Load()
	if err != nil {
		return nil, err
	}

	return history.Apply(edits, recorded), nil
}

// parseSinceDate parses a YYYY-MM-DD flag as local midnight of that day.
func parseSinceDate(value string) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", value)
	}
	return day, nil
}

// resolveHistoryPath picks the history file: explicit flag, then config,
// then $HOME/.flipclerk/history.json.
func resolveHistoryPath(flagValue, configValue string) (string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue, nil
	}
	if strings.TrimSpace(configValue) != "" {
		return configValue, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".flipclerk", "history.json"), nil
}
