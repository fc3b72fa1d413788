package history

import (
	"sort"

	"flipclerk/facet"
)

// MergeOptions controls id bookkeeping for Merge.
type MergeOptions struct {
	// ZeroBasedIDs selects the follow-up fetch id for an empty merge
	// result: 0 for devices that number entries from 0, 1 otherwise.
	ZeroBasedIDs bool
	// NextStartID, when non-nil, overrides the computed follow-up fetch id.
	NextStartID *uint32
}

// Merge reconciles previously persisted entries with a batch fetched from
// the device. Incoming entries are sorted by id before merging; when an id
// is present on both sides the existing value wins and the incoming
// duplicate is dropped. A device resending an entry with changed fields
// therefore never rewrites history; corrections go through the edit
// workflow instead.
//
// The result is ascending by id with each id exactly once, alongside the id
// the next device fetch should start from. Merging the same batch twice
// yields the same result as merging it once.
func Merge(existing, incoming []facet.Entry, opts MergeOptions) ([]facet.Entry, uint32) {
	batch := append([]facet.Entry(nil), incoming...)
	sort.Slice(batch, func(i, j int) bool { return batch[i].ID < batch[j].ID })

	merged := append([]facet.Entry(nil), existing...)
	seen := make(map[uint32]struct{}, len(merged)+len(batch))
	for _, entry := range merged {
		seen[entry.ID] = struct{}{}
	}
	for _, entry := range batch {
		if _, dup := seen[entry.ID]; dup {
			continue
		}
		seen[entry.ID] = struct{}{}
		merged = append(merged, entry)
	}

	sort.Slice(merged, func(i, j int) bool { return merged[i].ID < merged[j].ID })
	return merged, NextStartID(merged, opts)
}

// NextStartID returns the id the next device fetch should start from:
// the override when supplied, else max(id)+1, else the device's first id.
func NextStartID(entries []facet.Entry, opts MergeOptions) uint32 {
	if opts.NextStartID != nil {
		return *opts.NextStartID
	}
	if len(entries) == 0 {
		if opts.ZeroBasedIDs {
			return 0
		}
		return 1
	}

	max := entries[0].ID
	for _, entry := range entries[1:] {
		if entry.ID > max {
			max = entry.ID
		}
	}
	return max + 1
}
