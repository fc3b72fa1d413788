package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"flipclerk/facet"
)

// ErrCorrupt marks a history file that exists but cannot be parsed. It is
// never silently treated as an empty history.
var ErrCorrupt = errors.New("corrupt history file")

// Store reads and writes the durable entry history at a fixed path. The
// path is supplied by the caller; the store performs no ambient lookups.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load returns the persisted entries in ascending id order. A missing file
// is an empty history.
func (s *Store) Load() ([]facet.EntryEdit, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []facet.EntryEdit{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history file %s: %w", s.path, err)
	}

	var entries []facet.EntryEdit
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}

	sortByID(entries)
	return entries, nil
}

// Persist writes entries atomically: marshal to a temp file next to the
// target, then rename over it. A failed write never clobbers prior content.
func (s *Store) Persist(entries []facet.EntryEdit) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history entries: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create history directory %s: %w", dir, err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write history temp file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace history file %s: %w", s.path, err)
	}

	return nil
}

// Apply folds an edited batch into entries: records with a matching id are
// replaced by the batch's version, new ids are inserted in order, unrelated
// ids stay untouched. Unlike Merge, the batch wins on collision; this is
// the commit primitive of the edit workflow.
func Apply(entries, batch []facet.EntryEdit) []facet.EntryEdit {
	byID := make(map[uint32]facet.EntryEdit, len(entries)+len(batch))
	for _, entry := range entries {
		byID[entry.ID] = entry
	}
	for _, entry := range batch {
		byID[entry.ID] = entry
	}

	result := make([]facet.EntryEdit, 0, len(byID))
	for _, entry := range byID {
		result = append(result, entry)
	}
	sortByID(result)
	return result
}

func sortByID(entries []facet.EntryEdit) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
}
