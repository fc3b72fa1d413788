package facet

import (
	"fmt"
	"time"
)

// Facet is the zero-based index of one physical face of the tracking cube.
type Facet int

// String renders the 1-based numbering printed on the cube itself.
func (f Facet) String() string {
	return fmt.Sprintf("facet %d", int(f)+1)
}

// Entry is one interval reported by the device. Entries are immutable once
// reported; the device assigns ids monotonically.
type Entry struct {
	ID       uint32
	Facet    Facet
	Time     time.Time
	Duration time.Duration
}

// EntryEdit is the editable projection of an Entry: the facet resolved to a
// human-readable label, absolute start/end times, and a free-text
// description. It is the record shape persisted in the history file.
type EntryEdit struct {
	ID          uint32    `json:"id"`
	Facet       string    `json:"facet" validate:"required"`
	Start       time.Time `json:"start_time" validate:"required"`
	End         time.Time `json:"end_time" validate:"required"`
	Description string    `json:"description"`
}

// NewEntryEdit converts a device entry, resolving the facet label through
// names (index to label). Unnamed facets keep the numeric form.
func NewEntryEdit(entry Entry, names map[Facet]string) EntryEdit {
	label := names[entry.Facet]
	if label == "" {
		label = entry.Facet.String()
	}
	return EntryEdit{
		ID:    entry.ID,
		Facet: label,
		Start: entry.Time,
		End:   entry.Time.Add(entry.Duration),
	}
}

// Duration is the elapsed time between start and end.
func (e EntryEdit) Duration() time.Duration {
	return e.End.Sub(e.Start)
}
