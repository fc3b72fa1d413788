package view

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"flipclerk/facet"
	"flipclerk/internal/timeutil"
)

const (
	StyleLines      = "lines"
	StyleTabular    = "tabular"
	StyleSummarized = "summarized"
)

// History is an immutable snapshot of entries. All renderers are pure: they
// build strings and never touch the snapshot.
type History struct {
	entries []facet.EntryEdit
}

func NewHistory(entries []facet.EntryEdit) History {
	snapshot := append([]facet.EntryEdit(nil), entries...)
	sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].ID < snapshot[j].ID })
	return History{entries: snapshot}
}

// Since keeps entries starting at or after the threshold. A later threshold
// always yields a subset of an earlier threshold's result.
func (h History) Since(threshold time.Time) History {
	kept := make([]facet.EntryEdit, 0, len(h.entries))
	for _, entry := range h.entries {
		if !entry.Start.Before(threshold) {
			kept = append(kept, entry)
		}
	}
	return History{entries: kept}
}

func (h History) Entries() []facet.EntryEdit {
	return append([]facet.EntryEdit(nil), h.entries...)
}

func (h History) Len() int {
	return len(h.entries)
}

// Render dispatches on the style selector. Every known style is handled
// explicitly; an unknown style is an error, not a silent default.
func (h History) Render(style string) (string, error) {
	switch style {
	case StyleLines:
		return h.Lines(), nil
	case StyleTabular:
		return h.TableByDay(), nil
	case StyleSummarized:
		return h.Summarized(), nil
	default:
		return "", fmt.Errorf("unsupported history style %q (supported: %s, %s, %s)",
			style, StyleLines, StyleTabular, StyleSummarized)
	}
}

// Lines renders one line per entry, ascending by id.
func (h History) Lines() string {
	var b strings.Builder
	for _, entry := range h.entries {
		fmt.Fprintf(&b, "%5d  %s - %s  %s  %s",
			entry.ID,
			entry.Start.Local().Format("2006-01-02 15:04"),
			entry.End.Local().Format("2006-01-02 15:04"),
			timeutil.FormatDuration(entry.Duration()),
			entry.Facet,
		)
		if entry.Description != "" {
			fmt.Fprintf(&b, "  %s", entry.Description)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// TableByDay groups entries by local calendar day; each group renders its
// entries as rows plus a per-day duration subtotal.
func (h History) TableByDay() string {
	byDay := make(map[string][]facet.EntryEdit)
	for _, entry := range h.entries {
		day := timeutil.StartOfDay(entry.Start.Local()).Format("2006-01-02")
		byDay[day] = append(byDay[day], entry)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	header := color.New(color.Bold, color.Underline)
	subtotal := color.New(color.Faint)

	var b strings.Builder
	for i, day := range days {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(header.Sprint(day))
		b.WriteByte('\n')

		tbl := uitable.New()
		tbl.Separator = "  "

		total := time.Duration(0)
		for _, entry := range byDay[day] {
			total += entry.Duration()
			tbl.AddRow(
				fmt.Sprintf("%d", entry.ID),
				entry.Facet,
				entry.Start.Local().Format("15:04"),
				entry.End.Local().Format("15:04"),
				timeutil.FormatDuration(entry.Duration()),
				entry.Description,
			)
		}
		b.WriteString(tbl.String())
		b.WriteByte('\n')
		b.WriteString(subtotal.Sprintf("total %s", timeutil.FormatDuration(total)))
		b.WriteByte('\n')
	}
	return b.String()
}

// Summarized renders the total accumulated duration per facet over the
// whole filtered range.
func (h History) Summarized() string {
	totals := make(map[string]time.Duration)
	counts := make(map[string]int)
	for _, entry := range h.entries {
		totals[entry.Facet] += entry.Duration()
		counts[entry.Facet]++
	}

	labels := make([]string, 0, len(totals))
	for label := range totals {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("FACET", "TRACKED", "ENTRIES")
	for _, label := range labels {
		tbl.AddRow(label, timeutil.FormatDuration(totals[label]), fmt.Sprintf("%d", counts[label]))
	}

	return tbl.String() + "\n"
}
