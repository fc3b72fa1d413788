package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"flipclerk/facet"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return parsed
}

func entry(t *testing.T, id uint32, label, start, end string) facet.EntryEdit {
	t.Helper()
	return facet.EntryEdit{
		ID:    id,
		Facet: label,
		Start: mustParse(t, start),
		End:   mustParse(t, end),
	}
}

func assertFloatEqual(t *testing.T, want, got float64, label string) {
	t.Helper()
	if diff := want - got; diff > 0.001 || diff < -0.001 {
		t.Fatalf("%s: expected %.2f, got %.2f", label, want, got)
	}
}

func TestBuildDailySummaries_TrackedAndBreakHours(t *testing.T) {
	t.Parallel()

	entries := []facet.EntryEdit{
		entry(t, 1, "work", "2026-03-02T08:00:00Z", "2026-03-02T09:00:00Z"),
		entry(t, 2, "work", "2026-03-02T09:30:00Z", "2026-03-02T10:30:00Z"),
		entry(t, 3, "work", "2026-03-02T11:00:00Z", "2026-03-02T12:00:00Z"),
	}

	summaries := BuildDailySummaries(entries)
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}

	summary := summaries[0]
	assertFloatEqual(t, 3.00, summary.TrackedHours, "tracked hours")
	assertFloatEqual(t, 1.00, summary.BreakHours, "break hours")
	if summary.EntryCount != 3 {
		t.Fatalf("expected 3 entries, got %d", summary.EntryCount)
	}
	if !summary.Start.Equal(entries[0].Start) || !summary.End.Equal(entries[2].End) {
		t.Fatalf("unexpected day window: %v - %v", summary.Start, summary.End)
	}
}

func TestBuildDailySummaries_OverlappingEntriesDoNotCreateBreaks(t *testing.T) {
	t.Parallel()

	entries := []facet.EntryEdit{
		entry(t, 1, "work", "2026-03-02T08:00:00Z", "2026-03-02T10:00:00Z"),
		entry(t, 2, "meeting", "2026-03-02T09:00:00Z", "2026-03-02T11:00:00Z"),
	}

	summaries := BuildDailySummaries(entries)
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}
	assertFloatEqual(t, 0.00, summaries[0].BreakHours, "break hours")
	assertFloatEqual(t, 4.00, summaries[0].TrackedHours, "tracked hours")
}

func TestBuildDailySummaries_SplitsByCalendarDay(t *testing.T) {
	t.Parallel()

	entries := []facet.EntryEdit{
		entry(t, 1, "work", "2026-03-02T08:00:00Z", "2026-03-02T09:00:00Z"),
		entry(t, 2, "work", "2026-03-04T08:00:00Z", "2026-03-04T09:00:00Z"),
	}

	summaries := BuildDailySummaries(entries)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].Date >= summaries[1].Date {
		t.Fatalf("expected days in ascending order: %+v", summaries)
	}
}

func TestWriteDailySummariesCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "daily.csv")
	entries := []facet.EntryEdit{
		entry(t, 1, "work", "2026-03-02T08:00:00Z", "2026-03-02T09:00:00Z"),
	}

	if err := WriteDailySummaries(path, "csv", BuildDailySummaries(entries)); err != nil {
		t.Fatalf("write daily summaries: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header plus 1 row, got %d rows", len(rows))
	}
	if rows[0][0] != "Date" || rows[1][3] != "1.00" {
		t.Fatalf("unexpected csv content: %+v", rows)
	}
}

func TestWriteDailySummaries_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	err := WriteDailySummaries(filepath.Join(t.TempDir(), "out.bin"), "parquet", nil)
	if err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestBuildDailySummaries_UnorderedInputGroupsByDay(t *testing.T) {
	t.Parallel()

	entries := []facet.EntryEdit{
		entry(t, 3, "work", "2026-03-04T12:00:00Z", "2026-03-04T13:00:00Z"),
		entry(t, 1, "work", "2026-03-02T12:00:00Z", "2026-03-02T13:00:00Z"),
		entry(t, 4, "break", "2026-03-04T13:00:00Z", "2026-03-04T13:30:00Z"),
		entry(t, 2, "work", "2026-03-02T13:00:00Z", "2026-03-02T14:00:00Z"),
	}

	summaries := BuildDailySummaries(entries)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].Date >= summaries[1].Date {
		t.Fatalf("expected days in ascending order: %+v", summaries)
	}
	if summaries[0].EntryCount != 2 || summaries[1].EntryCount != 2 {
		t.Fatalf("expected both days to hold 2 entries, got %+v", summaries)
	}
}
