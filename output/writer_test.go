package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"flipclerk/facet"
)

func TestWriterForFormat(t *testing.T) {
	t.Parallel()

	if _, err := WriterForFormat("csv"); err != nil {
		t.Fatalf("expected csv writer: %v", err)
	}
	if _, err := WriterForFormat(" Excel "); err != nil {
		t.Fatalf("expected excel writer for padded value: %v", err)
	}
	if _, err := WriterForFormat("xlsx"); err != nil {
		t.Fatalf("expected excel writer for xlsx: %v", err)
	}
	if _, err := WriterForFormat("pdf"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestCSVWriter_WritesEntries(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "entries.csv")
	entries := []facet.EntryEdit{
		entry(t, 1, "work", "2026-03-02T09:00:00Z", "2026-03-02T09:30:00Z"),
		entry(t, 2, "break", "2026-03-02T09:30:00Z", "2026-03-02T10:15:00Z"),
	}

	writer := &CSVWriter{}
	if err := writer.Write(path, entries); err != nil {
		t.Fatalf("write entries: %v", err)
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
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "1" || rows[1][1] != "work" || rows[1][4] != "30" {
		t.Fatalf("unexpected first row: %+v", rows[1])
	}
	if rows[2][4] != "45" {
		t.Fatalf("expected 45 minute duration, got %+v", rows[2])
	}
}

func TestBuildFacetSummaries(t *testing.T) {
	t.Parallel()

	entries := []facet.EntryEdit{
		entry(t, 1, "work", "2026-03-02T09:00:00Z", "2026-03-02T10:00:00Z"),
		entry(t, 2, "break", "2026-03-02T10:00:00Z", "2026-03-02T10:15:00Z"),
		entry(t, 3, "work", "2026-03-03T09:00:00Z", "2026-03-03T09:30:00Z"),
	}

	summaries := BuildFacetSummaries(entries)
	if len(summaries) != 2 {
		t.Fatalf("expected 2 facet summaries, got %d", len(summaries))
	}

	// Sorted by label: break first, then work.
	if summaries[0].Facet != "break" || summaries[0].EntryCount != 1 {
		t.Fatalf("unexpected break summary: %+v", summaries[0])
	}
	if summaries[1].Facet != "work" || summaries[1].EntryCount != 2 {
		t.Fatalf("unexpected work summary: %+v", summaries[1])
	}
	assertFloatEqual(t, 1.50, summaries[1].TrackedHours, "work tracked hours")
}

func TestWriteFacetSummariesCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "facets.csv")
	entries := []facet.EntryEdit{
		entry(t, 1, "work", "2026-03-02T09:00:00Z", "2026-03-02T10:00:00Z"),
	}

	if err := WriteFacetSummaries(path, "csv", BuildFacetSummaries(entries)); err != nil {
		t.Fatalf("write facet summaries: %v", err)
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
	if len(rows) != 2 || rows[1][0] != "work" || rows[1][1] != "1.00" {
		t.Fatalf("unexpected csv content: %+v", rows)
	}
}
