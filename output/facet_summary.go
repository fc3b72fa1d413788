package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"flipclerk/facet"
)

// FacetSummary aggregates total tracked time per facet label over the whole
// exported range.
type FacetSummary struct {
	Facet        string
	TrackedHours float64
	EntryCount   int
}

func BuildFacetSummaries(entries []facet.EntryEdit) []FacetSummary {
	totals := make(map[string]time.Duration)
	counts := make(map[string]int)
	for _, entry := range entries {
		duration := entry.End.Sub(entry.Start)
		if duration < 0 {
			duration = 0
		}
		totals[entry.Facet] += duration
		counts[entry.Facet]++
	}

	labels := make([]string, 0, len(totals))
	for label := range totals {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	summaries := make([]FacetSummary, 0, len(labels))
	for _, label := range labels {
		summaries = append(summaries, FacetSummary{
			Facet:        label,
			TrackedHours: roundHours(totals[label].Hours()),
			EntryCount:   counts[label],
		})
	}
	return summaries
}

func WriteFacetSummaries(path, format string, summaries []FacetSummary) error {
	switch normalizeFormat(format) {
	case "csv":
		return writeFacetSummariesCSV(path, summaries)
	case "excel", "xlsx":
		return writeFacetSummariesExcel(path, summaries)
	default:
		return fmt.Errorf("unsupported output format for facet summaries: %s", format)
	}
}

func writeFacetSummariesCSV(path string, summaries []FacetSummary) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{"Facet", "TrackedHours", "EntryCount"}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, summary := range summaries {
		row := []string{
			summary.Facet,
			fmt.Sprintf("%.2f", summary.TrackedHours),
			strconv.Itoa(summary.EntryCount),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}

func writeFacetSummariesExcel(path string, summaries []FacetSummary) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	headers := []string{"Facet", "TrackedHours", "EntryCount"}

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, summary := range summaries {
		row := i + 2
		values := []string{
			summary.Facet,
			fmt.Sprintf("%.2f", summary.TrackedHours),
			fmt.Sprintf("%d", summary.EntryCount),
		}

		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set excel value %s: %w", cell, err)
			}
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}
