package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

func writeDailySummariesCSV(path string, summaries []DailySummary) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{"Date", "StartTime", "EndTime", "TrackedHours", "BreakHours", "EntryCount"}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, summary := range summaries {
		row := []string{
			summary.Date,
			summary.Start.Format("15:04"),
			summary.End.Format("15:04"),
			fmt.Sprintf("%.2f", summary.TrackedHours),
			fmt.Sprintf("%.2f", summary.BreakHours),
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
