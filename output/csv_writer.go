package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"flipclerk/facet"
)

type CSVWriter struct{}

func (w *CSVWriter) Write(path string, entries []facet.EntryEdit) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{"ID", "Facet", "Start", "End", "DurationMinutes", "Description"}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, entry := range entries {
		row := []string{
			strconv.FormatUint(uint64(entry.ID), 10),
			entry.Facet,
			entry.Start.Format(time.RFC3339),
			entry.End.Format(time.RFC3339),
			strconv.Itoa(int(entry.Duration() / time.Minute)),
			entry.Description,
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
