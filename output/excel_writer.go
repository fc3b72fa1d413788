package output

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"flipclerk/facet"
)

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, entries []facet.EntryEdit) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	headers := []string{"ID", "Facet", "Start", "End", "DurationMinutes", "Description"}

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, entry := range entries {
		row := i + 2
		values := []string{
			strconv.FormatUint(uint64(entry.ID), 10),
			entry.Facet,
			entry.Start.Format(time.RFC3339),
			entry.End.Format(time.RFC3339),
			strconv.Itoa(int(entry.Duration() / time.Minute)),
			entry.Description,
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
