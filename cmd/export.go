package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"flipclerk/config"
	"flipclerk/output"
	"flipclerk/view"
)

var (
	exportMode       string
	exportFormat     string
	exportOutputPath string
	exportUpdatePath string
	exportSince      string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the merged history to a CSV or Excel file.",
	Long: `Fetch new events from the cube, merge them with the incremental cache, and
write the result to a spreadsheet-friendly file.

Modes:
  raw    one row per recorded entry
  daily  one row per calendar day with tracked and break hours
  facets one row per facet with total tracked time

The output format is taken from --format, or derived from the output file
extension when the flag is empty.`,
	Example: `
  # All entries as CSV
  flipclerk export --output entries.csv

  # Per-day summary since March as an Excel workbook
  flipclerk export --mode daily --since 2026-03-01 --output march.xlsx

  # Totals per facet, cached incrementally
  flipclerk export --mode facets --update ./cube.db --output totals.csv
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		format, err := detectExportFormat(exportFormat, exportOutputPath)
		if err != nil {
			return err
		}

		cachePath := exportUpdatePath
		if cachePath == "" {
			cachePath = cfg.Cache.File
		}

		entries, err := mergedSnapshot(cmd.Context(), cfg, cachePath, nil)
		if err != nil {
			return err
		}

		if exportSince != "" {
			threshold, err := parseSinceDate(exportSince)
			if err != nil {
				return err
			}
			entries = view.NewHistory(entries).Since(threshold).Entries()
		}

		switch exportMode {
		case "raw":
			writer, err := output.WriterForFormat(format)
			if err != nil {
				return err
			}
			if err := writer.Write(exportOutputPath, entries); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
		case "daily":
			if err := output.WriteDailySummaries(exportOutputPath, format, output.BuildDailySummaries(entries)); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
		case "facets":
			if err := output.WriteFacetSummaries(exportOutputPath, format, output.BuildFacetSummaries(entries)); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
		default:
			return fmt.Errorf("unknown export mode %q (expected raw, daily or facets)", exportMode)
		}

		fmt.Printf("Exported %d entries to %s\n", len(entries), exportOutputPath)
		return nil
	},
}

// detectExportFormat resolves the output format from the flag, falling back
// to the output file extension.
func detectExportFormat(flagValue, outputPath string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".csv":
		return "csv", nil
	case ".xlsx":
		return "excel", nil
	}
	return "", fmt.Errorf("cannot detect export format from %q, use --format", outputPath)
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportMode, "mode", "raw", "Export mode: raw, daily or facets")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Output format: csv or excel (default: from file extension)")
	exportCmd.Flags().StringVarP(&exportOutputPath, "output", "o", "", "Output file path")
	exportCmd.Flags().StringVar(&exportUpdatePath, "update", "", "SQLite cache file to read and update incrementally")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "Only export entries starting on or after this date (YYYY-MM-DD)")

	if err := exportCmd.MarkFlagRequired("output"); err != nil {
		panic(err)
	}
}
