package output

import (
	"fmt"
	"math"
	"sort"
	"time"

	"flipclerk/facet"
	"flipclerk/internal/timeutil"
)

// DailySummary aggregates one local calendar day of history: the first and
// last tracked moment, total tracked hours, and the uncovered gaps in
// between.
type DailySummary struct {
	Date         string
	Start        time.Time
	End          time.Time
	TrackedHours float64
	BreakHours   float64
	EntryCount   int
}

type interval struct {
	start time.Time
	end   time.Time
}

func BuildDailySummaries(entries []facet.EntryEdit) []DailySummary {
	if len(entries) == 0 {
		return []DailySummary{}
	}

	sorted := append([]facet.EntryEdit(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	summaries := make([]DailySummary, 0)
	group := []facet.EntryEdit{sorted[0]}
	for _, entry := range sorted[1:] {
		if timeutil.SameDay(entry.Start.In(time.Local), group[0].Start.In(time.Local)) {
			group = append(group, entry)
			continue
		}
		summaries = append(summaries, summarizeDay(group))
		group = []facet.EntryEdit{entry}
	}
	summaries = append(summaries, summarizeDay(group))

	return summaries
}

func summarizeDay(entries []facet.EntryEdit) DailySummary {
	day := timeutil.StartOfDay(entries[0].Start.In(time.Local)).Format("2006-01-02")
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Start.Equal(entries[j].Start) {
			return entries[i].End.Before(entries[j].End)
		}
		return entries[i].Start.Before(entries[j].Start)
	})

	start := entries[0].Start
	end := entries[len(entries)-1].End
	if end.Before(start) {
		end = start
	}

	tracked := time.Duration(0)
	intervals := make([]interval, 0, len(entries))
	for _, entry := range entries {
		if entry.End.After(entry.Start) {
			tracked += entry.End.Sub(entry.Start)
		}
		intervals = append(intervals, interval{start: entry.Start, end: entry.End})
	}

	span := end.Sub(start)
	covered := mergedCoverageWithinWindow(intervals, start, end)
	breaks := span - covered
	if breaks < 0 {
		breaks = 0
	}

	return DailySummary{
		Date:         day,
		Start:        start,
		End:          end,
		TrackedHours: roundHours(tracked.Hours()),
		BreakHours:   roundHours(breaks.Hours()),
		EntryCount:   len(entries),
	}
}

func mergedCoverageWithinWindow(intervals []interval, windowStart, windowEnd time.Time) time.Duration {
	if len(intervals) == 0 {
		return 0
	}
	if !windowEnd.After(windowStart) {
		return 0
	}

	clipped := make([]interval, 0, len(intervals))
	for _, candidate := range intervals {
		start := maxTime(candidate.start, windowStart)
		end := minTime(candidate.end, windowEnd)
		if end.After(start) {
			clipped = append(clipped, interval{start: start, end: end})
		}
	}
	if len(clipped) == 0 {
		return 0
	}

	sort.Slice(clipped, func(i, j int) bool {
		return clipped[i].start.Before(clipped[j].start)
	})

	currentStart := clipped[0].start
	currentEnd := clipped[0].end
	covered := time.Duration(0)

	for _, candidate := range clipped[1:] {
		if candidate.start.After(currentEnd) {
			covered += currentEnd.Sub(currentStart)
			currentStart = candidate.start
			currentEnd = candidate.end
			continue
		}

		if candidate.end.After(currentEnd) {
			currentEnd = candidate.end
		}
	}

	covered += currentEnd.Sub(currentStart)
	return covered
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func roundHours(value float64) float64 {
	return math.Round(value*100) / 100
}

func WriteDailySummaries(path, format string, summaries []DailySummary) error {
	switch normalizeFormat(format) {
	case "csv":
		return writeDailySummariesCSV(path, summaries)
	case "excel", "xlsx":
		return writeDailySummariesExcel(path, summaries)
	default:
		return fmt.Errorf("unsupported output format for daily summaries: %s", format)
	}
}
