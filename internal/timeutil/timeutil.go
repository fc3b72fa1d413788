package timeutil

import (
	"fmt"
	"time"
)

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// FormatDuration renders a duration as hours and minutes, e.g. "1h 15m".
// Sub-minute remainders are rounded; negative values clamp to zero.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Minute)
	hours := int(d / time.Hour)
	minutes := int(d/time.Minute) - hours*60
	return fmt.Sprintf("%dh %02dm", hours, minutes)
}
