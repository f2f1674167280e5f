package web

import (
	"sort"
	"strconv"

	"fitlog/internal/timeutil"
	"fitlog/workout"
)

// LogRow is one workout formatted for the history table, newest day first.
type LogRow struct {
	Date     string
	Activity string
	Value    string
	Unit     string
}

func BuildLogRows(entries []workout.Entry) []LogRow {
	sorted := append([]workout.Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[j].Date.Before(sorted[i].Date)
	})

	out := make([]LogRow, 0, len(sorted))
	for _, entry := range sorted {
		out = append(out, LogRow{
			Date:     timeutil.FormatDay(entry.Date),
			Activity: entry.Activity,
			Value:    formatValue(entry.Value),
			Unit:     entry.Unit,
		})
	}
	return out
}

func formatValue(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
