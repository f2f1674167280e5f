package output

import (
	"fitlog/workout"
	"fmt"
	"math"
	"time"
)

// ActivitySummary describes the progress of one activity over its
// date-sorted entries.
type ActivitySummary struct {
	Activity    string
	Unit        string
	Workouts    int
	PeakValue   float64
	PeakDate    time.Time
	LatestValue float64
	LatestDate  time.Time
	FirstValue  float64
	FirstDate   time.Time
	Change      float64
	HasChange   bool
}

// BuildActivitySummaries groups entries by activity, keeping the
// first-appearance order of the activities.
func BuildActivitySummaries(entries []workout.Entry) []ActivitySummary {
	if len(entries) == 0 {
		return []ActivitySummary{}
	}

	byActivity := make(map[string][]workout.Entry)
	for _, entry := range entries {
		byActivity[entry.Activity] = append(byActivity[entry.Activity], entry)
	}

	activities := workout.Activities(entries)
	summaries := make([]ActivitySummary, 0, len(activities))
	for _, activity := range activities {
		summaries = append(summaries, summarizeActivity(activity, byActivity[activity]))
	}

	return summaries
}

// SummarizeActivity builds the summary for a single activity. The second
// return value is false when the activity has no entries.
func SummarizeActivity(activity string, entries []workout.Entry) (ActivitySummary, bool) {
	matching := workout.FilterByActivity(entries, activity)
	if len(matching) == 0 {
		return ActivitySummary{}, false
	}
	return summarizeActivity(activity, matching), true
}

func summarizeActivity(activity string, entries []workout.Entry) ActivitySummary {
	sorted := workout.SortByDate(entries)

	first := sorted[0]
	latest := sorted[len(sorted)-1]

	// Ties on the maximum keep the earliest date attaining it.
	peak := sorted[0]
	for _, entry := range sorted[1:] {
		if entry.Value > peak.Value {
			peak = entry
		}
	}

	summary := ActivitySummary{
		Activity:    activity,
		Unit:        first.Unit,
		Workouts:    len(sorted),
		PeakValue:   peak.Value,
		PeakDate:    peak.Date,
		LatestValue: latest.Value,
		LatestDate:  latest.Date,
		FirstValue:  first.Value,
		FirstDate:   first.Date,
	}
	if len(sorted) > 1 {
		summary.Change = round2(latest.Value - first.Value)
		summary.HasChange = true
	}

	return summary
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func WriteActivitySummaries(path, format string, summaries []ActivitySummary) error {
	switch normalizeFormat(format) {
	case "csv":
		return writeActivitySummariesCSV(path, summaries)
	case "excel", "xlsx":
		return writeActivitySummariesExcel(path, summaries)
	default:
		return fmt.Errorf("unsupported output format for activity summaries: %s", format)
	}
}

func formatChange(summary ActivitySummary) string {
	if !summary.HasChange {
		return "N/A"
	}
	return fmt.Sprintf("%+.2f", summary.Change)
}
