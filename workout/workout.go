package workout

import (
	"fitlog/internal/timeutil"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Entry is a single logged workout. Entries are kept in insertion order;
// there is no identifier beyond the position in the data file.
type Entry struct {
	Date     time.Time
	Activity string
	Value    float64
	Unit     string
}

// NormalizeActivity trims and title-cases a user-entered activity label,
// so "  running" and "RUNNING" both become "Running".
func NormalizeActivity(activity string) string {
	trimmed := strings.TrimSpace(activity)
	if trimmed == "" {
		return ""
	}
	return cases.Title(language.English).String(trimmed)
}

// Validate reports the first violated invariant of the entry.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Activity) == "" {
		return fmt.Errorf("activity is required")
	}
	if strings.TrimSpace(e.Unit) == "" {
		return fmt.Errorf("unit is required")
	}
	if math.IsNaN(e.Value) || math.IsInf(e.Value, 0) {
		return fmt.Errorf("value must be a number")
	}
	if e.Value < 0 {
		return fmt.Errorf("value must be zero or greater")
	}
	if e.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	return nil
}

// EntriesEquivalent reports whether two entries record the same workout:
// same calendar day, activity, value and unit.
func EntriesEquivalent(a, b Entry) bool {
	return timeutil.SameDay(a.Date, b.Date) &&
		a.Activity == b.Activity &&
		a.Value == b.Value &&
		a.Unit == b.Unit
}

// Activities returns the distinct activity labels in first-appearance order.
func Activities(entries []Entry) []string {
	seen := make(map[string]bool, len(entries))
	var activities []string
	for _, e := range entries {
		if seen[e.Activity] {
			continue
		}
		seen[e.Activity] = true
		activities = append(activities, e.Activity)
	}
	return activities
}

// FilterByActivity returns the entries whose activity matches exactly.
func FilterByActivity(entries []Entry, activity string) []Entry {
	var filtered []Entry
	for _, e := range entries {
		if e.Activity == activity {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// SortByDate returns a copy sorted by date ascending. The sort is stable,
// so entries on the same day keep their insertion order.
func SortByDate(entries []Entry) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}
