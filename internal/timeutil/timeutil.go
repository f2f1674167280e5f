package timeutil

import (
	"fmt"
	"time"
)

// DayFormat is the calendar-date layout used in the data file and the UI.
const DayFormat = "2006-01-02"

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func ParseDay(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(DayFormat, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format (expected YYYY-MM-DD): %q", value)
	}
	return parsed, nil
}

func FormatDay(value time.Time) string {
	return value.Format(DayFormat)
}
