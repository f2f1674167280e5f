package importer

import (
	"fitlog/config"
	"fitlog/workout"
	"fmt"
)

// WorkoutsMapper maps the application's own column set: date, activity,
// value, unit (with "metric" accepted for unit). Labels are taken verbatim
// so re-importing an exported file round-trips exactly.
type WorkoutsMapper struct{}

func (m *WorkoutsMapper) Name() string {
	return "workouts"
}

func (m *WorkoutsMapper) Map(record Record, _ config.Config) (*workout.Entry, bool, error) {
	if record.IsBlank() {
		return nil, false, nil
	}

	date, err := parseDay(record.Get("date"))
	if err != nil {
		return nil, false, fmt.Errorf("row %d: parse date: %w", record.RowNumber, err)
	}

	activity := record.Get("activity")
	if activity == "" {
		return nil, false, fmt.Errorf("row %d: activity is required", record.RowNumber)
	}

	value, err := parseValue(record.Get("value"))
	if err != nil {
		return nil, false, fmt.Errorf("row %d: parse value: %w", record.RowNumber, err)
	}

	unit := record.Get("unit", "metric")
	if unit == "" {
		return nil, false, fmt.Errorf("row %d: unit is required", record.RowNumber)
	}

	entry := &workout.Entry{
		Date:     date,
		Activity: activity,
		Value:    value,
		Unit:     unit,
	}

	return entry, true, nil
}
