package importer

import (
	"fitlog/config"
	"fitlog/workout"
	"fmt"
	"strings"
)

// GenericMapper maps loosely structured CSV/Excel inputs by trying common
// header aliases. Files without an activity column can supply one through
// an import rule or the --activity flag; the same goes for unit.
type GenericMapper struct{}

func (m *GenericMapper) Name() string {
	return "generic"
}

func (m *GenericMapper) Map(record Record, cfg config.Config) (*workout.Entry, bool, error) {
	activity := fallback(record.Get("activity", "exercise", "workout", "movement"), cfg.ImportActivity)
	if activity == "" {
		return nil, false, nil
	}

	date, err := parseDay(record.Get("date", "day", "when", "workout date"))
	if err != nil {
		return nil, false, fmt.Errorf("row %d: parse date: %w", record.RowNumber, err)
	}

	value, err := parseValue(record.Get("value", "amount", "result", "measurement"))
	if err != nil {
		return nil, false, fmt.Errorf("row %d: parse value: %w", record.RowNumber, err)
	}

	unit := fallback(record.Get("unit", "units", "metric", "measure", "uom"), cfg.ImportUnit)
	if unit == "" {
		return nil, false, fmt.Errorf("row %d: unit is required (set --unit or add an import rule)", record.RowNumber)
	}

	entry := &workout.Entry{
		Date:     date,
		Activity: workout.NormalizeActivity(activity),
		Value:    value,
		Unit:     unit,
	}

	return entry, true, nil
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return strings.TrimSpace(defaultValue)
	}
	return strings.TrimSpace(value)
}
