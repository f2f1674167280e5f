package storage

import (
	"encoding/csv"
	"fitlog/internal/timeutil"
	"fitlog/workout"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

var dataHeader = []string{"date", "activity", "value", "unit"}

// CSVStore persists workout entries as rows of a single local CSV file.
// Rows stay in insertion order; the file is the entire persisted state.
type CSVStore struct {
	path string
	mu   sync.Mutex
}

// OpenCSV opens the data file at path, creating it with the header row when
// missing. A newly created file is seeded with a handful of sample workouts
// when seedSample is true, so the dashboard has something to show on first
// run. An existing empty file only gets the header.
func OpenCSV(path string, seedSample bool) (*CSVStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("data file path is required")
	}

	store := &CSVStore{path: path}

	info, err := os.Stat(path)
	switch {
	case err == nil:
		if info.IsDir() {
			return nil, fmt.Errorf("data file path %s is a directory", path)
		}
		if info.Size() == 0 {
			if err := store.create(false); err != nil {
				return nil, err
			}
		}
	case os.IsNotExist(err):
		if err := store.create(seedSample); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("stat data file: %w", err)
	}

	return store, nil
}

// Path returns the location of the underlying data file.
func (s *CSVStore) Path() string {
	return s.path
}

// Append validates and appends a single entry.
func (s *CSVStore) Append(entry workout.Entry) error {
	_, err := s.AppendAll([]workout.Entry{entry})
	return err
}

// AppendAll validates every entry first and then appends them in order,
// returning the number of rows written. No rows are written when any entry
// is invalid.
func (s *CSVStore) AppendAll(entries []workout.Entry) (int, error) {
	for i, entry := range entries {
		if err := entry.Validate(); err != nil {
			return 0, fmt.Errorf("entry %d: %w", i+1, err)
		}
	}
	if len(entries) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// The file may have been removed out-of-band; recreate the header so
	// the appended rows stay readable.
	if info, err := os.Stat(s.path); os.IsNotExist(err) || (err == nil && info.Size() == 0) {
		if err := s.create(false); err != nil {
			return 0, err
		}
	}

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open data file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	for _, entry := range entries {
		if err := writer.Write(encodeEntry(entry)); err != nil {
			return 0, fmt.Errorf("write data row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, fmt.Errorf("flush data file: %w", err)
	}

	return len(entries), nil
}

// List reads all entries in file order. A missing file reads as empty; a
// malformed row is an error naming the row number.
func (s *CSVStore) List() ([]workout.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open data file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read data header: %w", err)
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	var entries []workout.Entry
	rowNumber := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNumber++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNumber, err)
		}
		entry, err := decodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNumber, err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func (s *CSVStore) create(seedSample bool) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}

	file, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create data file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(dataHeader); err != nil {
		return fmt.Errorf("write data header: %w", err)
	}
	if seedSample {
		for _, entry := range SampleEntries() {
			if err := writer.Write(encodeEntry(entry)); err != nil {
				return fmt.Errorf("write sample row: %w", err)
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush data file: %w", err)
	}

	return nil
}

// SampleEntries returns the rows seeded into a freshly created data file.
func SampleEntries() []workout.Entry {
	day := func(d int) time.Time { return time.Date(2025, 7, d, 0, 0, 0, 0, time.Local) }
	return []workout.Entry{
		{Date: day(1), Activity: "Running", Value: 2.5, Unit: "km"},
		{Date: day(3), Activity: "Running", Value: 2.8, Unit: "km"},
		{Date: day(7), Activity: "Running", Value: 3.2, Unit: "km"},
		{Date: day(10), Activity: "Running", Value: 4.5, Unit: "km"},
		{Date: day(2), Activity: "Push-ups", Value: 30, Unit: "reps"},
		{Date: day(5), Activity: "Push-ups", Value: 35, Unit: "reps"},
		{Date: day(9), Activity: "Push-ups", Value: 38, Unit: "reps"},
	}
}

func encodeEntry(entry workout.Entry) []string {
	return []string{
		timeutil.FormatDay(entry.Date),
		entry.Activity,
		strconv.FormatFloat(entry.Value, 'f', -1, 64),
		entry.Unit,
	}
}

func decodeRow(row []string) (workout.Entry, error) {
	if len(row) < 4 {
		return workout.Entry{}, fmt.Errorf("expected 4 fields, got %d", len(row))
	}

	date, err := timeutil.ParseDay(strings.TrimSpace(row[0]))
	if err != nil {
		return workout.Entry{}, err
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
	if err != nil {
		return workout.Entry{}, fmt.Errorf("invalid value %q", row[2])
	}

	return workout.Entry{
		Date:     date,
		Activity: row[1],
		Value:    value,
		Unit:     row[3],
	}, nil
}

func validateHeader(header []string) error {
	if len(header) != len(dataHeader) {
		return fmt.Errorf("unexpected data header %v (want date,activity,value,unit)", header)
	}
	for i, column := range header {
		got := strings.ToLower(strings.TrimSpace(column))
		if got == dataHeader[i] {
			continue
		}
		// The historical column name for unit.
		if i == 3 && got == "metric" {
			continue
		}
		return fmt.Errorf("unexpected data header %v (want date,activity,value,unit)", header)
	}
	return nil
}
