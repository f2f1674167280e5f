package output

import (
	"encoding/csv"
	"fitlog/internal/timeutil"
	"fitlog/workout"
	"fmt"
	"os"
	"strconv"
)

type CSVWriter struct{}

func (w *CSVWriter) Write(path string, entries []workout.Entry) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{"Date", "Activity", "Value", "Unit"}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, entry := range entries {
		row := []string{
			timeutil.FormatDay(entry.Date),
			entry.Activity,
			strconv.FormatFloat(entry.Value, 'f', -1, 64),
			entry.Unit,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}
