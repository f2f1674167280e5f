package output

import (
	"encoding/csv"
	"fitlog/internal/timeutil"
	"fmt"
	"os"
	"strconv"
)

func writeActivitySummariesCSV(path string, summaries []ActivitySummary) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{"Activity", "Unit", "Workouts", "PeakValue", "PeakDate", "LatestValue", "LatestDate", "FirstValue", "FirstDate", "Change"}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, summary := range summaries {
		row := []string{
			summary.Activity,
			summary.Unit,
			strconv.Itoa(summary.Workouts),
			fmt.Sprintf("%.2f", summary.PeakValue),
			timeutil.FormatDay(summary.PeakDate),
			fmt.Sprintf("%.2f", summary.LatestValue),
			timeutil.FormatDay(summary.LatestDate),
			fmt.Sprintf("%.2f", summary.FirstValue),
			timeutil.FormatDay(summary.FirstDate),
			formatChange(summary),
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
