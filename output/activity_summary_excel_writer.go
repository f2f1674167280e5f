package output

import (
	"fitlog/internal/timeutil"
	"fmt"

	"github.com/xuri/excelize/v2"
)

func writeActivitySummariesExcel(path string, summaries []ActivitySummary) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	headers := []string{"Activity", "Unit", "Workouts", "PeakValue", "PeakDate", "LatestValue", "LatestDate", "FirstValue", "FirstDate", "Change"}

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, summary := range summaries {
		row := i + 2
		values := []string{
			summary.Activity,
			summary.Unit,
			fmt.Sprintf("%d", summary.Workouts),
			fmt.Sprintf("%.2f", summary.PeakValue),
			timeutil.FormatDay(summary.PeakDate),
			fmt.Sprintf("%.2f", summary.LatestValue),
			timeutil.FormatDay(summary.LatestDate),
			fmt.Sprintf("%.2f", summary.FirstValue),
			timeutil.FormatDay(summary.FirstDate),
			formatChange(summary),
		}

		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set excel value %s: %w", cell, err)
			}
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}
