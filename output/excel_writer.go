package output

import (
	"fitlog/internal/timeutil"
	"fitlog/workout"
	"fmt"

	"github.com/xuri/excelize/v2"
)

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, entries []workout.Entry) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	headers := []string{"Date", "Activity", "Value", "Unit"}

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, entry := range entries {
		row := i + 2

		dateCell, _ := excelize.CoordinatesToCellName(1, row)
		if err := file.SetCellValue(sheet, dateCell, timeutil.FormatDay(entry.Date)); err != nil {
			return fmt.Errorf("set excel value %s: %w", dateCell, err)
		}
		activityCell, _ := excelize.CoordinatesToCellName(2, row)
		if err := file.SetCellValue(sheet, activityCell, entry.Activity); err != nil {
			return fmt.Errorf("set excel value %s: %w", activityCell, err)
		}
		valueCell, _ := excelize.CoordinatesToCellName(3, row)
		if err := file.SetCellValue(sheet, valueCell, entry.Value); err != nil {
			return fmt.Errorf("set excel value %s: %w", valueCell, err)
		}
		unitCell, _ := excelize.CoordinatesToCellName(4, row)
		if err := file.SetCellValue(sheet, unitCell, entry.Unit); err != nil {
			return fmt.Errorf("set excel value %s: %w", unitCell, err)
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}
