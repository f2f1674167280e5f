package cmd

import (
	"fmt"
	"strings"
	"time"

	"fitlog/config"
	"fitlog/internal/timeutil"
	"fitlog/storage"
	"fitlog/workout"

	"github.com/spf13/cobra"
)

var (
	addActivity string
	addValue    float64
	addUnit     string
	addDate     string
	addFile     string
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a workout from the terminal",
	Long: `Append a single workout entry to the data file without opening the dashboard.

The date defaults to today when omitted. The activity name is normalized to
title case so "running" and "Running" land in the same series.`,
	Example: `
  fitlog add --activity Running --value 5.2 --unit km
  fitlog add --activity Push-ups --value 40 --unit reps --date 2026-08-01
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		entry, err := buildAddEntry(addDate, addActivity, addValue, addUnit)
		if err != nil {
			return err
		}

		dataFile := resolveDataFile(cmd.Flags().Changed("file"), addFile, cfg)
		store, err := storage.OpenCSV(dataFile, false)
		if err != nil {
			return err
		}
		if err := store.Append(entry); err != nil {
			return err
		}

		fmt.Printf("Workout logged: %s %.2f %s on %s\n",
			entry.Activity, entry.Value, entry.Unit, timeutil.FormatDay(entry.Date))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVar(&addActivity, "activity", "", "Activity name, e.g. Running")
	addCmd.Flags().Float64Var(&addValue, "value", 0, "Measured value, e.g. 5.2")
	addCmd.Flags().StringVar(&addUnit, "unit", "", "Unit of the value, e.g. km")
	addCmd.Flags().StringVar(&addDate, "date", "", "Workout date as YYYY-MM-DD (default: today)")
	addCmd.Flags().StringVar(&addFile, "file", "", "Workout data file (overrides storage.file from config)")

	_ = addCmd.MarkFlagRequired("activity")
	_ = addCmd.MarkFlagRequired("value")
	_ = addCmd.MarkFlagRequired("unit")
}

func buildAddEntry(date, activity string, value float64, unit string) (workout.Entry, error) {
	day := timeutil.StartOfDay(time.Now())
	if strings.TrimSpace(date) != "" {
		parsed, err := timeutil.ParseDay(strings.TrimSpace(date))
		if err != nil {
			return workout.Entry{}, err
		}
		day = parsed
	}

	entry := workout.Entry{
		Date:     day,
		Activity: workout.NormalizeActivity(activity),
		Value:    value,
		Unit:     strings.TrimSpace(unit),
	}
	if err := entry.Validate(); err != nil {
		return workout.Entry{}, err
	}
	return entry, nil
}
