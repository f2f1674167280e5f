package cmd

import (
	"fmt"
	"strings"

	"fitlog/config"
	"fitlog/importer"
	"fitlog/internal/classify"
	"fitlog/storage"

	"github.com/spf13/cobra"
)

var (
	importInputs         []string
	importFormat         string
	importMapper         string
	importActivity       string
	importUnit           string
	importFile           string
	importKeepDuplicates bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import CSV/Excel workout exports into the local data file",
	Long: `Read source files, normalize each row via the selected mapper, and append the
results to the workout data file.

Use mapper "workouts" for exports that already carry date/activity/value/unit
columns and mapper "generic" for loosely structured CSV/Excel inputs whose
missing columns are filled from --activity/--unit.
When --format is omitted, format is inferred from each input file extension.
When --mapper is omitted, a rules entry from the config whose file_template
matches the input is used, falling back to "workouts".

Rows identical to an already logged workout (same day, activity, value, and
unit) are skipped unless --keep-duplicates is set.`,
	Example: `
  # Import a tracker export with explicit mapper
  fitlog import -i tracker_export.csv --mapper workouts

  # Import multiple Excel exports
  fitlog import -i phone_2026-07.xlsx -i phone_2026-08.xlsx --mapper workouts

  # Import a generic CSV, filling missing columns from flags
  fitlog import -i sessions.csv --mapper generic --activity Running --unit km

  # Let a configured rule pick mapper and defaults
  fitlog import -i tracker_export_2026.csv

  # Keep rows that duplicate existing workouts
  fitlog import -i tracker_export.csv --keep-duplicates

  # Import with custom config file
  fitlog --configFile ./custom-fitlog.yaml import -i ./source.xlsx
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		mapperName := resolveImportMapperName(importMapper, importInputs, cfg.Rules)
		mapper, err := importer.MapperByName(mapperName)
		if err != nil {
			return err
		}

		result, err := importer.Run(importInputs, importFormat, mapper, *cfg, importer.RunOptions{
			Activity: importActivity,
			Unit:     importUnit,
		})
		if err != nil {
			return err
		}

		dataFile := resolveDataFile(cmd.Flags().Changed("file"), importFile, cfg)
		store, err := storage.OpenCSV(dataFile, false)
		if err != nil {
			return err
		}

		toAdd := result.Entries
		duplicates := 0
		if !importKeepDuplicates {
			existing, err := store.List()
			if err != nil {
				return err
			}
			toAdd, duplicates = classify.ClassifyImportEntries(result.Entries, existing)
		}

		persisted, err := store.AppendAll(toAdd)
		if err != nil {
			return err
		}

		fmt.Printf("Import completed. Files: %d, Rows read: %d, Rows mapped: %d, Rows skipped: %d, Duplicates skipped: %d, Rows persisted: %d\n",
			result.FilesProcessed,
			result.RowsRead,
			result.RowsMapped,
			result.RowsSkipped,
			duplicates,
			persisted,
		)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringArrayVarP(&importInputs, "input", "i", nil, "Input file path (repeatable)")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "Input format: csv|excel (optional, inferred from extension when omitted)")
	importCmd.Flags().StringVarP(&importMapper, "mapper", "m", "", "Mapper to normalize input data: workouts|generic (optional, inferred from config rules when omitted)")
	importCmd.Flags().StringVar(&importActivity, "activity", "", "Default activity for rows without one (overrides matching config rule)")
	importCmd.Flags().StringVar(&importUnit, "unit", "", "Default unit for rows without one (overrides matching config rule)")
	importCmd.Flags().StringVar(&importFile, "file", "", "Workout data file (overrides storage.file from config)")
	importCmd.Flags().BoolVar(&importKeepDuplicates, "keep-duplicates", false, "Append rows even when an identical workout is already logged")

	_ = importCmd.MarkFlagRequired("input")
}

// resolveImportMapperName picks the mapper for this run: the explicit flag
// wins, then the first config rule whose file_template matches an input,
// then the default "workouts" mapper.
func resolveImportMapperName(explicit string, inputs []string, rules []config.Rule) string {
	if name := strings.TrimSpace(explicit); name != "" {
		return name
	}
	for _, input := range inputs {
		rule := importer.MatchRuleByTemplate(input, rules)
		if strings.TrimSpace(rule.Mapper) != "" {
			return rule.Mapper
		}
	}
	return "workouts"
}
