package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"fitlog/config"
	"fitlog/output"
	"fitlog/storage"

	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportMode   string
	exportOutput string
	exportFile   string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export logged workouts to CSV/Excel",
	Long: `Export logged workouts from the data file.

Modes:
- raw: export each workout row (date, activity, value, unit)
- summary: export per-activity aggregates (workouts, peak, latest, change)

Output format can be selected explicitly via --format or inferred from --output extension.`,
	Example: `
  # Export raw rows to CSV
  fitlog export --mode raw --output ./workouts-export.csv

  # Export raw rows to Excel
  fitlog export --mode raw --output ./workouts-export.xlsx

  # Export per-activity summary to CSV
  fitlog export --mode summary --output ./summary.csv

  # Force Excel format independent of extension
  fitlog export --mode summary --format excel --output ./summary.out
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		format := exportFormat
		if strings.TrimSpace(format) == "" {
			format = detectExportFormat(exportOutput)
		}

		dataFile := resolveDataFile(cmd.Flags().Changed("file"), exportFile, cfg)
		store, err := storage.OpenCSV(dataFile, false)
		if err != nil {
			return err
		}

		entries, err := store.List()
		if err != nil {
			return err
		}

		mode := strings.TrimSpace(strings.ToLower(exportMode))
		switch mode {
		case "", "raw":
			writer, writerErr := output.WriterForFormat(format)
			if writerErr != nil {
				return writerErr
			}
			if err := writer.Write(exportOutput, entries); err != nil {
				return err
			}
			fmt.Printf("Export completed. Rows: %d, Mode: raw, Format: %s, File: %s\n", len(entries), format, exportOutput)
		case "summary":
			summaries := output.BuildActivitySummaries(entries)
			if err := output.WriteActivitySummaries(exportOutput, format, summaries); err != nil {
				return err
			}
			fmt.Printf("Export completed. Activities: %d, Mode: summary, Format: %s, File: %s\n", len(summaries), format, exportOutput)
		default:
			return fmt.Errorf("unsupported export mode: %s (supported: raw, summary)", exportMode)
		}
		return nil
	},
}

func detectExportFormat(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	switch ext {
	case "csv":
		return "csv"
	case "xlsx", "xlsm", "xls":
		return "excel"
	default:
		return "csv"
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportMode, "mode", "raw", "Export mode: raw|summary")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Output format: csv|excel (optional, inferred from output extension)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().StringVar(&exportFile, "file", "", "Workout data file (overrides storage.file from config)")

	_ = exportCmd.MarkFlagRequired("output")
}
