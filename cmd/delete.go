package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fitlog/config"

	"github.com/spf13/cobra"
)

var (
	deleteFile string
)

var (
	deletePromptInput  io.Reader = os.Stdin
	deletePromptOutput io.Writer = os.Stdout
)

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the complete workout data file",
	Long: `Destructive data cleanup command.

This command always deletes the complete workout data file.
Before deletion, an interactive security prompt requires typing exactly "Y".`,
	Example: `
  # Delete the complete data file (requires interactive confirmation)
  fitlog delete

  # Delete an explicit data file
  fitlog delete --file ./workouts.csv
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		dataFile := resolveDataFile(cmd.Flags().Changed("file"), deleteFile, cfg)

		confirmed, err := confirmDeletePrompt(deletePromptInput, deletePromptOutput, dataFile)
		if err != nil {
			return err
		}
		if !confirmed {
			return fmt.Errorf("delete aborted: confirmation was not 'Y'")
		}

		if err := removeDataFile(dataFile); err != nil {
			return err
		}
		fmt.Printf("Deleted data file: %s\n", dataFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().StringVar(&deleteFile, "file", "", "Workout data file (overrides storage.file from config)")
}

func confirmDeletePrompt(input io.Reader, output io.Writer, path string) (bool, error) {
	if input == nil {
		return false, fmt.Errorf("delete confirmation input is not available")
	}

	if output == nil {
		output = io.Discard
	}

	if _, err := fmt.Fprintf(output, "Delete data file %q? Type Y to confirm: ", path); err != nil {
		return false, fmt.Errorf("write delete confirmation prompt: %w", err)
	}

	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			line = strings.TrimSpace(line)
			return line == "Y", nil
		}
		return false, fmt.Errorf("read delete confirmation: %w", err)
	}
	return strings.TrimSpace(line) == "Y", nil
}

func removeDataFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("data file not found: %s", path)
		}
		return fmt.Errorf("stat data file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("data path is a directory: %s", path)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete data file: %w", err)
	}
	return nil
}
