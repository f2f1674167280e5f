package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"fitlog/config"
	"fitlog/workout"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configGoalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Manage chart goal lines in config.",
	Long: `Manage goals stored under config key goals.

A goal draws a horizontal target line in the dashboard chart of its activity.`,
}

var configGoalSetCmd = &cobra.Command{
	Use:   "set <activity> <target>",
	Short: "Set or replace the goal line for an activity.",
	Example: `
  # Aim for a 10 km run
  fitlog config goal set Running 10

  # Goals match activities case-insensitively
  fitlog config goal set push-ups 50
`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid target %q: expected a number", args[1])
		}
		activity := workout.NormalizeActivity(args[0])

		configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}
		if _, err := ensureConfigFileWithTemplate(configPath); err != nil {
			return err
		}

		current, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("read config file: %w", err)
		}

		updated, err := setGoalInConfigYAML(current, activity, target)
		if err != nil {
			return err
		}

		if err := os.WriteFile(configPath, updated, 0o600); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}

		fmt.Printf("Goal saved: %s -> %s\n", activity, strconv.FormatFloat(target, 'f', -1, 64))
		return nil
	},
}

var configGoalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured goal lines.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		if len(cfg.Goals) == 0 {
			fmt.Println("No goals configured.")
			return nil
		}
		for _, goal := range cfg.Goals {
			fmt.Printf("%s: %s\n", goal.Activity, strconv.FormatFloat(goal.Target, 'f', -1, 64))
		}
		return nil
	},
}

// setGoalInConfigYAML replaces the goal of activity (case-insensitive) or
// appends a new goals entry.
func setGoalInConfigYAML(content []byte, activity string, target float64) ([]byte, error) {
	if strings.TrimSpace(activity) == "" {
		return nil, fmt.Errorf("activity is required")
	}
	if target <= 0 {
		return nil, fmt.Errorf("target must be > 0")
	}

	doc := map[string]any{}
	if strings.TrimSpace(string(content)) != "" {
		if err := yaml.Unmarshal(content, &doc); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	}

	goalsList, err := ensureSliceAny(doc, "goals")
	if err != nil {
		return nil, err
	}

	replaced := false
	for _, existing := range goalsList {
		goalMap, ok := existing.(map[string]any)
		if !ok {
			continue
		}
		existingActivity, _ := goalMap["activity"].(string)
		if strings.EqualFold(strings.TrimSpace(existingActivity), strings.TrimSpace(activity)) {
			goalMap["target"] = target
			replaced = true
			break
		}
	}
	if !replaced {
		goalsList = append(goalsList, map[string]any{
			"activity": activity,
			"target":   target,
		})
	}
	doc["goals"] = goalsList

	updated, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal updated config yaml: %w", err)
	}
	if _, err := config.ValidateYAMLContent(updated); err != nil {
		return nil, fmt.Errorf("updated config is invalid: %w", err)
	}
	return updated, nil
}

func init() {
	configCmd.AddCommand(configGoalCmd)
	configGoalCmd.AddCommand(configGoalSetCmd)
	configGoalCmd.AddCommand(configGoalListCmd)
}
