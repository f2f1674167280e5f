package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"fitlog/config"
	"fitlog/importer"
	"fitlog/workout"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var configRuleAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Interactively add one import rule.",
	Long: `Choose a mapper, name the rule, and set the file template it matches, then
store a new rules entry in config.

A rule may also carry a default activity and unit. Imports whose file name
matches the template pick up the rule's mapper and defaults automatically.`,
	Example: `
  # Add one rule interactively
  fitlog config rule add

  # Add a rule to a custom config file
  fitlog --configFile ./custom-fitlog.yaml config rule add
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
		if err != nil {
			return err
		}

		_, err = ensureConfigFileWithTemplate(configPath)
		if err != nil {
			return err
		}

		viper.SetConfigFile(configPath)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %q: %w", configPath, err)
		}

		reader := bufio.NewReader(os.Stdin)
		mapperNames := importer.SupportedMapperNames()
		if len(mapperNames) == 0 {
			return fmt.Errorf("no mappers are available")
		}
		selectedMapperIdx, err := promptSelectIndex(
			reader,
			os.Stdout,
			"Select mapper:",
			mapperNames,
		)
		if err != nil {
			return err
		}
		selectedMapper := mapperNames[selectedMapperIdx]

		ruleName, err := promptRequiredString(reader, os.Stdout, "Rule name")
		if err != nil {
			return err
		}
		fileTemplate, err := promptRequiredString(reader, os.Stdout, "File template (example: tracker_export_*.csv)")
		if err != nil {
			return err
		}
		defaultActivity, err := promptOptionalString(reader, os.Stdout, "Default activity (empty to skip)")
		if err != nil {
			return err
		}
		defaultUnit, err := promptOptionalString(reader, os.Stdout, "Default unit (empty to skip)")
		if err != nil {
			return err
		}

		newRule := config.Rule{
			Name:         ruleName,
			Mapper:       strings.ToLower(strings.TrimSpace(selectedMapper)),
			FileTemplate: fileTemplate,
			Unit:         defaultUnit,
		}
		if defaultActivity != "" {
			newRule.Activity = workout.NormalizeActivity(defaultActivity)
		}

		current, err := os.ReadFile(configPath)
		if err != nil {
			return fmt.Errorf("read config file: %w", err)
		}

		updated, err := appendRuleToConfigYAML(current, newRule)
		if err != nil {
			return err
		}

		if err := os.WriteFile(configPath, updated, 0o600); err != nil {
			return fmt.Errorf("write config file: %w", err)
		}

		fmt.Println("Rule added successfully.")
		fmt.Printf("Config:   %s\n", configPath)
		fmt.Printf("Name:     %s\n", newRule.Name)
		fmt.Printf("Mapper:   %s\n", newRule.Mapper)
		fmt.Printf("Template: %s\n", newRule.FileTemplate)
		if newRule.Activity != "" {
			fmt.Printf("Activity: %s\n", newRule.Activity)
		}
		if newRule.Unit != "" {
			fmt.Printf("Unit:     %s\n", newRule.Unit)
		}
		return nil
	},
}

func promptSelectIndex(reader *bufio.Reader, out io.Writer, title string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, fmt.Errorf("no options available for %q", title)
	}

	for {
		fmt.Fprintln(out, title)
		for i, option := range options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, option)
		}
		fmt.Fprintf(out, "Choose [1-%d]: ", len(options))

		input, err := reader.ReadString('\n')
		if err != nil {
			return -1, fmt.Errorf("read selection input: %w", err)
		}
		input = strings.TrimSpace(input)
		choice, err := strconv.Atoi(input)
		if err != nil || choice < 1 || choice > len(options) {
			fmt.Fprintln(out, "Invalid selection. Please enter a valid number.")
			continue
		}
		return choice - 1, nil
	}
}

func promptRequiredString(reader *bufio.Reader, out io.Writer, label string) (string, error) {
	for {
		fmt.Fprintf(out, "%s: ", strings.TrimSpace(label))
		input, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("read %s: %w", strings.TrimSpace(strings.ToLower(label)), err)
		}
		value := strings.TrimSpace(input)
		if value == "" {
			fmt.Fprintln(out, "Value must not be empty.")
			continue
		}
		return value, nil
	}
}

func promptOptionalString(reader *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprintf(out, "%s: ", strings.TrimSpace(label))
	input, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read %s: %w", strings.TrimSpace(strings.ToLower(label)), err)
	}
	return strings.TrimSpace(input), nil
}

func appendRuleToConfigYAML(content []byte, rule config.Rule) ([]byte, error) {
	if strings.TrimSpace(rule.Name) == "" {
		return nil, fmt.Errorf("rule name is required")
	}
	if strings.TrimSpace(rule.Mapper) == "" {
		return nil, fmt.Errorf("mapper is required")
	}
	if strings.TrimSpace(rule.FileTemplate) == "" {
		return nil, fmt.Errorf("file template is required")
	}

	doc := map[string]any{}
	if strings.TrimSpace(string(content)) != "" {
		if err := yaml.Unmarshal(content, &doc); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	}

	rulesList, err := ensureSliceAny(doc, "rules")
	if err != nil {
		return nil, err
	}

	for _, existing := range rulesList {
		ruleMap, ok := existing.(map[string]any)
		if !ok {
			continue
		}
		existingName, _ := ruleMap["name"].(string)
		if strings.EqualFold(strings.TrimSpace(existingName), strings.TrimSpace(rule.Name)) {
			return nil, fmt.Errorf("rule with name %q already exists", rule.Name)
		}
	}

	entry := map[string]any{
		"name":          rule.Name,
		"mapper":        rule.Mapper,
		"file_template": rule.FileTemplate,
	}
	if strings.TrimSpace(rule.Activity) != "" {
		entry["activity"] = rule.Activity
	}
	if strings.TrimSpace(rule.Unit) != "" {
		entry["unit"] = rule.Unit
	}
	rulesList = append(rulesList, entry)
	doc["rules"] = rulesList

	updated, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal updated config yaml: %w", err)
	}
	if _, err := config.ValidateYAMLContent(updated); err != nil {
		return nil, fmt.Errorf("updated config is invalid: %w", err)
	}
	return updated, nil
}

func ensureSliceAny(doc map[string]any, key string) ([]any, error) {
	raw, exists := doc[key]
	if !exists || raw == nil {
		result := []any{}
		doc[key] = result
		return result, nil
	}
	result, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("config key %q must be a list", key)
	}
	return result, nil
}

func init() {
	configRuleCmd.AddCommand(configRuleAddCmd)
}
