package config

import (
	"bytes"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"strings"
)

const (
	KeyStorageFile           = "storage.file"
	KeyStorageSeedSampleData = "storage.seed_sample_data"
	KeyServerPort            = "server.port"
	KeyLogLevel              = "log.level"
	KeyLogFile               = "log.file"
	KeyLogJSON               = "log.json"
	KeyGoals                 = "goals"
	KeyRules                 = "rules"
)

type Config struct {
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Goals   []Goal        `mapstructure:"goals"`
	Rules   []Rule        `mapstructure:"rules"`

	// Runtime-only values resolved per imported file (not loaded from config).
	ImportActivity string `mapstructure:"-"`
	ImportUnit     string `mapstructure:"-"`
}

type StorageConfig struct {
	File           string `mapstructure:"file" validate:"required"`
	SeedSampleData bool   `mapstructure:"seed_sample_data"`
}

type ServerConfig struct {
	Port int `mapstructure:"port" validate:"gte=1,lte=65535"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
	JSON  bool   `mapstructure:"json"`
}

// Goal is a default target line for one activity's progress chart.
type Goal struct {
	Activity string  `mapstructure:"activity"`
	Target   float64 `mapstructure:"target"`
}

// Rule supplies import defaults for files matching a name template.
type Rule struct {
	Name         string `mapstructure:"name"`
	Mapper       string `mapstructure:"mapper"`
	FileTemplate string `mapstructure:"file_template"`
	Activity     string `mapstructure:"activity"`
	Unit         string `mapstructure:"unit"`
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	return `# fitlog configuration
storage:
  file: "./workouts.csv"
  seed_sample_data: true

server:
  port: 8080

log:
  level: "info"
  file: ""
  json: false

goals: []

rules: []
`
}

// GoalForActivity returns the configured target for an activity, matched
// case-insensitively.
func (c *Config) GoalForActivity(activity string) (float64, bool) {
	for _, goal := range c.Goals {
		if strings.EqualFold(strings.TrimSpace(goal.Activity), strings.TrimSpace(activity)) {
			return goal.Target, true
		}
	}
	return 0, false
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateGoals(cfg.Goals); err != nil {
		return nil, err
	}
	if err := validateRules(cfg.Rules); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyStorageFile, "./workouts.csv")
	v.SetDefault(KeyStorageSeedSampleData, true)
	v.SetDefault(KeyServerPort, 8080)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogJSON, false)
	v.SetDefault(KeyGoals, []map[string]any{})
	v.SetDefault(KeyRules, []map[string]any{})
}

func validateGoals(goals []Goal) error {
	seen := make(map[string]struct{}, len(goals))
	for i, goal := range goals {
		activity := strings.TrimSpace(goal.Activity)
		if activity == "" {
			return fmt.Errorf("validation failed: goals[%d].activity is required", i)
		}
		key := strings.ToLower(activity)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("validation failed: duplicate goal activity %q", activity)
		}
		seen[key] = struct{}{}
		if goal.Target <= 0 {
			return fmt.Errorf("validation failed: goals[%d].target must be > 0", i)
		}
	}
	return nil
}

func validateRules(rules []Rule) error {
	validMappers := map[string]bool{
		"workouts": true,
		"generic":  true,
	}
	seen := make(map[string]struct{}, len(rules))
	for i, rule := range rules {
		name := strings.TrimSpace(rule.Name)
		if name == "" {
			return fmt.Errorf("validation failed: rules[%d].name is required", i)
		}
		key := strings.ToLower(name)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("validation failed: duplicate rule name %q", name)
		}
		seen[key] = struct{}{}
		mapper := strings.ToLower(strings.TrimSpace(rule.Mapper))
		if mapper == "" {
			return fmt.Errorf("validation failed: rules[%d].mapper is required", i)
		}
		if !validMappers[mapper] {
			return fmt.Errorf(
				"validation failed: rules[%d].mapper %q is not supported (valid: workouts, generic)",
				i,
				rule.Mapper,
			)
		}
		if strings.TrimSpace(rule.FileTemplate) == "" {
			return fmt.Errorf("validation failed: rules[%d].file_template is required", i)
		}
	}
	return nil
}
