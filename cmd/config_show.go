package cmd

import (
	"fmt"
	"github.com/spf13/viper"

	"github.com/spf13/cobra"

	"fitlog/config"
)

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values.`,
	Example: `
  # Show active configuration
  fitlog config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", viper.ConfigFileUsed())
			fmt.Println("Configuration:")
			fmt.Printf("storage.file: %s\n", cfg.Storage.File)
			fmt.Printf("storage.seed_sample_data: %t\n", cfg.Storage.SeedSampleData)
			fmt.Printf("server.port: %d\n", cfg.Server.Port)
			fmt.Printf("log.level: %s\n", cfg.Log.Level)
			fmt.Printf("log.file: %s\n", cfg.Log.File)
			fmt.Printf("log.json: %t\n", cfg.Log.JSON)
			fmt.Printf("goals: %d\n", len(cfg.Goals))
			for i, goal := range cfg.Goals {
				fmt.Printf("goals[%d].activity: %s\n", i, goal.Activity)
				fmt.Printf("goals[%d].target: %.2f\n", i, goal.Target)
			}
			fmt.Printf("rules: %d\n", len(cfg.Rules))
			for i, rule := range cfg.Rules {
				fmt.Printf("rules[%d].name: %s\n", i, rule.Name)
				fmt.Printf("rules[%d].mapper: %s\n", i, rule.Mapper)
				fmt.Printf("rules[%d].file_template: %s\n", i, rule.FileTemplate)
				fmt.Printf("rules[%d].activity: %s\n", i, rule.Activity)
				fmt.Printf("rules[%d].unit: %s\n", i, rule.Unit)
			}
		}

	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
