/*
Copyright © 2026 fitlog authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"github.com/spf13/viper"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fitlog/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fitlog",
	Short: "Log workouts, chart progress, and import fitness data from multiple source formats.",
	Long: `
**********************************************
*                   FITLOG                   *
**********************************************

This CLI logs workouts into a local CSV file, serves a browser dashboard with
per-activity progress charts, imports source files (Excel, CSV) from other
trackers, and exports raw rows or per-activity summaries to CSV or Excel.

Supported input formats:
- Excel: .xlsx, .xlsm, .xls
- CSV: .csv
`,
	Example: `
  # Create configuration file
  fitlog config create

  # Start the web dashboard
  fitlog serve

  # Log a workout from the terminal
  fitlog add --activity Running --value 5.2 --unit km

  # Import workouts exported from another tracker
  fitlog import -i tracker_export.csv --mapper workouts

  # Import a generic CSV, filling missing columns from flags
  fitlog import -i sessions.csv --mapper generic --activity Running --unit km

  # Export raw rows
  fitlog export --mode raw --output ./workouts-export.csv

  # Export per-activity summary to Excel
  fitlog export --mode summary --output ./summary.xlsx
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	// Here you will define your flags and configuration settings.
	// Cobra supports persistent flags, which, if defined here,
	// will be global for your application.

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.fitlog.yaml, then ./.fitlog.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".fitlog" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".fitlog")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found. Create one first with: fitlog config create")
	}
}

// resolveDataFile prefers an explicit --file flag over the configured
// storage.file path.
func resolveDataFile(flagChanged bool, flagValue string, cfg *config.Config) string {
	if flagChanged && strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	return cfg.Storage.File
}
