package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage fitlog configuration file values.",
	Long: `Create, edit, display, and delete the fitlog configuration file.

The configuration stores application-wide values, chart goals, and import rules:
- storage.file / storage.seed_sample_data
- server.port
- log.level / log.file / log.json
- goals[].activity / target
- rules[].name / mapper / file_template / activity / unit`,
	Example: `
  # Create default config in $HOME/.fitlog.yaml
  fitlog config create

  # Show active config and source file
  fitlog config show

  # Open active config in editor (creates example if missing)
  fitlog config edit

  # Add one import rule interactively
  fitlog config rule add

  # Set a goal line for an activity's chart
  fitlog config goal set Running 10

  # Delete active config file
  fitlog config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
