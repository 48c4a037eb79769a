package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/airdesk/internal/config"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the airdesk config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a commented default config file",
	Long: `Write the default config, with every option documented, to path
(default: ~/.config/airdesk/config.yaml). An existing file is kept unless
--force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultConfigPath()
		if len(args) == 1 {
			path = config.ExpandHome(args[0])
		}
		if path == "" {
			return fmt.Errorf("cannot determine config path; pass one explicitly")
		}
		if fileExists(path) && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.WriteDefaultConfig(path); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a value in the active config file",
	Long: `Set a dotted key in the config file in use, keeping its comments.

Examples:
  airdesk config set backend.url http://localhost:9000
  airdesk config set ui.show_event_panel false`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := activeConfigPath()
		if path == "" {
			return fmt.Errorf("no config file in use; run `airdesk config init` first")
		}
		if err := config.SetValue(path, args[0], args[1]); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", args[0], args[1], path)
		return nil
	},
}

// activeConfigPath returns the file viper loaded, falling back to the
// explicit --config path or the user default.
func activeConfigPath() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
