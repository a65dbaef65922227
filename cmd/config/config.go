// Package config provides the config parent command and subcommands.
package config

import (
	"github.com/spf13/cobra"

	"github.com/leefowlercu/uesave-converter/cmd/config/subcommands"
)

// ConfigCmd is the parent command for all config-related subcommands.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage uesave configuration",
	Long: "Manage uesave configuration.\n\n" +
		"Settings are read from config.yaml in $UESAVE_CONFIG_DIR, ~/.config/uesave or the " +
		"current directory, in that order. Any key can be overridden with an environment " +
		"variable named UESAVE_ followed by the key path in upper case, with dots as underscores.",
}

func init() {
	ConfigCmd.AddCommand(subcommands.ShowCmd)
	ConfigCmd.AddCommand(subcommands.ValidateCmd)
	ConfigCmd.AddCommand(subcommands.InitCmd)
	ConfigCmd.AddCommand(subcommands.EditCmd)
	ConfigCmd.AddCommand(subcommands.ResetCmd)
}
