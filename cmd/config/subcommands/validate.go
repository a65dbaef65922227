package subcommands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/uesave-converter/internal/config"
)

var errInvalidConfig = errors.New("configuration is invalid")

// ValidateCmd validates a configuration file.
var ValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a configuration file",
	Long: "Validate a configuration file.\n\n" +
		"Parses the config file and checks every setting. Without a path the active " +
		"config file is checked. Exits 0 when valid and 1 otherwise.",
	Example: `  # Validate the active configuration
  uesave config validate

  # Validate a specific file
  uesave config validate ./config.yaml`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: validateValidate,
	RunE:    runValidate,
}

func validateValidate(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	path := config.GetConfigPath()
	if len(args) == 1 {
		path = args[0]
	} else if !config.ConfigExistsAt(path) {
		fmt.Fprintf(out, "No configuration file found at %s\n", path)
		fmt.Fprintln(out, "Using default configuration values.")
		return nil
	}

	if _, err := config.LoadFromPath(path); err != nil {
		fmt.Fprintln(out, "Configuration validation failed:")
		fmt.Fprintf(out, "  %v\n", err)
		return errInvalidConfig
	}

	fmt.Fprintf(out, "Configuration is valid: %s\n", config.ExpandPath(path))
	return nil
}
