package subcommands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/uesave-converter/internal/config"
)

var (
	initPath  string
	initForce bool
)

// InitCmd writes a config file populated with defaults.
var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with default values",
	Long: "Write a configuration file with default values.\n\n" +
		"Creates config.yaml in the config directory, or at --path, listing every " +
		"setting with its default. An existing file is left alone unless --force is given.",
	Example: `  # Create ~/.config/uesave/config.yaml
  uesave config init

  # Create a project-local config
  uesave config init --path ./config.yaml`,
	Args:    cobra.NoArgs,
	PreRunE: validateInit,
	RunE:    runInit,
}

func init() {
	InitCmd.Flags().StringVar(&initPath, "path", "", "Where to write the config file (default: config directory)")
	InitCmd.Flags().BoolVar(&initForce, "force", false, "Replace an existing config file")
}

func validateInit(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	return nil
}

func runInit(cmd *cobra.Command, args []string) error {
	path := initPath
	if path == "" {
		path = config.DefaultConfigPath()
	}

	cfg := config.NewDefaultConfig()
	if err := config.Write(&cfg, path, initForce); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration written: %s\n", config.ExpandPath(path))
	return nil
}
