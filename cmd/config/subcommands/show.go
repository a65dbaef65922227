package subcommands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leefowlercu/uesave-converter/internal/config"
)

var (
	showFormat string
	showRaw    bool
)

// ShowCmd displays the effective configuration.
var ShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Long: "Display the effective configuration.\n\n" +
		"Prints every setting after defaults, the config file and environment overrides " +
		"have been applied. Use --format to choose yaml, toml or json, or --raw to print " +
		"the config file exactly as written.",
	Example: `  # Show effective configuration as YAML
  uesave config show

  # Show as TOML
  uesave config show --format toml

  # Show the config file as written
  uesave config show --raw`,
	Args:    cobra.NoArgs,
	PreRunE: validateShow,
	RunE:    runShow,
}

func init() {
	ShowCmd.Flags().StringVar(&showFormat, "format", "yaml", "Output format: yaml, toml or json")
	ShowCmd.Flags().BoolVar(&showRaw, "raw", false, "Print the config file as written")
}

func validateShow(cmd *cobra.Command, args []string) error {
	switch showFormat {
	case "yaml", "toml", "json":
	default:
		return fmt.Errorf("unsupported format %q; must be yaml, toml or json", showFormat)
	}

	// All errors after this are runtime errors
	cmd.SilenceUsage = true
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if showRaw {
		return showRawConfig(out)
	}

	cfg := config.Get()
	if cfg == nil {
		defaults := config.NewDefaultConfig()
		cfg = &defaults
	}

	data, err := marshalConfig(cfg, showFormat)
	if err != nil {
		return err
	}

	if showFormat != "json" {
		fmt.Fprintf(out, "# Effective configuration (file: %s)\n", sourceLabel())
	}
	_, err = out.Write(data)
	return err
}

func showRawConfig(out io.Writer) error {
	path := config.GetConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(out, "# No configuration file found; default location: %s\n", path)
			return nil
		}
		return fmt.Errorf("failed to read config file; %w", err)
	}

	fmt.Fprintf(out, "# Configuration file: %s\n", path)
	_, err = out.Write(data)
	return err
}

func marshalConfig(cfg *config.Config, format string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case "toml":
		data, err = toml.Marshal(cfg)
	case "json":
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	default:
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to format configuration as %s; %w", format, err)
	}
	return data, nil
}

func sourceLabel() string {
	if path := config.ConfigFilePath(); path != "" {
		return path
	}
	return "none, defaults"
}
