// Package version provides the version command.
package version

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/uesave-converter/internal/version"
)

var versionJSON bool

// VersionCmd displays version and build information.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version and build information",
	Long: "Display version and build information.\n\n" +
		"Shows the version, git commit, build date, Go toolchain and platform of the uesave binary.",
	Example: `  # Display version information
  uesave version

  # Machine-readable output
  uesave version --json`,
	Args:    cobra.NoArgs,
	PreRunE: validateVersion,
	RunE:    runVersion,
}

func init() {
	VersionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print build information as JSON")
}

func validateVersion(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	return nil
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.Get()
	if !versionJSON {
		fmt.Fprintln(cmd.OutOrStdout(), info.String())
		return nil
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(info); err != nil {
		return fmt.Errorf("failed to encode version; %w", err)
	}
	return nil
}
