package subcommands

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/uesave-converter/internal/config"
)

var resetConfirm bool

// ResetCmd removes the configuration file after backing it up.
var ResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset configuration to default values",
	Long: "Reset configuration to default values.\n\n" +
		"Renames the active config file to a timestamped backup so every setting " +
		"falls back to its default. Asks for confirmation unless --confirm is given.",
	Example: `  # Reset, asking first
  uesave config reset

  # Reset without asking
  uesave config reset --confirm`,
	Args:    cobra.NoArgs,
	PreRunE: validateReset,
	RunE:    runReset,
}

func init() {
	ResetCmd.Flags().BoolVar(&resetConfirm, "confirm", false, "Skip the confirmation question")
}

func validateReset(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	return nil
}

func runReset(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	path := config.GetConfigPath()

	if !config.ConfigExistsAt(path) {
		fmt.Fprintln(out, "No configuration file found. Using defaults.")
		return nil
	}

	if !resetConfirm {
		fmt.Fprintf(out, "This will move %s aside and restore defaults.\n", path)
		fmt.Fprint(out, "Are you sure? [y/N]: ")

		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			fmt.Fprintln(out, "Reset cancelled.")
			return nil
		}
	}

	backup := fmt.Sprintf("%s.backup.%d", path, time.Now().Unix())
	if err := os.Rename(path, backup); err != nil {
		return fmt.Errorf("failed to back up config file; %w", err)
	}

	fmt.Fprintf(out, "Backup created: %s\n", backup)
	fmt.Fprintln(out, "Configuration reset to defaults.")
	return nil
}
