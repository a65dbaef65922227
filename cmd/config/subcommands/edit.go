package subcommands

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/uesave-converter/internal/config"
)

// EditCmd opens the configuration file in an editor.
var EditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the configuration file in an editor",
	Long: "Open the configuration file in an editor.\n\n" +
		"Uses $EDITOR, then $VISUAL, then the first of vim, vi or nano found on PATH. " +
		"When no config file exists one is created with default values first. " +
		"The edited file is validated when the editor exits.",
	Example: `  # Edit with the default editor
  uesave config edit

  # Edit with a specific editor
  EDITOR=code uesave config edit`,
	Args:    cobra.NoArgs,
	PreRunE: validateEdit,
	RunE:    runEdit,
}

func validateEdit(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	path := config.GetConfigPath()

	if !config.ConfigExistsAt(path) {
		cfg := config.NewDefaultConfig()
		if err := config.Write(&cfg, path, false); err != nil {
			return err
		}
	}

	editor := findEditor()
	if editor == "" {
		return fmt.Errorf("no editor found; set the EDITOR environment variable")
	}

	editorCmd := exec.CommandContext(cmd.Context(), editor, path)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor exited with error; %w", err)
	}

	if _, err := config.LoadFromPath(path); err != nil {
		return fmt.Errorf("edited configuration is invalid; %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved: %s\n", path)
	return nil
}

func findEditor() string {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if editor := os.Getenv(env); editor != "" {
			return editor
		}
	}

	for _, editor := range []string{"vim", "vi", "nano"} {
		if _, err := exec.LookPath(editor); err == nil {
			return editor
		}
	}

	return ""
}
