// Package codecs provides the codecs command.
package codecs

import (
	"fmt"
	"reflect"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leefowlercu/uesave-converter/internal/config"
	"github.com/leefowlercu/uesave-converter/internal/headers"
	"github.com/leefowlercu/uesave-converter/internal/structs"
)

// CodecsCmd lists the save classes with custom headers and the registered
// struct transcoders.
var CodecsCmd = &cobra.Command{
	Use:   "codecs",
	Short: "List custom header and struct codecs",
	Long: "List custom header and struct codecs.\n\n" +
		"Shows every save class path that carries a title-specific header, the header " +
		"variant it decodes with, and every struct type handled by a dedicated transcoder. " +
		"Saves of any other class convert with the generic property reader.",
	Example: `  # List codecs
  uesave codecs`,
	Args:    cobra.NoArgs,
	PreRunE: validateCodecs,
	RunE:    runCodecs,
}

func validateCodecs(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	return nil
}

func runCodecs(cmd *cobra.Command, args []string) error {
	policy := headers.DefaultPolicy()
	if cfg := config.Get(); cfg != nil {
		policy = headers.Policy{
			MinSaveGameVersion: cfg.Headers.MinSaveGameVersion,
			LegacyProbe:        cfg.Headers.LegacyProbe,
		}
	}

	tbl, err := headers.DefaultTable(policy)
	if err != nil {
		return fmt.Errorf("failed to build header table; %w", err)
	}
	registry, err := structs.DefaultRegistry()
	if err != nil {
		return fmt.Errorf("failed to build struct registry; %w", err)
	}

	out := cmd.OutOrStdout()

	hw := table.NewWriter()
	hw.SetOutputMirror(out)
	hw.SetStyle(table.StyleRounded)
	hw.SetTitle("Custom headers")
	hw.AppendHeader(table.Row{"Save Class", "Header"})
	for _, d := range tbl.Entries() {
		hw.AppendRow(table.Row{d.ClassPath, d.Kind.String()})
	}
	gate := fmt.Sprintf("save game version >= %d", policy.MinSaveGameVersion)
	if policy.LegacyProbe {
		gate = "legacy probe"
	}
	hw.AppendFooter(table.Row{"detection", gate})
	hw.Render()

	fmt.Fprintln(out)

	sw := table.NewWriter()
	sw.SetOutputMirror(out)
	sw.SetStyle(table.StyleRounded)
	sw.SetTitle("Struct transcoders")
	sw.AppendHeader(table.Row{"Struct Type", "Transcoder"})
	for _, name := range registry.TypeNames() {
		sw.AppendRow(table.Row{name, transcoderName(registry.Lookup(name))})
	}
	sw.Render()

	return nil
}

func transcoderName(t structs.Transcoder) string {
	typ := reflect.TypeOf(t)
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ.Name()
}
