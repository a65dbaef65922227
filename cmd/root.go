package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leefowlercu/uesave-converter/cmd/codecs"
	configcmd "github.com/leefowlercu/uesave-converter/cmd/config"
	versioncmd "github.com/leefowlercu/uesave-converter/cmd/version"
	"github.com/leefowlercu/uesave-converter/internal/cmdutil"
	"github.com/leefowlercu/uesave-converter/internal/config"
	"github.com/leefowlercu/uesave-converter/internal/converter"
	"github.com/leefowlercu/uesave-converter/internal/gvas"
	"github.com/leefowlercu/uesave-converter/internal/headers"
	"github.com/leefowlercu/uesave-converter/internal/logging"
	"github.com/leefowlercu/uesave-converter/internal/metrics"
	"github.com/leefowlercu/uesave-converter/internal/prompt"
	"github.com/leefowlercu/uesave-converter/internal/structs"
	"github.com/leefowlercu/uesave-converter/internal/tui/styles"
	"github.com/leefowlercu/uesave-converter/internal/version"
)

// errIncomplete is returned when the run finished but not every file converted.
// The status line has already reported it.
var errIncomplete = errors.New("conversion did not complete successfully")

// logManager is created in bootstrap mode and upgraded once config is loaded.
var logManager *logging.Manager

var (
	convertToJSON         bool
	convertToSav          bool
	includeSubdirectories bool
	fileFilter            string
	overwrite             bool
)

var uesaveCmd = &cobra.Command{
	Use:   "uesave [flags] <input> [output]",
	Short: "Convert Unreal Engine save games to and from JSON",
	Long: "Convert Unreal Engine save games to and from JSON.\n\n" +
		"The input may be a single .sav or .json file, or a directory of them. " +
		"For a file the direction is inferred from its extension unless --to-json or --to-sav is given, " +
		"and the output defaults to a file beside the input. A directory input needs an explicit direction " +
		"and an output directory, under which the input's layout is mirrored.\n\n" +
		"Saves whose class carries a title-specific header (Abiotic Factor world and character saves) " +
		"and registered opaque structs (Parcel Simulator) round-trip byte for byte.",
	Example: `  # Convert one save to JSON beside it (World.sav.json)
  uesave World.sav

  # Convert edited JSON back to a save, replacing the original
  uesave World.sav.json World.sav --overwrite

  # Convert every save under a directory tree into another tree
  uesave --to-json --include-subdirectories ./SaveGames ./json`,
	Args:              cobra.RangeArgs(1, 2),
	Version:           version.Get().Short(),
	PersistentPreRunE: runInitialize,
	PreRunE:           validateConvert,
	RunE:              runConvert,
}

func init() {
	logManager = logging.NewManager()

	uesaveCmd.Flags().BoolVar(&convertToJSON, "to-json", false, "Convert saves to JSON")
	uesaveCmd.Flags().BoolVar(&convertToSav, "to-sav", false, "Convert JSON to saves")
	uesaveCmd.Flags().BoolVar(&includeSubdirectories, "include-subdirectories", false, "Recurse into subdirectories of a directory input (default from convert.include_subdirectories)")
	uesaveCmd.Flags().StringVar(&fileFilter, "file-filter", "", "Glob matched against file names in a directory input (default *.sav with --to-json, *.sav.json with --to-sav)")
	uesaveCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing output files (default from convert.overwrite)")
	uesaveCmd.MarkFlagsMutuallyExclusive("to-json", "to-sav")

	uesaveCmd.AddCommand(versioncmd.VersionCmd)
	uesaveCmd.AddCommand(codecs.CodecsCmd)
	uesaveCmd.AddCommand(configcmd.ConfigCmd)
}

func runInitialize(cmd *cobra.Command, args []string) error {
	logger := logManager.Logger()

	if err := config.Init(); err != nil {
		return err
	}
	cfg := config.MustGet()

	level, ok := logging.ParseLevel(cfg.LogLevel)
	if !ok {
		logger.Warn("invalid log level configured, using default", "configured", cfg.LogLevel, "default", "info")
	}

	rotation := logging.Rotation{
		MaxSizeMB:  cfg.LogRotation.MaxSizeMB,
		MaxBackups: cfg.LogRotation.MaxBackups,
		MaxAgeDays: cfg.LogRotation.MaxAgeDays,
		Compress:   cfg.LogRotation.Compress,
	}
	if err := logManager.Upgrade(config.ExpandPath(cfg.LogFile), level, rotation); err != nil {
		logger.Warn("failed to enable file logging, continuing with stderr only", "error", err)
	}

	return nil
}

func validateConvert(cmd *cobra.Command, args []string) error {
	if _, err := filepath.Match(fileFilter, ""); err != nil {
		return fmt.Errorf("invalid --file-filter %q; %w", fileFilter, err)
	}

	// All errors after this are runtime errors
	cmd.SilenceUsage = true
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := config.MustGet()
	logger := logManager.Logger()

	if !cmd.Flags().Changed("overwrite") {
		overwrite = cfg.Convert.Overwrite
	}
	if !cmd.Flags().Changed("include-subdirectories") {
		includeSubdirectories = cfg.Convert.IncludeSubdirectories
	}

	paths, err := cmdutil.ResolvePaths(args...)
	if err != nil {
		return fmt.Errorf("failed to resolve paths; %w", err)
	}
	inputPath := paths[0]
	var outputPath string
	if len(paths) == 2 {
		outputPath = paths[1]
	}

	opts, err := converter.ResolveOptions(converter.Request{
		InputPath:             inputPath,
		OutputPath:            outputPath,
		ToJSON:                convertToJSON,
		ToSav:                 convertToSav,
		IncludeSubdirectories: includeSubdirectories,
		FileFilter:            fileFilter,
		Overwrite:             overwrite,
	})
	if err != nil {
		return err
	}

	serializer, err := newSerializer(cfg)
	if err != nil {
		return err
	}

	options := []converter.ConverterOption{
		converter.WithLogger(logger),
		converter.WithAbortOnStructuralError(cfg.Convert.AbortOnStructuralError),
	}
	var recorder *metrics.Recorder
	if cfg.Metrics.Textfile != "" {
		recorder = metrics.NewRecorder()
		options = append(options, converter.WithMetrics(recorder))
	}
	if cfg.Convert.InteractiveRetry {
		options = append(options, converter.WithPrompter(prompt.New(os.Stdin, cmd.ErrOrStderr())))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger.Debug("starting conversion",
		"input", opts.InputPath,
		"output", opts.OutputPath,
		"mode", opts.Mode.String(),
		"input_type", opts.InputType.String(),
		"filter", opts.FileFilter)

	conv := converter.New(opts, serializer, options...)
	result, runErr := conv.Run(ctx)

	out := cmd.OutOrStdout()
	if cfg.Convert.Summary && opts.InputType != converter.InputFile {
		converter.RenderSummary(out, conv.Report())
	}
	fmt.Fprintln(out, statusLine(result))

	if recorder != nil {
		if err := recorder.WriteTextfile(config.ExpandPath(cfg.Metrics.Textfile)); err != nil {
			logger.Warn("failed to write metrics", "error", err)
		}
	}

	if runErr != nil {
		converter.PrintCauseChain(logger, runErr)
		return runErr
	}
	if result != converter.ResultSuccess {
		return errIncomplete
	}
	return nil
}

// newSerializer builds the save serializer from the header and struct settings.
func newSerializer(cfg *config.Config) (*gvas.Serializer, error) {
	table, err := headers.DefaultTable(headers.Policy{
		MinSaveGameVersion: cfg.Headers.MinSaveGameVersion,
		LegacyProbe:        cfg.Headers.LegacyProbe,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build header table; %w", err)
	}

	registry, err := structs.DefaultRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to build struct registry; %w", err)
	}

	return gvas.NewSerializer(table, registry, gvas.WithVerify(cfg.Convert.VerifyRoundTrip)), nil
}

func statusLine(result converter.Result) string {
	switch result {
	case converter.ResultSuccess:
		return styles.StatusLine(styles.StatusOK, "Conversion complete.")
	case converter.ResultPartialFailure:
		return styles.StatusLine(styles.StatusWarn, "Some files failed to be converted.")
	default:
		return styles.StatusLine(styles.StatusFail, "Conversion failed.")
	}
}

// Execute runs the root command and reports any error on stderr.
func Execute() error {
	uesaveCmd.SilenceErrors = true

	defer func() { _ = logManager.Close() }()

	cmd, err := uesaveCmd.ExecuteC()
	if err == nil {
		return nil
	}
	if errors.Is(err, errIncomplete) {
		return err
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if cmd != nil && !cmd.SilenceUsage {
		fmt.Fprintln(os.Stderr)
		cmd.SetOut(os.Stderr)
		_ = cmd.Usage()
	}
	return err
}
