// Package converter runs single-file and batch conversions between binary
// saves and JSON, classifying per-file failures into a run Result.
package converter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/leefowlercu/uesave-converter/internal/fsutil"
	"github.com/leefowlercu/uesave-converter/internal/headers"
	"github.com/leefowlercu/uesave-converter/internal/metrics"
	"github.com/leefowlercu/uesave-converter/internal/prompt"
	"github.com/leefowlercu/uesave-converter/internal/walker"
)

// Serializer converts one stream in each direction.
type Serializer interface {
	ConvertToJSON(in io.Reader, out io.Writer) error
	ConvertFromJSON(in io.Reader, out io.Writer) error
}

// ConverterOption configures the Converter.
type ConverterOption func(*Converter)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ConverterOption {
	return func(c *Converter) {
		c.logger = logger
	}
}

// WithPrompter enables interactive retry when an output cannot be created.
func WithPrompter(p *prompt.Prompter) ConverterOption {
	return func(c *Converter) {
		c.prompter = p
	}
}

// WithAbortOnStructuralError makes a sentinel mismatch abort the whole run
// instead of failing only the file it was found in.
func WithAbortOnStructuralError(abort bool) ConverterOption {
	return func(c *Converter) {
		c.abortOnStructural = abort
	}
}

// WithMetrics records per-file and per-run outcomes.
func WithMetrics(m *metrics.Recorder) ConverterOption {
	return func(c *Converter) {
		c.metrics = m
	}
}

// Converter runs conversions for one set of Options.
type Converter struct {
	opts       Options
	serializer Serializer
	logger     *slog.Logger
	prompter   *prompt.Prompter
	metrics    *metrics.Recorder

	abortOnStructural bool

	report *Report
}

// New creates a Converter.
func New(opts Options, serializer Serializer, options ...ConverterOption) *Converter {
	c := &Converter{
		opts:       opts,
		serializer: serializer,
		logger:     slog.Default(),
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

// Report returns the per-file outcomes of the last run.
func (c *Converter) Report() *Report {
	return c.report
}

// Run performs the conversion. The returned error is non-nil only for
// unrecoverable failures, in which case the result is ResultFailure.
func (c *Converter) Run(ctx context.Context) (Result, error) {
	c.report = &Report{Mode: c.opts.Mode}

	var (
		result Result
		err    error
	)
	switch c.opts.InputType {
	case InputFile:
		var ok bool
		ok, err = c.ConvertFile(ctx, c.opts.InputPath, c.opts.OutputPath)
		result = ResultFailure
		if ok {
			result = ResultSuccess
		}
	case InputDirectory, InputDirectoryTree:
		result, err = c.RunBatch(ctx, c.opts.InputPath, c.opts.OutputPath, c.opts.Mode,
			c.opts.InputType == InputDirectoryTree, c.opts.FileFilter)
	default:
		err = &Error{Op: "run", Err: fmt.Errorf("%w: %s", ErrInvalidInputType, c.opts.InputType)}
	}

	if err != nil {
		result = ResultFailure
	}
	c.report.Result = result
	c.metrics.RecordRun(result.String(), resultLabels(), c.report.Failures(), time.Now())
	return result, err
}

// RunBatch converts every file under inputRoot matching filePattern, in
// sorted order, into the mirrored location under outputRoot.
func (c *Converter) RunBatch(ctx context.Context, inputRoot, outputRoot string, mode Mode, recursive bool, filePattern string) (Result, error) {
	if c.report == nil {
		c.report = &Report{Mode: mode}
	}

	filter, err := walker.NewFilter(filePattern, recursive)
	if err != nil {
		return ResultFailure, &Error{Op: "enumerate", Path: inputRoot, Err: err}
	}

	wk := walker.New(filter, walker.WithLogger(c.logger))
	files, err := wk.Walk(ctx, inputRoot)
	if err != nil {
		return ResultFailure, &Error{Op: "enumerate", Path: inputRoot, Err: err}
	}

	stats := wk.Stats()
	c.report.Skipped += int(stats.FilesSkipped)
	c.logger.Debug("enumerated input files",
		"path", inputRoot,
		"filter", filter.Pattern(),
		"matched", stats.FilesDiscovered,
		"skipped", stats.FilesSkipped,
		"dirs", stats.DirsTraversed)

	if len(files) == 0 {
		c.logger.Warn("no files matched", "path", inputRoot, "filter", filePattern)
		return ResultSuccess, nil
	}

	failures := 0
	for _, in := range files {
		out, err := DeriveOutputPath(in, inputRoot, outputRoot, mode)
		if err != nil {
			return ResultFailure, &Error{Op: "derive output", Path: in, Err: err}
		}

		ok, err := c.convert(ctx, in, out, mode)
		if err != nil {
			return ResultFailure, err
		}
		if !ok {
			failures++
		}
	}

	return Classify(len(files), failures), nil
}

// ConvertFile converts one file in the configured mode. It returns false
// for recoverable failures, which are logged, and an error for
// unrecoverable ones.
func (c *Converter) ConvertFile(ctx context.Context, inputPath, outputPath string) (bool, error) {
	if c.report == nil {
		c.report = &Report{Mode: c.opts.Mode}
	}
	return c.convert(ctx, inputPath, outputPath, c.opts.Mode)
}

func (c *Converter) convert(ctx context.Context, inputPath, outputPath string, mode Mode) (bool, error) {
	start := time.Now()
	entry := Entry{Input: inputPath, Output: outputPath}

	err := c.convertFile(ctx, inputPath, outputPath, mode)
	entry.Duration = time.Since(start)
	entry.Err = err
	c.report.Entries = append(c.report.Entries, entry)
	c.metrics.RecordFile(mode.String(), entry.Duration, err)

	if err == nil {
		return true, nil
	}
	if !IsRecoverable(err) {
		return false, err
	}

	c.logger.Error("failed to convert file", "input", inputPath, "output", outputPath, "error", err)
	PrintCauseChain(c.logger, err)
	return false, nil
}

func (c *Converter) convertFile(ctx context.Context, inputPath, outputPath string, mode Mode) error {
	info, err := os.Stat(inputPath)
	if err != nil {
		return &Error{Op: "open input", Path: inputPath, Recoverable: true, Err: fmt.Errorf("input file not found; %w", err)}
	}
	if info.IsDir() {
		return &Error{Op: "open input", Path: inputPath, Recoverable: true, Err: errors.New("input file is a directory")}
	}

	if err := validateOutputPath(inputPath, outputPath); err != nil {
		return &Error{Op: "create output", Path: outputPath, Recoverable: true, Err: err}
	}
	if !c.opts.Overwrite && fsutil.Exists(outputPath) {
		return &Error{Op: "create output", Path: outputPath, Recoverable: true,
			Err: errors.New("output file already exists; pass --overwrite to replace existing files")}
	}

	in, err := os.Open(inputPath)
	if err != nil {
		return &Error{Op: "open input", Path: inputPath, Recoverable: true, Err: err}
	}
	defer in.Close()

	out, err := fsutil.CreateFile(ctx, outputPath, c.retryCreate)
	if err != nil {
		recoverable := !errors.Is(err, prompt.ErrAborted) && ctx.Err() == nil
		return &Error{Op: "create output", Path: outputPath, Recoverable: recoverable, Err: err}
	}

	c.logger.Info("converting", "input", inputPath, "output", outputPath, "mode", mode.String())

	switch mode {
	case ModeToJSON:
		err = c.serializer.ConvertToJSON(in, out)
	case ModeToSav:
		err = c.serializer.ConvertFromJSON(in, out)
	default:
		err = &Error{Op: "convert", Path: inputPath, Err: fmt.Errorf("%w: %s", ErrInvalidMode, mode)}
	}

	if err != nil {
		if derr := out.Discard(); derr != nil {
			c.logger.Warn("failed to remove partial output", "path", outputPath, "error", derr)
		}

		var ce *Error
		if errors.As(err, &ce) {
			return err
		}
		structural := errors.Is(err, headers.ErrSentinelMismatch)
		return &Error{Op: "convert", Path: inputPath, Recoverable: !(structural && c.abortOnStructural), Err: err}
	}

	if err := out.Close(); err != nil {
		return &Error{Op: "close output", Path: outputPath, Recoverable: true, Err: err}
	}
	return nil
}

// retryCreate asks the operator to retry a failed output creation. Without a
// terminal the original error is returned and the file fails.
func (c *Converter) retryCreate(ctx context.Context, path string, err error) error {
	if !c.prompter.Interactive() {
		return err
	}

	c.logger.Error("failed to create output file", "path", path, "error", err)
	if perr := c.prompter.RetryOrAbort(ctx, fmt.Sprintf("Cannot create %s: %v", path, err)); perr != nil {
		return perr
	}
	c.logger.Info("retrying", "path", path)
	return nil
}

func validateOutputPath(inputPath, outputPath string) error {
	if outputPath == "" || filepath.Base(outputPath) == "." || os.IsPathSeparator(outputPath[len(outputPath)-1]) {
		return fmt.Errorf("output path is not valid: %q", outputPath)
	}
	if info, err := os.Stat(outputPath); err == nil && info.IsDir() {
		return fmt.Errorf("output path is a directory: %q", outputPath)
	}

	absIn, err := filepath.Abs(inputPath)
	if err != nil {
		return err
	}
	absOut, err := filepath.Abs(outputPath)
	if err != nil {
		return err
	}
	if absIn == absOut {
		return errors.New("output path is the input file")
	}
	return nil
}
