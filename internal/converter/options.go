package converter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Request is the raw command line.
type Request struct {
	InputPath             string
	OutputPath            string
	ToJSON                bool
	ToSav                 bool
	IncludeSubdirectories bool
	FileFilter            string
	Overwrite             bool
}

// Options are the resolved settings of a run.
type Options struct {
	InputPath  string
	OutputPath string
	Mode       Mode
	InputType  InputType
	FileFilter string
	Overwrite  bool
}

// ResolveOptions validates req against the file system and fills in the
// mode, input type, output path and file filter it leaves implicit.
func ResolveOptions(req Request) (Options, error) {
	opts := Options{
		InputPath:  req.InputPath,
		OutputPath: req.OutputPath,
		FileFilter: req.FileFilter,
		Overwrite:  req.Overwrite,
	}

	if req.ToJSON && req.ToSav {
		return opts, fmt.Errorf("%w: cannot combine --to-json and --to-sav", ErrInvalidArguments)
	}
	switch {
	case req.ToJSON:
		opts.Mode = ModeToJSON
	case req.ToSav:
		opts.Mode = ModeToSav
	}

	if opts.InputPath == "" {
		return opts, fmt.Errorf("%w: input path is required", ErrInvalidArguments)
	}

	info, err := os.Stat(opts.InputPath)
	switch {
	case err == nil && info.IsDir():
		opts.InputType = InputDirectory
		if req.IncludeSubdirectories {
			opts.InputType = InputDirectoryTree
		}
		if opts.OutputPath == "" {
			return opts, fmt.Errorf("%w: must specify output path when input path is a directory", ErrInvalidArguments)
		}
	case err == nil:
		opts.InputType = InputFile
	default:
		return opts, fmt.Errorf("%w: input path %q does not exist", ErrInvalidArguments, opts.InputPath)
	}

	if opts.Mode == ModeInvalid {
		if opts.InputType != InputFile {
			return opts, fmt.Errorf("%w: must specify --to-json or --to-sav when input is a directory", ErrInvalidArguments)
		}
		switch strings.ToLower(filepath.Ext(opts.InputPath)) {
		case ".sav":
			opts.Mode = ModeToJSON
		case ".json":
			opts.Mode = ModeToSav
		default:
			return opts, fmt.Errorf("%w: cannot determine input file type from file extension; specify --to-json or --to-sav", ErrInvalidArguments)
		}
	}

	if opts.InputType == InputFile && opts.OutputPath == "" {
		dir := filepath.Dir(opts.InputPath)
		if opts.OutputPath, err = DeriveOutputPath(opts.InputPath, dir, dir, opts.Mode); err != nil {
			return opts, err
		}
	}

	if opts.FileFilter == "" {
		opts.FileFilter = opts.Mode.DefaultFileFilter()
	}

	return opts, nil
}

// DeriveOutputPath maps inputPath under inputRoot to its output path under
// outputRoot, preserving the relative directory. ModeToSav strips ".json"
// from "name.sav.json" and otherwise replaces the extension with ".sav";
// ModeToJSON appends ".json".
func DeriveOutputPath(inputPath, inputRoot, outputRoot string, mode Mode) (string, error) {
	rel, err := filepath.Rel(inputRoot, inputPath)
	if err != nil {
		return "", fmt.Errorf("failed to relate %s to %s; %w", inputPath, inputRoot, err)
	}

	switch mode {
	case ModeToSav:
		stem := strings.TrimSuffix(rel, filepath.Ext(rel))
		if strings.HasSuffix(stem, ".sav") {
			return filepath.Join(outputRoot, stem), nil
		}
		return filepath.Join(outputRoot, stem+".sav"), nil
	case ModeToJSON:
		return filepath.Join(outputRoot, rel+".json"), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidMode, mode)
	}
}
