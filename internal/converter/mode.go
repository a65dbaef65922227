package converter

import "fmt"

// Mode is the conversion direction.
type Mode int

const (
	ModeInvalid Mode = iota
	// ModeToJSON converts binary saves to JSON.
	ModeToJSON
	// ModeToSav converts JSON documents back to binary saves.
	ModeToSav
)

// String returns the flag spelling of the mode.
func (m Mode) String() string {
	switch m {
	case ModeToJSON:
		return "to-json"
	case ModeToSav:
		return "to-sav"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// DefaultFileFilter returns the glob used to find inputs for the mode.
func (m Mode) DefaultFileFilter() string {
	if m == ModeToSav {
		return "*.sav.json"
	}
	return "*.sav"
}

// InputType is the kind of file system object a run operates on.
type InputType int

const (
	InputInvalid InputType = iota
	// InputFile is a single file.
	InputFile
	// InputDirectory is the top level of a directory.
	InputDirectory
	// InputDirectoryTree is a directory and all of its subdirectories.
	InputDirectoryTree
)

// String returns the input type name.
func (t InputType) String() string {
	switch t {
	case InputFile:
		return "file"
	case InputDirectory:
		return "directory"
	case InputDirectoryTree:
		return "directory-tree"
	default:
		return fmt.Sprintf("input(%d)", int(t))
	}
}

// Result is the outcome of a run. ResultNone is the zero value and is never
// returned by Run.
type Result int

const (
	ResultNone Result = iota
	ResultSuccess
	ResultPartialFailure
	ResultFailure
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case ResultNone:
		return "none"
	case ResultSuccess:
		return "success"
	case ResultPartialFailure:
		return "partial-failure"
	case ResultFailure:
		return "failure"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// resultLabels lists the names of every result Run can return.
func resultLabels() []string {
	return []string{ResultSuccess.String(), ResultPartialFailure.String(), ResultFailure.String()}
}

// Classify maps a batch of total files with the given number of failures to
// a Result. An empty batch is a success.
func Classify(total, failures int) Result {
	switch {
	case failures == 0:
		return ResultSuccess
	case failures < total:
		return ResultPartialFailure
	default:
		return ResultFailure
	}
}
