package converter

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrInvalidArguments is returned by ResolveOptions for unusable command lines.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrInvalidMode is returned for a Mode other than ModeToJSON or ModeToSav.
	ErrInvalidMode = errors.New("invalid operating mode")

	// ErrInvalidInputType is returned for an InputType that cannot be run.
	ErrInvalidInputType = errors.New("invalid input type")
)

// Error is a conversion failure. Recoverable errors fail one file and let a
// batch continue; unrecoverable errors abort the run.
type Error struct {
	Op          string
	Path        string
	Recoverable bool
	Err         error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRecoverable reports whether err allows further files to be converted.
// Errors that are not an *Error are recoverable.
func IsRecoverable(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Recoverable
	}
	return true
}

// PrintCauseChain logs the type and message of err and of every error it
// wraps, depth first.
func PrintCauseChain(logger *slog.Logger, err error) {
	printCause(logger, err, 0)
}

func printCause(logger *slog.Logger, err error, depth int) {
	if err == nil {
		return
	}

	msg := fmt.Sprintf("[%T] %s", err, err.Error())
	if depth > 0 {
		msg = "(caused by) " + msg
	}
	logger.Error(msg)

	switch x := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range x.Unwrap() {
			printCause(logger, inner, depth+1)
		}
	case interface{ Unwrap() error }:
		printCause(logger, x.Unwrap(), depth+1)
	}
}
