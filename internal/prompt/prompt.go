// Package prompt asks the operator whether to retry a failed operation.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// ErrAborted is returned when the operator chooses to abort.
var ErrAborted = errors.New("aborted by user")

// ErrNotInteractive is returned when no terminal is attached to ask on.
var ErrNotInteractive = errors.New("input is not a terminal")

const keyCtrlC = 0x03

// Prompter reads single key presses from a terminal.
type Prompter struct {
	in  io.Reader
	out io.Writer
	fd  int
	tty bool
}

// New returns a Prompter reading from in. It is interactive only when in is
// a terminal.
func New(in *os.File, out io.Writer) *Prompter {
	fd := in.Fd()
	return &Prompter{
		in:  in,
		out: out,
		fd:  int(fd),
		tty: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}
}

// Interactive reports whether the prompter can ask the operator.
func (p *Prompter) Interactive() bool {
	return p != nil && p.tty
}

// RetryOrAbort prints message and waits for a key. Ctrl+C or context
// cancellation aborts; any other key asks for a retry and returns nil.
func (p *Prompter) RetryOrAbort(ctx context.Context, message string) error {
	if !p.Interactive() {
		return ErrNotInteractive
	}

	fmt.Fprintf(p.out, "%s\nPress any key to retry, or Ctrl+C to abort.\n", message)

	if p.fd >= 0 {
		oldState, err := term.MakeRaw(p.fd)
		if err != nil {
			return fmt.Errorf("failed to set terminal raw mode; %w", err)
		}
		defer term.Restore(p.fd, oldState)
	}

	keys := make(chan byte, 1)
	errs := make(chan error, 1)
	go func() {
		buf := make([]byte, 1)
		if _, err := io.ReadFull(p.in, buf); err != nil {
			errs <- err
			return
		}
		keys <- buf[0]
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%w; %w", ErrAborted, ctx.Err())
	case err := <-errs:
		return fmt.Errorf("%w: failed to read key; %w", ErrAborted, err)
	case key := <-keys:
		if key == keyCtrlC {
			return ErrAborted
		}
		return nil
	}
}
