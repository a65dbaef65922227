// Package fsutil creates conversion outputs under an advisory lock.
package fsutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another process holds the output's lock.
var ErrLocked = errors.New("file is locked by another process")

// lockSuffix names the sidecar lock file next to an output.
const lockSuffix = ".lock"

// RetryFunc decides what happens after a failed create. Returning nil
// retries; returning an error stops and reports that error.
type RetryFunc func(ctx context.Context, path string, err error) error

// LockedFile is an output file held under an advisory lock until Close or
// Discard.
type LockedFile struct {
	*os.File
	lock *flock.Flock
}

// Exists reports whether path names an existing file system entry.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// CreateFile creates path for writing, truncating any existing file, after
// creating missing parent directories and taking the lock. Failures go to
// retry until it gives up; a nil retry fails on the first error.
func CreateFile(ctx context.Context, path string, retry RetryFunc) (*LockedFile, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		f, err := tryCreate(path)
		if err == nil {
			return f, nil
		}
		if retry == nil {
			return nil, err
		}
		if rerr := retry(ctx, path, err); rerr != nil {
			return nil, rerr
		}
	}
}

func tryCreate(path string) (*LockedFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory; %w", err)
	}

	lock := flock.New(path + lockSuffix)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock %s; %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		releaseLock(lock)
		return nil, fmt.Errorf("failed to create %s; %w", path, err)
	}

	return &LockedFile{File: file, lock: lock}, nil
}

// Close closes the file and releases the lock.
func (f *LockedFile) Close() error {
	err := f.File.Close()
	releaseLock(f.lock)
	return err
}

// Discard closes the file, releases the lock and removes the partial output.
func (f *LockedFile) Discard() error {
	name := f.Name()
	closeErr := f.Close()
	if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove partial output; %w", err)
	}
	return closeErr
}

func releaseLock(lock *flock.Flock) {
	_ = lock.Unlock()
	_ = os.Remove(lock.Path())
}
