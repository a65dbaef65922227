// Package walker enumerates the input files of a batch conversion.
package walker

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Walker scans a directory for files accepted by its filter.
type Walker interface {
	// Walk returns the matching files under root, sorted by path.
	Walk(ctx context.Context, root string) ([]string, error)

	// Stats returns statistics for the most recent walk.
	Stats() WalkerStats
}

// WalkerStats contains statistics about walker activity.
type WalkerStats struct {
	FilesDiscovered int64
	FilesSkipped    int64
	DirsTraversed   int64
	LastWalkAt      time.Time
	LastWalkPath    string
}

// WalkerOption configures the Walker.
type WalkerOption func(*walker)

// WithLogger sets the logger used for skipped entries.
func WithLogger(logger *slog.Logger) WalkerOption {
	return func(w *walker) {
		w.logger = logger
	}
}

// walker implements the Walker interface.
type walker struct {
	filter *Filter
	logger *slog.Logger

	mu    sync.RWMutex
	stats WalkerStats
}

// New creates a new Walker using filter.
func New(filter *Filter, opts ...WalkerOption) Walker {
	w := &walker{
		filter: filter,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Stats returns current walker statistics.
func (w *walker) Stats() WalkerStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// Walk performs the directory walk.
func (w *walker) Walk(ctx context.Context, root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path; %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	stats := WalkerStats{LastWalkPath: root}
	var files []string

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable subdirectories are skipped; an unreadable root is fatal.
			if path == root {
				return walkErr
			}
			w.logger.Warn("skipping unreadable path", "path", path, "error", walkErr)
			stats.FilesSkipped++
			return nil
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		// Symlinks are followed to regular files only; linked directories
		// could form cycles.
		if d.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				w.logger.Warn("skipping broken symlink", "path", path, "error", err)
				stats.FilesSkipped++
				return nil
			}
			if !target.Mode().IsRegular() {
				w.logger.Debug("skipping symlink to non-regular file", "path", path)
				stats.FilesSkipped++
				return nil
			}
			if !w.filter.ShouldProcessFile(path) {
				stats.FilesSkipped++
				return nil
			}
			files = append(files, path)
			stats.FilesDiscovered++
			return nil
		}

		if d.IsDir() {
			if path == root {
				stats.DirsTraversed++
				return nil
			}
			if !w.filter.ShouldProcessDir(path) {
				return fs.SkipDir
			}
			stats.DirsTraversed++
			return nil
		}

		if !d.Type().IsRegular() || !w.filter.ShouldProcessFile(path) {
			stats.FilesSkipped++
			return nil
		}

		files = append(files, path)
		stats.FilesDiscovered++
		return nil
	})

	stats.LastWalkAt = time.Now()
	w.mu.Lock()
	w.stats = stats
	w.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("failed to walk %s; %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}
