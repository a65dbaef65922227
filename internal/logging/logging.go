// Package logging owns the process logger: plain text on the console from
// startup, then a rotating JSON log file once configuration is loaded.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits the size and age of the log file.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultRotation returns the rotation used when none is configured.
func DefaultRotation() Rotation {
	return Rotation{MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 28}
}

// Manager handles logger lifecycle including bootstrap-to-full mode transitions.
// Components should obtain a logger via Logger() and use it for all logging.
type Manager struct {
	handler *SwappableHandler
	logger  *slog.Logger
	console io.Writer
	file    *lumberjack.Logger
	level   *slog.LevelVar
	mu      sync.Mutex
}

// NewManager creates a logging manager writing text to stderr.
func NewManager() *Manager {
	return NewManagerWithWriter(os.Stderr)
}

// NewManagerWithWriter creates a logging manager writing text to console.
func NewManagerWithWriter(console io.Writer) *Manager {
	level := new(slog.LevelVar)
	level.Set(DefaultLevel)

	handler := NewSwappableHandler(consoleHandler(console, level))

	return &Manager{
		handler: handler,
		logger:  slog.New(handler),
		console: console,
		level:   level,
	}
}

// consoleHandler omits timestamps; the console is read by people watching
// the run.
func consoleHandler(w io.Writer, level slog.Leveler) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
}

// Logger returns the current logger instance.
// The returned logger is stable across Upgrade calls.
func (m *Manager) Logger() *slog.Logger {
	return m.logger
}

// Upgrade sets the level and, when logFilePath is not empty, adds a rotating
// JSON log file alongside the console.
func (m *Manager) Upgrade(logFilePath string, level slog.Level, rotation Rotation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.level.Set(level)

	if logFilePath == "" {
		m.handler.Swap(consoleHandler(m.console, m.level))
		return nil
	}

	dir := filepath.Dir(logFilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory %q; %w", dir, err)
	}

	if m.file != nil {
		_ = m.file.Close()
	}
	m.file = &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    max(rotation.MaxSizeMB, 1),
		MaxBackups: rotation.MaxBackups,
		MaxAge:     rotation.MaxAgeDays,
		Compress:   rotation.Compress,
	}

	m.handler.Swap(slogmulti.Fanout(
		consoleHandler(m.console, m.level),
		slog.NewJSONHandler(m.file, &slog.HandlerOptions{Level: m.level}),
	))

	return nil
}

// SetLevel changes the log level at runtime.
func (m *Manager) SetLevel(level slog.Level) {
	m.level.Set(level)
}

// Enabled reports whether level is currently logged.
func (m *Manager) Enabled(level slog.Level) bool {
	return m.handler.Enabled(context.Background(), level)
}

// Close closes the log file, if any.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.file == nil {
		return nil
	}
	err := m.file.Close()
	m.file = nil
	m.handler.Swap(consoleHandler(m.console, m.level))
	return err
}
