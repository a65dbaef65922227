package logging

import (
	"log/slog"
	"strings"
)

// DefaultLevel is the log level used when not configured.
const DefaultLevel = slog.LevelInfo

// LevelNames lists the accepted level spellings.
var LevelNames = []string{"debug", "info", "warn", "warning", "error"}

// ParseLevel converts a case-insensitive level name to a slog.Level.
// Returns (DefaultLevel, false) if the name is not recognized.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return DefaultLevel, false
	}
}
