package logging

import (
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantLevel slog.Level
		wantOK    bool
	}{
		{"debug lowercase", "debug", slog.LevelDebug, true},
		{"info lowercase", "info", slog.LevelInfo, true},
		{"warn lowercase", "warn", slog.LevelWarn, true},
		{"warning alias", "warning", slog.LevelWarn, true},
		{"error lowercase", "error", slog.LevelError, true},

		{"DEBUG uppercase", "DEBUG", slog.LevelDebug, true},
		{"Warning mixed", "Warning", slog.LevelWarn, true},
		{"padded", "  error ", slog.LevelError, true},

		{"empty string", "", DefaultLevel, false},
		{"unknown level", "trace", DefaultLevel, false},
		{"typo", "infoo", DefaultLevel, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLevel(tt.input)
			if ok != tt.wantOK {
				t.Errorf("ParseLevel(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if got != tt.wantLevel {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.wantLevel)
			}
		})
	}
}

func TestLevelNamesParse(t *testing.T) {
	for _, name := range LevelNames {
		if _, ok := ParseLevel(name); !ok {
			t.Errorf("ParseLevel(%q) rejected a listed level name", name)
		}
	}
}
