package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromPath_MissingFile(t *testing.T) {
	isolate(t)

	_, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("LoadFromPath() should fail for a missing file")
	}
	if !strings.Contains(err.Error(), "uesave config init") {
		t.Errorf("error %q should point at config init", err)
	}
}

func TestLoadFromPath_AppliesDefaultsAndEnv(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, "convert:\n  summary: false\n")
	t.Setenv("UESAVE_LOG_LEVEL", "error")

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.Convert.Summary {
		t.Error("file value convert.summary=false should apply")
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want env override error", cfg.LogLevel)
	}
	if cfg.LogRotation.MaxBackups != DefaultLogMaxBackups {
		t.Errorf("LogRotation.MaxBackups = %d, want default", cfg.LogRotation.MaxBackups)
	}
}

func TestLoadFromPath_InvalidConfig(t *testing.T) {
	dir := isolate(t)
	path := writeConfig(t, dir, "headers:\n  min_save_game_version: -1\n")

	_, err := LoadFromPath(path)
	if !IsValidationError(err) {
		t.Errorf("LoadFromPath() error = %v, want validation error", err)
	}
}
