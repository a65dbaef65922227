package config

import (
	"os"
	"path/filepath"
	"testing"
)

// isolate points every config search location at empty temp directories.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("UESAVE_CONFIG_DIR", tmpDir)
	t.Setenv("HOME", tmpDir)
	chdir(t, tmpDir)
	Reset()
	t.Cleanup(Reset)
	return tmpDir
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestInit_NoConfigFile_UsesDefaults(t *testing.T) {
	isolate(t)

	if err := Init(); err != nil {
		t.Fatalf("Init() returned error when no config file exists: %v", err)
	}

	if path := ConfigFilePath(); path != "" {
		t.Errorf("ConfigFilePath() = %q, want empty string when no config file", path)
	}

	cfg := Get()
	if cfg == nil {
		t.Fatal("Get() returned nil after Init")
	}
	if *cfg != NewDefaultConfig() {
		t.Errorf("Get() = %+v, want defaults %+v", *cfg, NewDefaultConfig())
	}
}

func TestInit_ConfigInEnvDir_LoadsFromEnvDir(t *testing.T) {
	dir := isolate(t)
	configPath := writeConfig(t, dir, "convert:\n  overwrite: true\nheaders:\n  legacy_probe: true\n")

	if err := Init(); err != nil {
		t.Fatalf("Init() returned error: %v", err)
	}

	if got := ConfigFilePath(); got != configPath {
		t.Errorf("ConfigFilePath() = %q, want %q", got, configPath)
	}
	cfg := MustGet()
	if !cfg.Convert.Overwrite || !cfg.Headers.LegacyProbe {
		t.Errorf("Get() = %+v, expected file values to apply", cfg)
	}
	if !cfg.Convert.Summary {
		t.Error("keys absent from the file should keep their defaults")
	}
}

func TestInit_ConfigInDefaultDir_LoadsFromDefaultDir(t *testing.T) {
	isolate(t)
	tmpHome := t.TempDir()
	defaultDir := filepath.Join(tmpHome, ".config", "uesave")
	if err := os.MkdirAll(defaultDir, 0755); err != nil {
		t.Fatalf("failed to create default dir: %v", err)
	}
	configPath := writeConfig(t, defaultDir, "log_level: debug\n")

	t.Setenv("UESAVE_CONFIG_DIR", "")
	t.Setenv("HOME", tmpHome)

	if err := Init(); err != nil {
		t.Fatalf("Init() returned error: %v", err)
	}
	if got := ConfigFilePath(); got != configPath {
		t.Errorf("ConfigFilePath() = %q, want %q", got, configPath)
	}
	if got := GetString("log_level"); got != "debug" {
		t.Errorf("GetString(log_level) = %q, want debug", got)
	}
}

func TestInit_InvalidYAML_ReturnsError(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "convert:\n  overwrite: [invalid yaml")

	if err := Init(); err == nil {
		t.Fatal("Init() should return error for invalid YAML, got nil")
	}
	if Get() != nil {
		t.Error("Get() should stay nil after a failed Init")
	}
}

func TestInit_InvalidValue_ReturnsValidationError(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "log_level: loud\n")

	err := Init()
	if err == nil {
		t.Fatal("Init() should reject an unknown log level")
	}
	if !IsValidationError(err) {
		t.Errorf("Init() error = %T, want a validation error", err)
	}
}

func TestEnvOverride_NestedKey(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, dir, "convert:\n  abort_on_structural_error: false\n")

	t.Setenv("UESAVE_CONVERT_ABORT_ON_STRUCTURAL_ERROR", "true")
	t.Setenv("UESAVE_HEADERS_MIN_SAVE_GAME_VERSION", "2")

	if err := Init(); err != nil {
		t.Fatalf("Init() returned error: %v", err)
	}

	cfg := Get()
	if !cfg.Convert.AbortOnStructuralError {
		t.Error("env var should override the file value")
	}
	if cfg.Headers.MinSaveGameVersion != 2 {
		t.Errorf("Headers.MinSaveGameVersion = %d, want 2", cfg.Headers.MinSaveGameVersion)
	}
	if !GetBool("convert.abort_on_structural_error") {
		t.Error("GetBool should see the env override")
	}
}

func TestGet_BeforeInit_ReturnsNil(t *testing.T) {
	Reset()
	if cfg := Get(); cfg != nil {
		t.Errorf("Get() before Init() = %v, want nil", cfg)
	}
}

func TestMustGet_BeforeInit_Panics(t *testing.T) {
	Reset()
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustGet() before Init() should panic")
		}
	}()
	_ = MustGet()
}

func TestGetters_BeforeInit_UseDefaults(t *testing.T) {
	isolate(t)

	if got := GetInt("log_rotation.max_size_mb"); got != DefaultLogMaxSizeMB {
		t.Errorf("GetInt(log_rotation.max_size_mb) = %d, want %d", got, DefaultLogMaxSizeMB)
	}
	if got := GetBool("convert.verify_round_trip"); !got {
		t.Error("GetBool(convert.verify_round_trip) = false, want true")
	}
	if _, ok := GetAllSettings()["convert"]; !ok {
		t.Error("GetAllSettings() missing convert section")
	}
}

func TestGetPath_ExpandsHome(t *testing.T) {
	home := isolate(t)

	if err := Init(); err != nil {
		t.Fatalf("Init() returned error: %v", err)
	}
	want := filepath.Join(home, ".config", "uesave", "uesave.log")
	if got := GetPath("log_file"); got != want {
		t.Errorf("GetPath(log_file) = %q, want %q", got, want)
	}
}

func TestGetConfigPath_FallsBackToDefault(t *testing.T) {
	dir := isolate(t)

	if err := Init(); err != nil {
		t.Fatalf("Init() returned error: %v", err)
	}
	if got := GetConfigPath(); got != filepath.Join(dir, "config.yaml") {
		t.Errorf("GetConfigPath() = %q", got)
	}
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir in Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}
