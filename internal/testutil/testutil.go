// Package testutil provides isolated environments for command tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leefowlercu/uesave-converter/internal/config"
)

// TestEnv is an isolated config directory plus a scratch area for saves.
type TestEnv struct {
	t         *testing.T
	ConfigDir string
	WorkDir   string
}

// NewTestEnv points UESAVE_CONFIG_DIR and UESAVE_LOG_FILE at a temp
// directory and initializes config from it. Cleanup is automatic.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	root := t.TempDir()
	configDir := filepath.Join(root, "config")
	workDir := filepath.Join(root, "work")
	for _, dir := range []string{configDir, workDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create test dir %s: %v", dir, err)
		}
	}

	t.Setenv("HOME", root)
	t.Setenv("UESAVE_CONFIG_DIR", configDir)
	t.Setenv("UESAVE_LOG_FILE", filepath.Join(configDir, "uesave.log"))

	config.Reset()
	if err := config.Init(); err != nil {
		t.Fatalf("failed to initialize test config: %v", err)
	}
	t.Cleanup(config.Reset)

	return &TestEnv{t: t, ConfigDir: configDir, WorkDir: workDir}
}

// WriteConfig writes config.yaml into the environment and re-initializes config.
func (e *TestEnv) WriteConfig(content string) string {
	e.t.Helper()

	path := filepath.Join(e.ConfigDir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		e.t.Fatalf("failed to write config: %v", err)
	}
	config.Reset()
	if err := config.Init(); err != nil {
		e.t.Fatalf("failed to initialize test config: %v", err)
	}
	return path
}

// CreateFile writes data to name under WorkDir, creating parents, and
// returns its path.
func (e *TestEnv) CreateFile(name string, data []byte) string {
	e.t.Helper()

	path := filepath.Join(e.WorkDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		e.t.Fatalf("failed to create dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		e.t.Fatalf("failed to create test file %s: %v", path, err)
	}
	return path
}

// Path returns the path of name under WorkDir.
func (e *TestEnv) Path(name string) string {
	return filepath.Join(e.WorkDir, name)
}
