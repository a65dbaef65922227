package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWrite_RoundTripsThroughLoad(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := NewDefaultConfig()
	cfg.Convert.Overwrite = true
	cfg.Headers.LegacyProbe = true
	cfg.LogFile = ""

	if err := Write(&cfg, path, false); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read written config: %v", err)
	}
	if !strings.HasPrefix(string(content), "# uesave configuration") {
		t.Errorf("written config missing header comment:\n%s", content)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if *loaded != cfg {
		t.Errorf("LoadFromPath() = %+v, want %+v", *loaded, cfg)
	}
}

func TestWrite_RefusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: info\n"), 0644); err != nil {
		t.Fatalf("failed to seed config: %v", err)
	}

	cfg := NewDefaultConfig()
	if err := Write(&cfg, path, false); err == nil {
		t.Fatal("Write() should refuse to replace an existing file")
	}
	if err := Write(&cfg, path, true); err != nil {
		t.Fatalf("Write() with overwrite error = %v", err)
	}
}
