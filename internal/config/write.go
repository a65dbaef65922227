package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Write writes the configuration to path, creating parent directories.
// Existing files are replaced only when overwrite is set.
func Write(cfg *Config, path string, overwrite bool) error {
	path = ExpandPath(path)

	if !overwrite && ConfigExistsAt(path) {
		return fmt.Errorf("config file %s already exists; pass --force to replace it", path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory %s; %w", dir, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config; %w", err)
	}

	header := fmt.Sprintf("# uesave configuration\n# Generated: %s\n# Every key can be overridden with %s_<KEY>, e.g. %s_CONVERT_OVERWRITE=true\n\n",
		time.Now().Format(time.RFC3339), EnvPrefix, EnvPrefix)
	content := append([]byte(header), data...)

	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s; %w", path, err)
	}

	return nil
}
