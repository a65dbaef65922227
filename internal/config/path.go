package config

import (
	"os"
	"path/filepath"
)

// ConfigDir returns the directory searched first for config.yaml:
// $UESAVE_CONFIG_DIR when set, else ~/.config/uesave.
func ConfigDir() string {
	if dir := os.Getenv(EnvPrefix + "_CONFIG_DIR"); dir != "" {
		return dir
	}
	home := resolveHomeDir()
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".config", "uesave")
}

// DefaultConfigPath returns the default path for the config file.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ConfigExistsAt returns true if a config file exists at the specified path.
func ConfigExistsAt(path string) bool {
	_, err := os.Stat(ExpandPath(path))
	return err == nil
}

// ExpandPath expands a leading "~" or "~/" to the user's home directory.
// Other paths, including "~user/...", are returned unchanged.
func ExpandPath(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	if len(path) > 1 && !os.IsPathSeparator(path[1]) {
		return path
	}

	home := resolveHomeDir()
	if home == "" {
		return path
	}
	if len(path) == 1 {
		return home
	}
	return filepath.Join(home, path[2:])
}

// resolveHomeDir prefers $HOME so tests can redirect it.
func resolveHomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
