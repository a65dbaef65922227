// Package config loads uesave settings from config.yaml, UESAVE_* environment
// variables and built-in defaults, in increasing order of precedence of the
// first two over the last.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spf13/viper"
)

var (
	mu             sync.RWMutex
	v              *viper.Viper
	current        *Config
	configFilePath string
)

// Init initializes the configuration subsystem.
// It searches for config.yaml in priority order:
//  1. Directory specified by UESAVE_CONFIG_DIR
//  2. ~/.config/uesave/
//  3. Current working directory (.)
//
// A missing config file is not an error; defaults and environment overrides
// apply. A config file that cannot be read, parsed or validated is.
func Init() error {
	nv := newViper()
	nv.SetConfigName("config")

	if dir := ConfigDir(); dir != "" {
		nv.AddConfigPath(dir)
	}
	nv.AddConfigPath(".")

	path := ""
	if err := nv.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config; %w", err)
		}
	} else {
		path = nv.ConfigFileUsed()
	}

	cfg, err := unmarshalConfig(nv)
	if err != nil {
		return fmt.Errorf("invalid config %s; %w", displayPath(path), err)
	}

	mu.Lock()
	v = nv
	current = cfg
	configFilePath = path
	mu.Unlock()

	slog.Debug("config initialized", "file", displayPath(path))
	return nil
}

func displayPath(path string) string {
	if path == "" {
		return "(defaults)"
	}
	return path
}

// ConfigFilePath returns the path to the loaded config file,
// or empty string if using defaults only.
func ConfigFilePath() string {
	mu.RLock()
	defer mu.RUnlock()
	return configFilePath
}

// Reset clears the configuration state for testing purposes.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	v = nil
	current = nil
	configFilePath = ""
}

// Get returns the typed configuration, or nil before Init.
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// MustGet returns the typed configuration and panics before Init.
func MustGet() *Config {
	cfg := Get()
	if cfg == nil {
		panic("config: MustGet called before Init")
	}
	return cfg
}

func instance() *viper.Viper {
	mu.RLock()
	defer mu.RUnlock()
	if v == nil {
		return newViper()
	}
	return v
}

// GetString returns the string value for the given key.
func GetString(key string) string {
	return instance().GetString(key)
}

// GetInt returns the integer value for the given key.
func GetInt(key string) int {
	return instance().GetInt(key)
}

// GetBool returns the boolean value for the given key.
func GetBool(key string) bool {
	return instance().GetBool(key)
}

// GetPath returns the string value for the given key with ~ expanded.
func GetPath(key string) string {
	return ExpandPath(instance().GetString(key))
}

// GetAllSettings returns all configuration settings as a map.
func GetAllSettings() map[string]any {
	return instance().AllSettings()
}

// GetConfigPath returns the loaded config file, or the default location
// when running on defaults.
func GetConfigPath() string {
	if path := ConfigFilePath(); path != "" {
		return path
	}
	return DefaultConfigPath()
}
