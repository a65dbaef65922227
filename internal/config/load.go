package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// newViper returns a viper instance with defaults and environment overrides
// registered.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setViperDefaults(v)
	return v
}

// LoadFromPath reads and validates configuration from a specific file path.
// Environment overrides and defaults apply as they do for Init.
func LoadFromPath(path string) (*Config, error) {
	path = ExpandPath(path)

	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return nil, fmt.Errorf("config file %s not found; run 'uesave config init' to create one", path)
		}
		return nil, fmt.Errorf("failed to read config from %s; %w", path, err)
	}

	return unmarshalConfig(v)
}

// unmarshalConfig converts viper config to a validated Config.
func unmarshalConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config; %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
