package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate_ValidConfig_ReturnsNil(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := Validate(&cfg); err != nil {
		t.Errorf("Validate() error = %v, want nil for valid config", err)
	}
}

func TestValidate_InvalidFields(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"unknown log level", func(c *Config) { c.LogLevel = "trace" }, "log_level"},
		{"empty log level", func(c *Config) { c.LogLevel = "" }, "log_level"},
		{"zero rotation size", func(c *Config) { c.LogRotation.MaxSizeMB = 0 }, "log_rotation.max_size_mb"},
		{"negative backups", func(c *Config) { c.LogRotation.MaxBackups = -1 }, "log_rotation.max_backups"},
		{"negative age", func(c *Config) { c.LogRotation.MaxAgeDays = -1 }, "log_rotation.max_age_days"},
		{"metrics file without .prom", func(c *Config) { c.Metrics.Textfile = "/var/lib/node_exporter/uesave.txt" }, "metrics.textfile"},
		{"negative save game version", func(c *Config) { c.Headers.MinSaveGameVersion = -1 }, "headers.min_save_game_version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.modify(&cfg)

			err := Validate(&cfg)
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			if !IsValidationError(err) {
				t.Errorf("expected validation error, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q should name field %q", err.Error(), tt.field)
			}
		})
	}
}

func TestValidate_WarningAliasAccepted(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.LogLevel = "WARNING"
	if err := Validate(&cfg); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.LogLevel = "bogus"
	cfg.Headers.MinSaveGameVersion = -5

	err := Validate(&cfg)
	var errs ValidationErrors
	if !errors.As(err, &errs) {
		t.Fatalf("Validate() error = %T, want ValidationErrors", err)
	}
	if len(errs) != 2 {
		t.Fatalf("len(errs) = %d, want 2", len(errs))
	}
	if !strings.HasPrefix(errs.Error(), "config validation failed:") {
		t.Errorf("multi-error message = %q", errs.Error())
	}
	if ValidationErrors(nil).Error() != "" {
		t.Error("empty ValidationErrors should render as an empty string")
	}
}

func TestIsValidationError(t *testing.T) {
	if IsValidationError(errors.New("plain")) {
		t.Error("plain errors are not validation errors")
	}
	if !IsValidationError(ValidationError{Field: "f", Message: "m"}) {
		t.Error("ValidationError should be detected")
	}
}
