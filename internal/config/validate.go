package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leefowlercu/uesave-converter/internal/logging"
)

// ValidationError represents a config validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation failures.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var b strings.Builder
	b.WriteString("config validation failed:\n")
	for _, err := range e {
		b.WriteString("  - ")
		b.WriteString(err.Error())
		b.WriteString("\n")
	}
	return b.String()
}

// Validate checks the configuration for errors.
// Returns ValidationErrors if validation fails.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		errs = append(errs, ValidationError{
			Field:   "log_level",
			Message: fmt.Sprintf("must be one of: %s; got %q", strings.Join(logging.LevelNames, ", "), cfg.LogLevel),
		})
	}

	if cfg.LogRotation.MaxSizeMB < 1 {
		errs = append(errs, ValidationError{
			Field:   "log_rotation.max_size_mb",
			Message: fmt.Sprintf("must be at least 1, got %d", cfg.LogRotation.MaxSizeMB),
		})
	}

	if cfg.LogRotation.MaxBackups < 0 {
		errs = append(errs, ValidationError{
			Field:   "log_rotation.max_backups",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.LogRotation.MaxBackups),
		})
	}

	if cfg.LogRotation.MaxAgeDays < 0 {
		errs = append(errs, ValidationError{
			Field:   "log_rotation.max_age_days",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.LogRotation.MaxAgeDays),
		})
	}

	if cfg.Headers.MinSaveGameVersion < 0 {
		errs = append(errs, ValidationError{
			Field:   "headers.min_save_game_version",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.Headers.MinSaveGameVersion),
		})
	}

	if cfg.Metrics.Textfile != "" && !strings.HasSuffix(cfg.Metrics.Textfile, ".prom") {
		errs = append(errs, ValidationError{
			Field:   "metrics.textfile",
			Message: fmt.Sprintf("must end in .prom for the textfile collector, got %q", cfg.Metrics.Textfile),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	var ve ValidationError
	var ves ValidationErrors
	return errors.As(err, &ve) || errors.As(err, &ves)
}
