package config

// Config is the root configuration structure for the application.
type Config struct {
	LogLevel    string            `yaml:"log_level" mapstructure:"log_level" json:"log_level" toml:"log_level"`
	LogFile     string            `yaml:"log_file" mapstructure:"log_file" json:"log_file" toml:"log_file"`
	LogRotation LogRotationConfig `yaml:"log_rotation" mapstructure:"log_rotation" json:"log_rotation" toml:"log_rotation"`
	Convert     ConvertConfig     `yaml:"convert" mapstructure:"convert" json:"convert" toml:"convert"`
	Headers     HeadersConfig     `yaml:"headers" mapstructure:"headers" json:"headers" toml:"headers"`
	Metrics     MetricsConfig     `yaml:"metrics" mapstructure:"metrics" json:"metrics" toml:"metrics"`
}

// LogRotationConfig bounds the size and age of the log file.
type LogRotationConfig struct {
	MaxSizeMB  int  `yaml:"max_size_mb" mapstructure:"max_size_mb" json:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups" mapstructure:"max_backups" json:"max_backups" toml:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days" mapstructure:"max_age_days" json:"max_age_days" toml:"max_age_days"`
	Compress   bool `yaml:"compress" mapstructure:"compress" json:"compress" toml:"compress"`
}

// ConvertConfig holds defaults for conversion runs. Command-line flags
// override these per invocation.
type ConvertConfig struct {
	Overwrite              bool `yaml:"overwrite" mapstructure:"overwrite" json:"overwrite" toml:"overwrite"`
	IncludeSubdirectories  bool `yaml:"include_subdirectories" mapstructure:"include_subdirectories" json:"include_subdirectories" toml:"include_subdirectories"`
	InteractiveRetry       bool `yaml:"interactive_retry" mapstructure:"interactive_retry" json:"interactive_retry" toml:"interactive_retry"`
	AbortOnStructuralError bool `yaml:"abort_on_structural_error" mapstructure:"abort_on_structural_error" json:"abort_on_structural_error" toml:"abort_on_structural_error"`
	VerifyRoundTrip        bool `yaml:"verify_round_trip" mapstructure:"verify_round_trip" json:"verify_round_trip" toml:"verify_round_trip"`
	Summary                bool `yaml:"summary" mapstructure:"summary" json:"summary" toml:"summary"`
}

// HeadersConfig controls how per-class custom headers are detected.
type HeadersConfig struct {
	// LegacyProbe probes for a world header sentinel on every save instead
	// of gating on the save game version.
	LegacyProbe        bool  `yaml:"legacy_probe" mapstructure:"legacy_probe" json:"legacy_probe" toml:"legacy_probe"`
	MinSaveGameVersion int32 `yaml:"min_save_game_version" mapstructure:"min_save_game_version" json:"min_save_game_version" toml:"min_save_game_version"`
}

// MetricsConfig controls the Prometheus textfile written after each run.
type MetricsConfig struct {
	// Textfile is the .prom file to write; empty disables metrics.
	Textfile string `yaml:"textfile" mapstructure:"textfile" json:"textfile" toml:"textfile"`
}

// NewDefaultConfig returns a Config populated with default values.
func NewDefaultConfig() Config {
	return Config{
		LogLevel: DefaultLogLevel,
		LogFile:  DefaultLogFile,
		LogRotation: LogRotationConfig{
			MaxSizeMB:  DefaultLogMaxSizeMB,
			MaxBackups: DefaultLogMaxBackups,
			MaxAgeDays: DefaultLogMaxAgeDays,
			Compress:   DefaultLogCompress,
		},
		Convert: ConvertConfig{
			Overwrite:              DefaultConvertOverwrite,
			IncludeSubdirectories:  DefaultConvertIncludeSubdirectories,
			InteractiveRetry:       DefaultConvertInteractiveRetry,
			AbortOnStructuralError: DefaultConvertAbortOnStructuralError,
			VerifyRoundTrip:        DefaultConvertVerifyRoundTrip,
			Summary:                DefaultConvertSummary,
		},
		Headers: HeadersConfig{
			LegacyProbe:        DefaultHeadersLegacyProbe,
			MinSaveGameVersion: DefaultHeadersMinSaveGameVersion,
		},
		Metrics: MetricsConfig{
			Textfile: DefaultMetricsTextfile,
		},
	}
}
