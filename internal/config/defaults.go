package config

import "github.com/spf13/viper"

// Default configuration values.
const (
	DefaultLogLevel = "info"
	DefaultLogFile  = "~/.config/uesave/uesave.log"

	DefaultLogMaxSizeMB  = 10
	DefaultLogMaxBackups = 3
	DefaultLogMaxAgeDays = 28
	DefaultLogCompress   = false

	DefaultConvertOverwrite              = false
	DefaultConvertIncludeSubdirectories  = false
	DefaultConvertInteractiveRetry       = true
	DefaultConvertAbortOnStructuralError = false
	DefaultConvertVerifyRoundTrip        = true
	DefaultConvertSummary                = true

	DefaultHeadersLegacyProbe        = false
	DefaultHeadersMinSaveGameVersion = 3

	DefaultMetricsTextfile = ""
)

// EnvPrefix prefixes every environment variable override, e.g.
// UESAVE_CONVERT_OVERWRITE for convert.overwrite.
const EnvPrefix = "UESAVE"

// setViperDefaults registers all default configuration values with a viper instance.
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", DefaultLogFile)

	v.SetDefault("log_rotation.max_size_mb", DefaultLogMaxSizeMB)
	v.SetDefault("log_rotation.max_backups", DefaultLogMaxBackups)
	v.SetDefault("log_rotation.max_age_days", DefaultLogMaxAgeDays)
	v.SetDefault("log_rotation.compress", DefaultLogCompress)

	v.SetDefault("convert.overwrite", DefaultConvertOverwrite)
	v.SetDefault("convert.include_subdirectories", DefaultConvertIncludeSubdirectories)
	v.SetDefault("convert.interactive_retry", DefaultConvertInteractiveRetry)
	v.SetDefault("convert.abort_on_structural_error", DefaultConvertAbortOnStructuralError)
	v.SetDefault("convert.verify_round_trip", DefaultConvertVerifyRoundTrip)
	v.SetDefault("convert.summary", DefaultConvertSummary)

	v.SetDefault("headers.legacy_probe", DefaultHeadersLegacyProbe)
	v.SetDefault("headers.min_save_game_version", DefaultHeadersMinSaveGameVersion)

	v.SetDefault("metrics.textfile", DefaultMetricsTextfile)
}
