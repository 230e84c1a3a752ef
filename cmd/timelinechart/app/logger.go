package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"timelinechart/internal/logging"
)

// NewLogger creates the CLI logger and makes it the package default. Level
// precedence: --log-level or LOG_LEVEL, then -v/-q, then info.
func NewLogger(config *Config) zerolog.Logger {
	logger := logging.NewLoggerFromConfig(&logging.Config{
		Level:      determineLogLevel(config),
		Format:     config.LogFormat,
		Output:     config.LogOutput,
		TimeFormat: "kitchen",
		NoColor:    config.NoColor,
	})
	logging.SetDefault(logger)
	return logger
}

func determineLogLevel(config *Config) string {
	if config.LogLevel != "" {
		validated := validateLogLevel(config.LogLevel)
		if validated != config.LogLevel {
			fmt.Fprintf(os.Stderr, "Warning: invalid log level %q, using %q\n", config.LogLevel, validated)
		}
		return validated
	}
	if config.Verbose && config.Quiet {
		fmt.Fprintf(os.Stderr, "Warning: both --verbose and --quiet specified, using --quiet\n")
		return "warn"
	}
	if config.Verbose {
		return "debug"
	}
	if config.Quiet {
		return "warn"
	}
	return "info"
}

func validateLogLevel(level string) string {
	switch level {
	case "trace", "debug", "info", "warn", "error":
		return level
	}
	return "info"
}
