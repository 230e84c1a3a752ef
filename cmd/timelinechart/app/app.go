// Package app wires configuration, logging, and the timelinechart commands.
package app

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"timelinechart/pkg/errors"
)

// App holds the CLI dependencies.
type App struct {
	version string
	commit  string
	date    string

	config *Config
	logger *zerolog.Logger
	out    io.Writer // Command output, stdout when nil
}

// New creates an App with configuration loaded from the environment, .env
// files, and the optional config file.
func New(version, commit, date string) (*App, error) {
	config, err := LoadConfig()
	if err != nil {
		return nil, &errors.ConfigError{Component: "cli", Message: "loading configuration", Err: err}
	}
	logger := NewLogger(config)
	return &App{
		version: version,
		commit:  commit,
		date:    date,
		config:  config,
		logger:  &logger,
	}, nil
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// ContextWithSignals returns a context cancelled on SIGINT or SIGTERM.
func ContextWithSignals() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// ExitOnError prints err and exits with the status exitCode assigns to it.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for invalid input, 3 when the timeline could not be loaded,
// and 1 otherwise.
func exitCode(err error) int {
	switch {
	case errors.IsValidationError(err):
		return 2
	case errors.IsLoadError(err):
		return 3
	default:
		return 1
	}
}
