package server

import "time"

// Config holds server configuration.
type Config struct {
	// Server settings
	Host  string
	Port  int
	Title string // Page heading

	// Buffer of the engine event loop
	LoopBuffer int

	// HTTP timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         8080,
		Title:        "Timeline",
		LoopBuffer:   64,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}
