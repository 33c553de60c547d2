package app

import (
	"hlfnet/pkg/logging"
)

// Config holds the application configuration
type Config struct {
	// ConfigPath is an explicit configuration file applied on top of the
	// user and project layers.
	ConfigPath string

	// Debug settings
	Debug bool

	// UI mode: a progress view instead of log lines
	TUI bool

	// Version of the running binary, reported in traces and over MCP
	Version string
}

// NewConfig creates a new application configuration
func NewConfig(configPath string, debug, tui bool, version string) *Config {
	return &Config{
		ConfigPath: configPath,
		Debug:      debug,
		TUI:        tui,
		Version:    version,
	}
}

func (c *Config) logLevel() logging.LogLevel {
	if c.Debug {
		return logging.LevelDebug
	}
	return logging.LevelInfo
}
