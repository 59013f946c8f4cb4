package logger

import "errors"

// Config defines the logger configuration
type Config struct {
	Level  string     `mapstructure:"level"`  // debug, info, warn, error
	Format string     `mapstructure:"format"` // json, console
	Output string     `mapstructure:"output"` // console, file, both
	File   FileConfig `mapstructure:"file"`
}

// FileConfig defines file output configuration
type FileConfig struct {
	Filename   string `mapstructure:"filename"`   // log file path
	MaxSize    int    `mapstructure:"maxsize"`    // max size in MB
	MaxAge     int    `mapstructure:"maxage"`     // max age in days
	MaxBackups int    `mapstructure:"maxbackups"` // max backup files
	Compress   bool   `mapstructure:"compress"`   // compress rotated files
}

// DefaultConfig returns default logger configuration
func DefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "json",
		Output: "console",
		File: FileConfig{
			Filename:   "logs/filedrop.log",
			MaxSize:    100,
			MaxAge:     30,
			MaxBackups: 10,
			Compress:   true,
		},
	}
}

// Validate validates the logger configuration
func (c *Config) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error", "fatal":
	default:
		return errors.New("invalid log level, must be one of: debug, info, warn, error, fatal")
	}

	if c.Format != "json" && c.Format != "console" {
		return errors.New("invalid log format, must be 'json' or 'console'")
	}

	switch c.Output {
	case "console":
	case "file", "both":
		if c.File.Filename == "" {
			return errors.New("log file filename is required when output is 'file' or 'both'")
		}
		if c.File.MaxSize <= 0 {
			return errors.New("log file maxsize must be greater than 0")
		}
	default:
		return errors.New("invalid log output, must be 'console', 'file' or 'both'")
	}

	return nil
}
