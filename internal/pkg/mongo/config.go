package mongo

import (
	"errors"
	"time"
)

// Config holds MongoDB connection settings
type Config struct {
	URI      string `mapstructure:"uri" yaml:"uri"`           // connection string, e.g. mongodb://localhost:27017
	Database string `mapstructure:"database" yaml:"database"` // database name

	ConnectTimeout time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout"` // initial connect + ping budget
	PingTimeout    time.Duration `mapstructure:"ping_timeout" yaml:"ping_timeout"`       // health probe budget

	MaxPoolSize uint64 `mapstructure:"max_pool_size" yaml:"max_pool_size"`
	MinPoolSize uint64 `mapstructure:"min_pool_size" yaml:"min_pool_size"`
}

// SetDefaults fills zero-valued fields with sane defaults
func (c *Config) SetDefaults() {
	if c.URI == "" {
		c.URI = "mongodb://localhost:27017"
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = 10 * time.Second
	}
	if c.PingTimeout <= 0 {
		c.PingTimeout = 5 * time.Second
	}
	if c.MaxPoolSize == 0 {
		c.MaxPoolSize = 100
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.URI == "" {
		return errors.New("mongo: uri is required")
	}
	if c.Database == "" {
		return errors.New("mongo: database is required")
	}
	return nil
}
