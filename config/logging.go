package config

import (
	"fmt"
)

// LoggingConfig selects the global log level.
type LoggingConfig struct {
	Level string `json:"level"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Validate checks the level names a known zerolog level.
func (c LoggingConfig) Validate() error {
	switch c.Level {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic":
		return nil
	}
	return fmt.Errorf("unknown log level %s", c.Level)
}
