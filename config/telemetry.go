package config

import (
	"fmt"
	"time"
)

// TelemetryConfig holds the publish cadence and fleet knobs shared by the
// publisher and the emulator.
type TelemetryConfig struct {
	IntervalSeconds int   `json:"interval_seconds"`
	Vehicles        int   `json:"vehicles"`
	RetainInfo      *bool `json:"retain_info"`
}

// Interval returns the telemetry publish cadence.
func (c TelemetryConfig) Interval() time.Duration {
	if c.IntervalSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.IntervalSeconds) * time.Second
}

// FleetSize returns the number of emulated vehicles.
func (c TelemetryConfig) FleetSize() int {
	if c.Vehicles <= 0 {
		return 5
	}
	return c.Vehicles
}

// RetainInfoEnabled reports whether info descriptors are retained. Unset
// means retained.
func (c TelemetryConfig) RetainInfoEnabled() bool {
	if c.RetainInfo == nil {
		return true
	}
	return *c.RetainInfo
}

// Validate checks the section. Zero values mean defaults and pass.
func (c TelemetryConfig) Validate() error {
	if c.IntervalSeconds < 0 {
		return fmt.Errorf("interval_seconds must not be negative")
	}
	if c.Vehicles < 0 {
		return fmt.Errorf("vehicles must not be negative")
	}
	return nil
}
