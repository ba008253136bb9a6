// Package simulator emulates a small vehicle fleet publishing telemetry
// into the topic namespace. It exists for development and end-to-end QA;
// nothing in it talks to real vehicles.
package simulator

import (
	"fmt"
	"time"
)

// Config holds parameters for the emulated fleet.
type Config struct {
	Vehicles         int
	Interval         time.Duration
	SpeedMaxKmh      float64
	CapacityKWh      float64
	StartSoc         float64
	ConsumptionKWhKm float64
	ChargeRateKW     float64
	StartLat         float64
	StartLon         float64
	Manufacturer     string
	Model            string
	Firmware         string
	Seed             int64
}

// SetDefaults applies the medium battery profile and a Paris start point.
func (c *Config) SetDefaults() {
	if c.Vehicles <= 0 {
		c.Vehicles = 5
	}
	if c.Interval <= 0 {
		c.Interval = 5 * time.Second
	}
	if c.SpeedMaxKmh <= 0 {
		c.SpeedMaxKmh = 110
	}
	if c.CapacityKWh <= 0 {
		c.CapacityKWh = 40
	}
	if c.StartSoc <= 0 {
		c.StartSoc = 0.8
	}
	if c.ConsumptionKWhKm <= 0 {
		c.ConsumptionKWhKm = 0.17
	}
	if c.ChargeRateKW <= 0 {
		c.ChargeRateKW = 7
	}
	if c.StartLat == 0 && c.StartLon == 0 {
		c.StartLat, c.StartLon = 48.8566, 2.3522
	}
	if c.Manufacturer == "" {
		c.Manufacturer = "FleetLab"
	}
	if c.Model == "" {
		c.Model = "Courier"
	}
	if c.Firmware == "" {
		c.Firmware = "1.4.2"
	}
}

// Validate checks the emulation parameters.
func (c Config) Validate() error {
	if c.Vehicles < 0 {
		return fmt.Errorf("vehicles must not be negative")
	}
	if c.StartSoc < 0 || c.StartSoc > 1 {
		return fmt.Errorf("start soc %f outside [0,1]", c.StartSoc)
	}
	return nil
}

// ApplyBatteryProfile overrides the battery fields with a predefined
// profile (small, medium, large).
func ApplyBatteryProfile(c *Config, profile string) error {
	switch profile {
	case "small":
		c.CapacityKWh = 20
		c.ChargeRateKW = 3.6
	case "medium":
		c.CapacityKWh = 40
		c.ChargeRateKW = 7
	case "large":
		c.CapacityKWh = 80
		c.ChargeRateKW = 11
	case "":
	default:
		return fmt.Errorf("unknown battery profile %s", profile)
	}
	return nil
}
