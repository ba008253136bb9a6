package model

import (
	"fmt"
	"time"
)

// Telemetry is the payload a vehicle publishes on its telemetry topic.
type Telemetry struct {
	VehicleID    string  `json:"vehicle_id"`
	SpeedKmh     float64 `json:"speed_kmh"`
	OdometerKm   float64 `json:"odometer_km"`
	BatteryLevel float64 `json:"battery_level"` // state of charge between 0 and 1
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Timestamp    int64   `json:"ts"` // unix milliseconds
}

// Validate checks that the payload is publishable.
func (t Telemetry) Validate() error {
	if t.VehicleID == "" {
		return fmt.Errorf("vehicle id is required")
	}
	if t.BatteryLevel < 0 || t.BatteryLevel > 1 {
		return fmt.Errorf("battery level %f outside [0,1]", t.BatteryLevel)
	}
	if t.SpeedKmh < 0 {
		return fmt.Errorf("speed must not be negative")
	}
	return nil
}

// Age returns how far in the past the sample was taken.
func (t Telemetry) Age(now time.Time) time.Duration {
	return now.Sub(time.UnixMilli(t.Timestamp))
}
