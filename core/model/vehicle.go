package model

import "fmt"

// VehicleInfo is the descriptor a vehicle publishes, retained, on its info
// topic when it joins the namespace.
type VehicleInfo struct {
	VehicleID    string  `json:"vehicle_id"`
	Manufacturer string  `json:"manufacturer"`
	Model        string  `json:"model"`
	Firmware     string  `json:"firmware,omitempty"`
	BatteryKWh   float64 `json:"battery_kwh,omitempty"`
	Timestamp    int64   `json:"ts"` // unix milliseconds
}

// Validate checks that the descriptor is publishable.
func (v VehicleInfo) Validate() error {
	if v.VehicleID == "" {
		return fmt.Errorf("vehicle id is required")
	}
	if v.BatteryKWh < 0 {
		return fmt.Errorf("battery capacity must not be negative")
	}
	return nil
}
