// Package mqtt defines the publishing surface of the telemetry namespace.
// Implementations live under infra/mqtt; a mock publisher is provided there
// for tests.
package mqtt

import "github.com/fleetlab/vtelem/core/model"

// Publisher pushes vehicle payloads onto their namespace topics. Telemetry
// is published volatile; the info descriptor is retained so late
// subscribers still see it.
type Publisher interface {
	PublishTelemetry(t model.Telemetry) error
	PublishInfo(info model.VehicleInfo) error
	Close()
}
