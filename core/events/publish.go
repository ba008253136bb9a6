package events

import "time"

// PayloadKind identifies which namespace leaf a publish targeted.
type PayloadKind string

const (
	KindTelemetry PayloadKind = "telemetry"
	KindInfo      PayloadKind = "info"
)

// PublishEvent is emitted for every publish attempt on a namespace topic.
type PublishEvent struct {
	VehicleID string
	Kind      PayloadKind
	Topic     string
	Bytes     int
	Latency   time.Duration
	Err       error
}
