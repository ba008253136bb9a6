package metrics

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/fleetlab/vtelem/core/events"
)

func TestPromRecorderRecordPublish(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPromRecorderWithRegistry(Config{}, reg)
	if err != nil {
		t.Fatalf("create recorder: %v", err)
	}
	ev := events.PublishEvent{
		VehicleID: "veh1",
		Kind:      events.KindTelemetry,
		Topic:     "/iot/user/alice/vehicle/veh1/telemetry",
		Bytes:     120,
		Latency:   150 * time.Millisecond,
	}
	if err := rec.RecordPublish(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}

	expected := `
# HELP telemetry_publish_total Total number of payload publishes
# TYPE telemetry_publish_total counter
telemetry_publish_total{kind="telemetry",result="ok",vehicle_id="veh1"} 1
`
	if err := testutil.CollectAndCompare(rec.publishes, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	if c := testutil.CollectAndCount(rec.latency); c == 0 {
		t.Errorf("latency not recorded")
	}

	if err := rec.RecordFleetSize(42); err != nil {
		t.Fatalf("fleet size error: %v", err)
	}
	expectedFleet := `
# HELP fleet_vehicles_total Number of emulated vehicles currently running
# TYPE fleet_vehicles_total gauge
fleet_vehicles_total 42
`
	if err := testutil.CollectAndCompare(rec.fleet, strings.NewReader(expectedFleet)); err != nil {
		t.Errorf("unexpected fleet metric: %v", err)
	}
}

func TestPromRecorderFailedPublish(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPromRecorderWithRegistry(Config{}, reg)
	if err != nil {
		t.Fatalf("create recorder: %v", err)
	}
	ev := events.PublishEvent{VehicleID: "veh2", Kind: events.KindInfo, Err: fmt.Errorf("broker gone")}
	if err := rec.RecordPublish(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	expected := `
# HELP telemetry_publish_total Total number of payload publishes
# TYPE telemetry_publish_total counter
telemetry_publish_total{kind="info",result="error",vehicle_id="veh2"} 1
`
	if err := testutil.CollectAndCompare(rec.publishes, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestPromRecorderConnection(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPromRecorderWithRegistry(Config{}, reg)
	if err != nil {
		t.Fatalf("create recorder: %v", err)
	}
	if err := rec.RecordConnection(events.ConnectionEvent{State: events.StateConnected}); err != nil {
		t.Fatalf("record error: %v", err)
	}
	expected := `
# HELP mqtt_connection_transitions_total Broker connection state transitions
# TYPE mqtt_connection_transitions_total counter
mqtt_connection_transitions_total{state="connected"} 1
`
	if err := testutil.CollectAndCompare(rec.connections, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestPromRecorderReregistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromRecorderWithRegistry(Config{}, reg); err != nil {
		t.Fatalf("first recorder: %v", err)
	}
	if _, err := NewPromRecorderWithRegistry(Config{}, reg); err != nil {
		t.Fatalf("second recorder on same registry: %v", err)
	}
}

func TestConfigSetDefaults(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	if cfg.PrometheusPort != ":2112" {
		t.Fatalf("default port not applied: %q", cfg.PrometheusPort)
	}
}
