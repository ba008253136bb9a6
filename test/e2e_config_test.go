//go:build !no_containers

package test

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/fleetlab/vtelem/config"
	"github.com/fleetlab/vtelem/core/model"
	"github.com/fleetlab/vtelem/infra/mqtt"
	"github.com/fleetlab/vtelem/test/util"
)

const e2eConfigYAML = `mqtt:
  broker_address: HOST
  broker_port: PORT
  client_id: cfg-e2e
  username: alice
  qos: 1
telemetry:
  interval_seconds: 1
  vehicles: 2
metrics:
  enabled: false
logging:
  level: debug
`

// TestConfigDrivesBrokerConnection loads a configuration file pointing at the
// containerised broker and verifies the publisher built from it delivers
// telemetry on the namespace derived from the configured username.
func TestConfigDrivesBrokerConnection(t *testing.T) {
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed")
	}
	ctx := context.Background()
	broker, cleanup, err := util.StartMosquitto(ctx)
	if err != nil {
		t.Fatalf("start mosquitto: %v", err)
	}
	defer cleanup()

	host, port := splitBroker(t, broker)
	data := strings.ReplaceAll(e2eConfigYAML, "HOST", host)
	data = strings.ReplaceAll(data, "PORT", strconv.Itoa(port))
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if got := cfg.MQTT.Params().BrokerURI(); got != broker {
		t.Fatalf("broker uri %s, want %s", got, broker)
	}

	pub, err := mqtt.NewPahoPublisher(cfg.MQTT, mqtt.WithRetainInfo(cfg.Telemetry.RetainInfoEnabled()))
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	defer pub.Close()

	ns := pub.Namespace()
	if got := ns.Root(); got != "/iot/user/alice" {
		t.Fatalf("namespace root %s", got)
	}
	sub, msgs := subscribe(t, broker, "cfg-sub", ns.TelemetryFilter())
	defer sub.Disconnect(100)

	sample := model.Telemetry{
		VehicleID:    "veh1",
		SpeedKmh:     30,
		BatteryLevel: 0.9,
		Timestamp:    time.Now().UnixMilli(),
	}
	if err := pub.PublishTelemetry(sample); err != nil {
		t.Fatalf("publish telemetry: %v", err)
	}

	select {
	case m := <-msgs:
		var got model.Telemetry
		if err := json.Unmarshal(m.Payload(), &got); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if got.VehicleID != "veh1" {
			t.Errorf("unexpected sample: %+v", got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("telemetry not delivered")
	}
}
