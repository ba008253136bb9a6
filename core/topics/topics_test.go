package topics

import (
	"testing"

	"github.com/fleetlab/vtelem/core/conf"
)

func TestJoin(t *testing.T) {
	n := ForUser("alice")
	checks := []struct {
		name string
		got  string
		want string
	}{
		{"root", n.Root(), "/iot/user/alice"},
		{"vehicle", n.Vehicle("veh0001"), "/iot/user/alice/vehicle/veh0001"},
		{"telemetry", n.Telemetry("veh0001"), "/iot/user/alice/vehicle/veh0001/telemetry"},
		{"info", n.Info("veh0001"), "/iot/user/alice/vehicle/veh0001/info"},
		{"vehicle_filter", n.VehicleFilter(), "/iot/user/alice/vehicle/#"},
		{"telemetry_filter", n.TelemetryFilter(), "/iot/user/alice/vehicle/+/telemetry"},
		{"info_filter", n.InfoFilter(), "/iot/user/alice/vehicle/+/info"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %q want %q", c.name, c.got, c.want)
		}
	}
}

func TestFromParamsMatchesForUser(t *testing.T) {
	p := conf.Default().WithUsername("alice")
	if FromParams(p) != ForUser("alice") {
		t.Fatalf("namespaces differ: %q vs %q", FromParams(p).Root(), ForUser("alice").Root())
	}
}

func TestTrailingSlashRoot(t *testing.T) {
	n := New("telemetry/root/")
	if got := n.Telemetry("v1"); got != "telemetry/root/vehicle/v1/telemetry" {
		t.Fatalf("join with trailing slash root: %q", got)
	}
}

func TestMatch(t *testing.T) {
	n := ForUser("alice")
	if !n.IsTelemetry(n.Telemetry("v1")) {
		t.Errorf("telemetry topic not matched")
	}
	if !n.IsInfo(n.Info("v1")) {
		t.Errorf("info topic not matched")
	}
	for _, topic := range []string{
		n.Info("v1"),
		n.Vehicle("v1"),
		"/iot/user/bob/vehicle/v1/telemetry",
		"/iot/user/alice/vehicle/v1/telemetry/extra",
		"unrelated",
	} {
		if n.IsTelemetry(topic) {
			t.Errorf("topic %q wrongly matched as telemetry", topic)
		}
	}
}

func TestExtractVehicleID(t *testing.T) {
	n := ForUser("alice")
	for _, topic := range []string{n.Telemetry("veh42"), n.Info("veh42"), n.Vehicle("veh42")} {
		id, err := n.ExtractVehicleID(topic)
		if err != nil {
			t.Fatalf("extract %q: %v", topic, err)
		}
		if id != "veh42" {
			t.Fatalf("extract %q: got %q", topic, id)
		}
	}
	if _, err := n.ExtractVehicleID("/iot/user/bob/vehicle/v1/telemetry"); err == nil {
		t.Fatalf("foreign namespace accepted")
	}
	if _, err := n.ExtractVehicleID(n.Root() + "/vehicle/"); err == nil {
		t.Fatalf("empty vehicle id accepted")
	}
}

func TestValidVehicleID(t *testing.T) {
	if err := ValidVehicleID("veh0001"); err != nil {
		t.Fatalf("valid id rejected: %v", err)
	}
	for _, id := range []string{"", "a/b", "a+b", "a#"} {
		if err := ValidVehicleID(id); err == nil {
			t.Errorf("id %q accepted", id)
		}
	}
}
