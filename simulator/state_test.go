package simulator

import (
	"testing"

	"github.com/fleetlab/vtelem/core/model"
)

func TestStatusStore(t *testing.T) {
	s := NewStatusStore()
	s.Set(model.Telemetry{VehicleID: "veh0002", SpeedKmh: 10})
	s.Set(model.Telemetry{VehicleID: "veh0001", SpeedKmh: 20})
	s.Set(model.Telemetry{VehicleID: "veh0001", SpeedKmh: 30})
	if got, ok := s.Get("veh0001"); !ok || got.SpeedKmh != 30 {
		t.Fatalf("latest sample not kept: %+v", got)
	}
	list := s.List()
	if len(list) != 2 || list[0].VehicleID != "veh0001" || list[1].VehicleID != "veh0002" {
		t.Fatalf("list not sorted: %+v", list)
	}
	if _, ok := s.Get("veh9999"); ok {
		t.Fatalf("unexpected hit")
	}
}
