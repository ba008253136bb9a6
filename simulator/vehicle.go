package simulator

import (
	"context"
	"math/rand"
	"time"

	"github.com/fleetlab/vtelem/core/model"
	coremqtt "github.com/fleetlab/vtelem/core/mqtt"
	"github.com/fleetlab/vtelem/infra/logger"
)

// EmulatedVehicle publishes payloads the way a real device would: a
// retained info descriptor once on startup, then periodic telemetry.
type EmulatedVehicle struct {
	ID      string
	Info    model.VehicleInfo
	Battery *Battery

	SpeedMaxKmh float64
	Lat, Lon    float64

	speedKmh   float64
	odometerKm float64
	charging   bool

	rng *rand.Rand
	log logger.Logger
}

// NewEmulatedVehicle creates a vehicle with a jittered start position.
func NewEmulatedVehicle(id string, cfg Config, rng *rand.Rand) *EmulatedVehicle {
	return &EmulatedVehicle{
		ID: id,
		Info: model.VehicleInfo{
			VehicleID:    id,
			Manufacturer: cfg.Manufacturer,
			Model:        cfg.Model,
			Firmware:     cfg.Firmware,
			BatteryKWh:   cfg.CapacityKWh,
		},
		Battery: &Battery{
			CapacityKWh:      cfg.CapacityKWh,
			Soc:              cfg.StartSoc,
			ConsumptionKWhKm: cfg.ConsumptionKWhKm,
			ChargeRateKW:     cfg.ChargeRateKW,
		},
		SpeedMaxKmh: cfg.SpeedMaxKmh,
		Lat:         cfg.StartLat + (rng.Float64()*2-1)*0.05,
		Lon:         cfg.StartLon + (rng.Float64()*2-1)*0.05,
		rng:         rng,
		log:         logger.New("simulator"),
	}
}

// Run publishes the info descriptor and then telemetry every interval until
// the context is done. The publisher is owned by the caller.
func (v *EmulatedVehicle) Run(ctx context.Context, pub coremqtt.Publisher, interval time.Duration, store *StatusStore) error {
	info := v.Info
	info.Timestamp = time.Now().UnixMilli()
	if err := pub.PublishInfo(info); err != nil {
		return err
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			sample := v.step(interval)
			if err := pub.PublishTelemetry(sample); err != nil {
				v.log.Errorf("%s: publish: %v", v.ID, err)
				continue
			}
			if store != nil {
				store.Set(sample)
			}
		}
	}
}

// step advances the drive emulation by dt and returns the sample. Vehicles
// drive a bounded random walk and pull over to charge below 10% SoC.
func (v *EmulatedVehicle) step(dt time.Duration) model.Telemetry {
	if v.charging {
		v.speedKmh = 0
		if v.Battery.Charge(dt) > 0.95 {
			v.charging = false
		}
	} else {
		v.speedKmh += (v.rng.Float64()*2 - 1) * 15
		if v.speedKmh < 0 {
			v.speedKmh = 0
		}
		if v.speedKmh > v.SpeedMaxKmh {
			v.speedKmh = v.SpeedMaxKmh
		}
		distance := v.speedKmh * dt.Hours()
		v.odometerKm += distance
		v.drift(distance)
		if v.Battery.Drive(distance) < 0.1 {
			v.charging = true
		}
	}
	return model.Telemetry{
		VehicleID:    v.ID,
		SpeedKmh:     v.speedKmh,
		OdometerKm:   v.odometerKm,
		BatteryLevel: v.Battery.Level(),
		Latitude:     v.Lat,
		Longitude:    v.Lon,
		Timestamp:    time.Now().UnixMilli(),
	}
}

// drift moves the position roughly the driven distance in a random heading.
// One degree of latitude is ~111 km, close enough for emulation.
func (v *EmulatedVehicle) drift(distanceKm float64) {
	if distanceKm <= 0 {
		return
	}
	deg := distanceKm / 111.0
	v.Lat += deg * (v.rng.Float64()*2 - 1)
	v.Lon += deg * (v.rng.Float64()*2 - 1)
}
