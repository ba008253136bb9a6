package simulator

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	coremqtt "github.com/fleetlab/vtelem/core/mqtt"
	"github.com/fleetlab/vtelem/infra/logger"
)

// PublisherFactory builds the publisher one vehicle runs with. Every
// vehicle holds its own broker connection, like a real device.
type PublisherFactory func(vehicleID string) (coremqtt.Publisher, error)

// Fleet drives a set of emulated vehicles.
type Fleet struct {
	cfg      Config
	vehicles []*EmulatedVehicle
	store    *StatusStore
	log      logger.Logger
}

// NewFleet generates cfg.Vehicles vehicles with IDs veh0001..vehNNNN.
func NewFleet(cfg Config) *Fleet {
	cfg.SetDefaults()
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	vehicles := make([]*EmulatedVehicle, cfg.Vehicles)
	for i := range vehicles {
		id := fmt.Sprintf("veh%04d", i+1)
		vehicles[i] = NewEmulatedVehicle(id, cfg, rand.New(rand.NewSource(rng.Int63())))
	}
	return &Fleet{cfg: cfg, vehicles: vehicles, store: NewStatusStore(), log: logger.New("simulator")}
}

// Size returns the number of vehicles.
func (f *Fleet) Size() int { return len(f.vehicles) }

// Store exposes the last-known-state store.
func (f *Fleet) Store() *StatusStore { return f.store }

// Vehicles returns the generated vehicle ids in order.
func (f *Fleet) Vehicles() []string {
	ids := make([]string, len(f.vehicles))
	for i, v := range f.vehicles {
		ids[i] = v.ID
	}
	return ids
}

// Run starts every vehicle with its own publisher and blocks until the
// context is done and all vehicles stopped. Starts are staggered so the
// fleet does not stampede the broker.
func (f *Fleet) Run(ctx context.Context, connect PublisherFactory) error {
	var wg sync.WaitGroup
	started := 0
	for _, v := range f.vehicles {
		if ctx.Err() != nil {
			break
		}
		pub, err := connect(v.ID)
		if err != nil {
			f.log.Errorf("%s: connect: %v", v.ID, err)
			continue
		}
		started++
		wg.Add(1)
		go func(v *EmulatedVehicle, pub coremqtt.Publisher) {
			defer wg.Done()
			defer pub.Close()
			if err := v.Run(ctx, pub, f.cfg.Interval, f.store); err != nil {
				f.log.Errorf("%s: %v", v.ID, err)
			}
		}(v, pub)
		select {
		case <-time.After(f.stagger()):
		case <-ctx.Done():
		}
	}
	if started == 0 && len(f.vehicles) > 0 {
		return fmt.Errorf("no vehicle could connect")
	}
	f.log.Infof("fleet of %d vehicles running", started)
	wg.Wait()
	return nil
}

func (f *Fleet) stagger() time.Duration {
	d := f.cfg.Interval / time.Duration(len(f.vehicles)+1)
	if d > 200*time.Millisecond {
		d = 200 * time.Millisecond
	}
	return d
}
