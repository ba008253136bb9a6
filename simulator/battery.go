package simulator

import (
	"sync"
	"time"
)

// Battery models a simple EV battery drained by driving.
type Battery struct {
	CapacityKWh      float64 // total capacity
	Soc              float64 // state of charge [0,1]
	ConsumptionKWhKm float64 // energy per km driven
	ChargeRateKW     float64 // maximum charging power
	mu               sync.Mutex
}

// Drive drains the battery for the given distance and returns the new SoC.
func (b *Battery) Drive(distanceKm float64) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if distanceKm > 0 && b.CapacityKWh > 0 {
		b.Soc -= distanceKm * b.ConsumptionKWhKm / b.CapacityKWh
	}
	return b.clamp()
}

// Charge replenishes the battery at the charge rate for the given duration
// and returns the new SoC.
func (b *Battery) Charge(dt time.Duration) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if hours := dt.Hours(); hours > 0 && b.CapacityKWh > 0 {
		b.Soc += b.ChargeRateKW * hours / b.CapacityKWh
	}
	return b.clamp()
}

// Level returns the current SoC.
func (b *Battery) Level() float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.clamp()
}

func (b *Battery) clamp() float64 {
	if b.Soc < 0 {
		b.Soc = 0
	}
	if b.Soc > 1 {
		b.Soc = 1
	}
	return b.Soc
}
