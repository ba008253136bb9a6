package simulator

import (
	"sort"
	"sync"

	"github.com/fleetlab/vtelem/core/model"
)

// StatusStore keeps the last published sample per vehicle.
type StatusStore struct {
	mu   sync.RWMutex
	data map[string]model.Telemetry
}

func NewStatusStore() *StatusStore {
	return &StatusStore{data: map[string]model.Telemetry{}}
}

func (s *StatusStore) Set(t model.Telemetry) {
	s.mu.Lock()
	s.data[t.VehicleID] = t
	s.mu.Unlock()
}

// Get returns the last sample for one vehicle.
func (s *StatusStore) Get(id string) (model.Telemetry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.data[id]
	return t, ok
}

// List returns the last samples sorted by vehicle id.
func (s *StatusStore) List() []model.Telemetry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]model.Telemetry, 0, len(s.data))
	for _, t := range s.data {
		res = append(res, t)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].VehicleID < res[j].VehicleID })
	return res
}
