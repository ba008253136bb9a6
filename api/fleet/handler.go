// Package fleet exposes the emulator's last known vehicle state over HTTP.
package fleet

import (
	"context"
	"net/http"
	"time"

	"github.com/fleetlab/vtelem/core/model"
	"github.com/fleetlab/vtelem/infra/logger"
	"github.com/fleetlab/vtelem/pkg/export"
)

// Store provides the last known telemetry per vehicle.
type Store interface {
	Get(vehicleID string) (model.Telemetry, bool)
	List() []model.Telemetry
}

// NewStatusHandler returns an HTTP handler exposing fleet state via
// GET /api/fleet/status. A vehicle_id query parameter narrows the result to
// one vehicle and format=csv switches to a spreadsheet export.
func NewStatusHandler(store Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		samples := store.List()
		if id := r.URL.Query().Get("vehicle_id"); id != "" {
			s, ok := store.Get(id)
			if !ok {
				http.NotFound(w, r)
				return
			}
			samples = []model.Telemetry{s}
		}
		switch r.URL.Query().Get("format") {
		case "", "json":
			w.Header().Set("Content-Type", "application/json")
			if err := export.WriteJSON(w, samples); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		case "csv":
			w.Header().Set("Content-Type", "text/csv")
			if err := export.WriteCSV(w, samples); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
		default:
			http.Error(w, "unknown format", http.StatusBadRequest)
		}
	})
}

// Serve starts an HTTP server exposing the status handler on the given
// address. The server runs until the provided context is canceled.
func Serve(ctx context.Context, addr string, store Store) error {
	log := logger.New("fleet_api")
	mux := http.NewServeMux()
	mux.Handle("/api/fleet/status", NewStatusHandler(store))
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("status server shutdown: %v", err)
		}
		cancel()
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
