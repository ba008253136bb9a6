package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/fleetlab/vtelem/core/model"
)

// WriteJSON writes the telemetry snapshot to w in JSON format.
func WriteJSON(w io.Writer, samples []model.Telemetry) error {
	enc := json.NewEncoder(w)
	return enc.Encode(samples)
}

// WriteCSV writes the telemetry snapshot to w in CSV format. Timestamps are
// rendered as RFC3339 UTC for spreadsheet use; the wire format keeps unix
// milliseconds.
func WriteCSV(w io.Writer, samples []model.Telemetry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"vehicle_id", "speed_kmh", "odometer_km", "battery_level", "lat", "lon", "ts"}); err != nil {
		return err
	}
	for _, s := range samples {
		rec := []string{
			s.VehicleID,
			strconv.FormatFloat(s.SpeedKmh, 'f', -1, 64),
			strconv.FormatFloat(s.OdometerKm, 'f', -1, 64),
			strconv.FormatFloat(s.BatteryLevel, 'f', -1, 64),
			strconv.FormatFloat(s.Latitude, 'f', -1, 64),
			strconv.FormatFloat(s.Longitude, 'f', -1, 64),
			time.UnixMilli(s.Timestamp).UTC().Format(time.RFC3339),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
