package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/fleetlab/vtelem/core/events"
)

// Config enables the Prometheus endpoint.
type Config struct {
	Enabled        bool   `json:"enabled"`
	PrometheusPort string `json:"prometheus_port"`
}

// SetDefaults applies the default listen address.
func (c *Config) SetDefaults() {
	if c.PrometheusPort == "" {
		c.PrometheusPort = ":2112"
	}
}

// Recorder consumes publisher events.
type Recorder interface {
	RecordPublish(e events.PublishEvent) error
	RecordConnection(e events.ConnectionEvent) error
	RecordFleetSize(size int) error
}

// PromRecorder records publisher events in Prometheus metrics.
type PromRecorder struct {
	publishes   *prometheus.CounterVec
	bytes       *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	connections *prometheus.CounterVec
	fleet       prometheus.Gauge
}

// NewPromRecorder registers publish metrics on the default Prometheus
// registerer. The Prometheus server should be started separately using
// cfg.PrometheusPort.
func NewPromRecorder(cfg Config) (*PromRecorder, error) {
	return NewPromRecorderWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromRecorderWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromRecorderWithRegistry(_ Config, reg prometheus.Registerer) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	publishes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "telemetry_publish_total",
		Help: "Total number of payload publishes",
	}, []string{"vehicle_id", "kind", "result"})
	bytes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "telemetry_publish_bytes_total",
		Help: "Total payload bytes handed to the broker",
	}, []string{"kind"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "telemetry_publish_latency_seconds",
		Help:    "Time between publish call and broker confirmation",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	connections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mqtt_connection_transitions_total",
		Help: "Broker connection state transitions",
	}, []string{"state"})
	fleet := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleet_vehicles_total",
		Help: "Number of emulated vehicles currently running",
	})

	if err := reg.Register(publishes); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			publishes = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(bytes); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			bytes = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(latency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			latency = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(connections); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			connections = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(fleet); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			fleet = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromRecorder{publishes: publishes, bytes: bytes, latency: latency, connections: connections, fleet: fleet}, nil
}

// RecordPublish counts the attempt and observes latency and payload size.
func (r *PromRecorder) RecordPublish(e events.PublishEvent) error {
	result := "ok"
	if e.Err != nil {
		result = "error"
	}
	r.publishes.WithLabelValues(e.VehicleID, string(e.Kind), result).Inc()
	r.bytes.WithLabelValues(string(e.Kind)).Add(float64(e.Bytes))
	r.latency.WithLabelValues(string(e.Kind)).Observe(e.Latency.Seconds())
	return nil
}

// RecordConnection counts a broker connection transition.
func (r *PromRecorder) RecordConnection(e events.ConnectionEvent) error {
	r.connections.WithLabelValues(string(e.State)).Inc()
	return nil
}

// RecordFleetSize sets the gauge to the number of running vehicles.
func (r *PromRecorder) RecordFleetSize(size int) error {
	if r.fleet != nil {
		r.fleet.Set(float64(size))
	}
	return nil
}
