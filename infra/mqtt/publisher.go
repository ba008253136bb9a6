package mqtt

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/fleetlab/vtelem/core/events"
	coremqtt "github.com/fleetlab/vtelem/core/mqtt"
	"github.com/fleetlab/vtelem/core/model"
	"github.com/fleetlab/vtelem/core/topics"
	"github.com/fleetlab/vtelem/infra/logger"
	"github.com/fleetlab/vtelem/internal/eventbus"
)

// Publisher mirrors the core mqtt.Publisher interface.
type Publisher = coremqtt.Publisher

// PahoPublisher implements the Publisher interface using Eclipse Paho. One
// publisher owns one broker connection and writes below one topic
// namespace; callers decide whether vehicles share it or hold one each.
type PahoPublisher struct {
	cli pahoClient
	ns  topics.Namespace

	qos            byte
	retainInfo     bool
	maxRetries     int
	backoff        time.Duration
	publishTimeout time.Duration

	logger logger.Logger
	bus    *eventbus.Bus[any]
}

// Option tweaks publisher construction.
type Option func(*PahoPublisher)

// WithLogger replaces the default component logger.
func WithLogger(l logger.Logger) Option {
	return func(p *PahoPublisher) { p.logger = l }
}

// WithEventBus attaches a bus that receives a PublishEvent per attempt and
// a ConnectionEvent per broker transition.
func WithEventBus(b *eventbus.Bus[any]) Option {
	return func(p *PahoPublisher) { p.bus = b }
}

// WithRetainInfo controls whether info descriptors are published retained.
func WithRetainInfo(retain bool) Option {
	return func(p *PahoPublisher) { p.retainInfo = retain }
}

// WithPublishTimeout bounds the wait for broker confirmation per attempt.
func WithPublishTimeout(d time.Duration) Option {
	return func(p *PahoPublisher) { p.publishTimeout = d }
}

// NewPahoPublisher connects to the broker and returns a publisher rooted at
// the namespace derived from the configured username.
func NewPahoPublisher(cfg Config, opts ...Option) (*PahoPublisher, error) {
	params := cfg.Params()
	p := &PahoPublisher{
		ns:             topics.FromParams(params),
		qos:            cfg.QoS,
		retainInfo:     true,
		maxRetries:     cfg.MaxRetries,
		backoff:        time.Duration(cfg.BackoffMS) * time.Millisecond,
		publishTimeout: 5 * time.Second,
		logger:         logger.New("mqtt_publisher"),
	}
	for _, o := range opts {
		o(p)
	}
	if p.maxRetries <= 0 {
		p.maxRetries = 3
	}
	if p.backoff <= 0 {
		p.backoff = 100 * time.Millisecond
	}
	if fields := params.Placeholders(); len(fields) > 0 {
		p.logger.Warnf("connecting with placeholder values for %v", fields)
	}

	clientOpts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	broker := params.BrokerURI()
	clientOpts.OnConnect = func(_ paho.Client) {
		p.logger.Infof("MQTT connected to %s", broker)
		p.emit(events.ConnectionEvent{State: events.StateConnected, Broker: broker})
	}
	clientOpts.OnConnectionLost = func(_ paho.Client, err error) {
		p.logger.Errorf("connection lost: %v", err)
		p.emit(events.ConnectionEvent{State: events.StateLost, Broker: broker, Err: err})
	}
	clientOpts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		p.logger.Warnf("reconnecting to MQTT broker")
		p.emit(events.ConnectionEvent{State: events.StateReconnecting, Broker: broker})
	}
	c := newMQTTClient(clientOpts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	p.cli = c
	return p, nil
}

// Namespace returns the topic namespace this publisher writes under.
func (p *PahoPublisher) Namespace() topics.Namespace {
	return p.ns
}

// PublishTelemetry marshals the sample and publishes it volatile on the
// vehicle telemetry topic.
func (p *PahoPublisher) PublishTelemetry(t model.Telemetry) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := topics.ValidVehicleID(t.VehicleID); err != nil {
		return err
	}
	payload, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return p.publish(p.ns.Telemetry(t.VehicleID), events.KindTelemetry, t.VehicleID, payload, false)
}

// PublishInfo marshals the descriptor and publishes it on the vehicle info
// topic, retained unless disabled.
func (p *PahoPublisher) PublishInfo(info model.VehicleInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}
	if err := topics.ValidVehicleID(info.VehicleID); err != nil {
		return err
	}
	payload, err := json.Marshal(info)
	if err != nil {
		return err
	}
	return p.publish(p.ns.Info(info.VehicleID), events.KindInfo, info.VehicleID, payload, p.retainInfo)
}

func (p *PahoPublisher) publish(topic string, kind events.PayloadKind, vehicleID string, payload []byte, retained bool) error {
	if p.cli == nil || !p.cli.IsConnected() {
		return coremqtt.ErrNotConnected
	}
	start := time.Now()
	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(topic, p.qos, retained, payload)
		if !token.WaitTimeout(p.publishTimeout) {
			publishErr = coremqtt.ErrPublishTimeout
		} else {
			publishErr = token.Error()
		}
		if publishErr == nil {
			break
		}
		p.logger.Errorf("publish attempt %d on %s failed: %v", attempt+1, topic, publishErr)
		time.Sleep(p.backoff * time.Duration(1<<attempt))
	}
	p.emit(events.PublishEvent{
		VehicleID: vehicleID,
		Kind:      kind,
		Topic:     topic,
		Bytes:     len(payload),
		Latency:   time.Since(start),
		Err:       publishErr,
	})
	if publishErr != nil {
		return publishErr
	}
	p.logger.Debugf("published %d bytes to %s", len(payload), topic)
	return nil
}

func (p *PahoPublisher) emit(e any) {
	if p.bus != nil {
		p.bus.Publish(e)
	}
}

// Close gracefully closes the MQTT connection.
func (p *PahoPublisher) Close() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Disconnect(250)
	}
}

// MockPublisher is a simple publisher used in tests.
type MockPublisher struct {
	Telemetry map[string][]model.Telemetry
	Infos     map[string]model.VehicleInfo
	FailIDs   map[string]bool
	mu        sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		Telemetry: make(map[string][]model.Telemetry),
		Infos:     make(map[string]model.VehicleInfo),
		FailIDs:   make(map[string]bool),
	}
}

// PublishTelemetry records the sample or returns an error if configured to fail.
func (m *MockPublisher) PublishTelemetry(t model.Telemetry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailIDs[t.VehicleID] {
		return fmt.Errorf("publish failed")
	}
	m.Telemetry[t.VehicleID] = append(m.Telemetry[t.VehicleID], t)
	return nil
}

// PublishInfo keeps the latest descriptor per vehicle, the way a retained
// message would.
func (m *MockPublisher) PublishInfo(info model.VehicleInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailIDs[info.VehicleID] {
		return fmt.Errorf("publish failed")
	}
	m.Infos[info.VehicleID] = info
	return nil
}

// Samples returns a copy of the recorded telemetry for one vehicle.
func (m *MockPublisher) Samples(vehicleID string) []model.Telemetry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Telemetry, len(m.Telemetry[vehicleID]))
	copy(out, m.Telemetry[vehicleID])
	return out
}

// Close is a no-op.
func (m *MockPublisher) Close() {}
