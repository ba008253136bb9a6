package mqtt

import (
	"context"

	"github.com/fleetlab/vtelem/infra/logger"
)

// Probe connects to the configured broker and disconnects again. It is the
// quickest way to tell whether a configuration record reaches a live broker.
func Probe(ctx context.Context, cfg Config) error {
	log := logger.New("mqtt_probe")
	params := cfg.Params()
	if fields := params.Placeholders(); len(fields) > 0 {
		log.Warnf("probing with placeholder values for %v", fields)
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return err
	}
	c := newMQTTClient(opts)
	token := c.Connect()
	select {
	case <-token.Done():
	case <-ctx.Done():
		c.Disconnect(0)
		return ctx.Err()
	}
	if err := token.Error(); err != nil {
		return err
	}
	log.Infof("broker %s reachable", params.BrokerURI())
	c.Disconnect(250)
	return nil
}
