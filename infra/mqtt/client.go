package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/fleetlab/vtelem/core/conf"
)

// Config defines the connection parameters for the Paho MQTT client. The
// zero value is completed from the configuration record defaults via
// SetDefaults.
type Config struct {
	BrokerAddress  string      `json:"broker_address"`
	BrokerPort     int         `json:"broker_port"`
	ClientID       string      `json:"client_id"`
	Username       string      `json:"username"`
	Password       string      `json:"password"`
	QoS            byte        `json:"qos"`
	KeepAliveSec   int         `json:"keep_alive_seconds"`
	ConnectTimeout int         `json:"connect_timeout_seconds"`
	UseTLS         bool        `json:"use_tls"`
	ClientCert     string      `json:"client_cert"`
	ClientKey      string      `json:"client_key"`
	CABundle       string      `json:"ca_bundle"`
	LWTTopic       string      `json:"lwt_topic"`
	LWTPayload     string      `json:"lwt_payload"`
	LWTQoS         byte        `json:"lwt_qos"`
	LWTRetain      bool        `json:"lwt_retain"`
	MaxRetries     int         `json:"max_retries"`
	BackoffMS      int         `json:"backoff_ms"`
	TLSConfig      *tls.Config `json:"-"`
}

// SetDefaults fills unset connection fields from the configuration record
// placeholders and applies client timing defaults.
func (c *Config) SetDefaults() {
	def := conf.Default()
	if c.BrokerAddress == "" {
		c.BrokerAddress = def.BrokerAddress
	}
	if c.BrokerPort == 0 {
		c.BrokerPort = def.BrokerPort
	}
	if c.Username == "" {
		c.Username = def.Username
	}
	if c.Password == "" {
		c.Password = def.Password
	}
	if c.KeepAliveSec == 0 {
		c.KeepAliveSec = 30
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 10
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.BackoffMS == 0 {
		c.BackoffMS = 100
	}
}

// Params builds the configuration record for this connection, deriving the
// basic topic from the username.
func (c Config) Params() conf.Params {
	return conf.New(c.BrokerAddress, c.BrokerPort, c.Username, c.Password)
}

// Validate checks the connection section.
func (c Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.QoS > 2 {
		return fmt.Errorf("qos %d outside 0-2", c.QoS)
	}
	if c.LWTQoS > 2 {
		return fmt.Errorf("lwt qos %d outside 0-2", c.LWTQoS)
	}
	if c.UseTLS && c.TLSConfig == nil {
		if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
			return fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
		}
	}
	return nil
}

// pahoClient is the narrow slice of the Paho client the publisher uses.
type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// NewClientOptions builds mqtt client options from Config. Placeholder
// credentials are passed through unchanged; the broker rejects them, not
// this layer.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "vtelem-" + uuid.NewString()[:8]
	}
	opts := paho.NewClientOptions().AddBroker(cfg.Params().BrokerURI()).SetClientID(clientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.KeepAliveSec > 0 {
		opts.SetKeepAlive(time.Duration(cfg.KeepAliveSec) * time.Second)
	}
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(time.Duration(cfg.ConnectTimeout) * time.Second)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	if cfg.LWTTopic != "" {
		opts.SetBinaryWill(cfg.LWTTopic, []byte(cfg.LWTPayload), cfg.LWTQoS, cfg.LWTRetain)
	}
	return opts, nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	cfg := &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}
	return cfg, nil
}
