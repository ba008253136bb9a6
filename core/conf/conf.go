// Package conf holds the MQTT connection parameters and topic naming
// convention of the vehicle telemetry namespace. The values shipped as
// defaults are deployment placeholders; operators substitute real broker
// coordinates and credentials before a connection is attempted.
package conf

import (
	"fmt"
	"strings"
)

// Connection defaults. The address and credentials are placeholders of the
// form "<...>" and must be replaced per deployment; the port is the broker
// listener used by the telemetry platform.
const (
	DefaultBrokerAddress = "<BROKER_IP_ADDRESS>"
	DefaultBrokerPort    = 7883
	DefaultUsername      = "<your_username>"
	DefaultPassword      = "<your_password>"
)

// BasicTopicTemplate is the fixed template the per-user root topic is
// derived from. The username is interpolated exactly once, when a Params
// value is constructed.
const BasicTopicTemplate = "/iot/user/%s"

// Topic segments of the vehicle namespace. Joined below the basic topic as
// <basic>/vehicle/<id>/telemetry and <basic>/vehicle/<id>/info.
const (
	VehicleTopic   = "vehicle"
	TelemetryTopic = "telemetry"
	InfoTopic      = "info"
)

// Params is the immutable configuration record of the telemetry namespace.
// BasicTopic is derived from the username at construction time and is not
// re-derived when the struct is mutated directly; use the With* helpers to
// obtain a consistent copy.
type Params struct {
	BrokerAddress string
	BrokerPort    int
	Username      string
	Password      string
	BasicTopic    string
}

// New builds a Params record and derives the basic topic from the template
// and the given username.
func New(address string, port int, username, password string) Params {
	return Params{
		BrokerAddress: address,
		BrokerPort:    port,
		Username:      username,
		Password:      password,
		BasicTopic:    fmt.Sprintf(BasicTopicTemplate, username),
	}
}

// Default returns the record with the original placeholder values. It is
// pure: every call yields the same Params.
func Default() Params {
	return New(DefaultBrokerAddress, DefaultBrokerPort, DefaultUsername, DefaultPassword)
}

// BrokerURI renders the tcp:// URI the MQTT client dials.
func (p Params) BrokerURI() string {
	return fmt.Sprintf("tcp://%s:%d", p.BrokerAddress, p.BrokerPort)
}

// WithUsername returns a copy with the username replaced and the basic
// topic re-derived.
func (p Params) WithUsername(username string) Params {
	p.Username = username
	p.BasicTopic = fmt.Sprintf(BasicTopicTemplate, username)
	return p
}

// WithCredentials returns a copy with username and password replaced. The
// basic topic follows the new username.
func (p Params) WithCredentials(username, password string) Params {
	p = p.WithUsername(username)
	p.Password = password
	return p
}

// WithBroker returns a copy pointing at a different broker.
func (p Params) WithBroker(address string, port int) Params {
	p.BrokerAddress = address
	p.BrokerPort = port
	return p
}

// IsPlaceholder reports whether v is a deployment placeholder, i.e. an
// angle-bracket wrapped marker such as "<BROKER_IP_ADDRESS>".
func IsPlaceholder(v string) bool {
	return len(v) > 2 && strings.HasPrefix(v, "<") && strings.HasSuffix(v, ">")
}

// Complete reports whether address and credentials have all been replaced
// with real values. An incomplete record is still valid; connecting with it
// fails at the broker, not here.
func (p Params) Complete() bool {
	return !IsPlaceholder(p.BrokerAddress) && !IsPlaceholder(p.Username) && !IsPlaceholder(p.Password)
}

// Placeholders lists the fields still carrying placeholder values.
func (p Params) Placeholders() []string {
	var fields []string
	if IsPlaceholder(p.BrokerAddress) {
		fields = append(fields, "broker_address")
	}
	if IsPlaceholder(p.Username) {
		fields = append(fields, "username")
	}
	if IsPlaceholder(p.Password) {
		fields = append(fields, "password")
	}
	return fields
}

// Validate checks the structural soundness of the record. Placeholder
// values pass validation; they are legal until a connection is attempted.
func (p Params) Validate() error {
	if p.BrokerAddress == "" {
		return fmt.Errorf("broker address is required")
	}
	if p.BrokerPort < 1 || p.BrokerPort > 65535 {
		return fmt.Errorf("broker port %d outside 1-65535", p.BrokerPort)
	}
	if p.Username == "" {
		return fmt.Errorf("username is required")
	}
	if strings.ContainsAny(p.Username, "/+#") {
		return fmt.Errorf("username %q contains topic separator characters", p.Username)
	}
	if p.BasicTopic != fmt.Sprintf(BasicTopicTemplate, p.Username) {
		return fmt.Errorf("basic topic %q does not match username %q", p.BasicTopic, p.Username)
	}
	return nil
}
