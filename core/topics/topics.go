// Package topics derives and parses the MQTT topic tree of the vehicle
// telemetry namespace. All vehicle topics live below a per-user root:
//
//	/iot/user/<username>/vehicle/<id>/telemetry
//	/iot/user/<username>/vehicle/<id>/info
package topics

import (
	"fmt"
	"strings"

	"github.com/fleetlab/vtelem/core/conf"
)

// Namespace joins and matches topics below a fixed root.
type Namespace struct {
	root string
}

// New builds a Namespace from an explicit root topic. A trailing slash is
// stripped so joins stay canonical.
func New(root string) Namespace {
	return Namespace{root: strings.TrimSuffix(root, "/")}
}

// ForUser derives the namespace root from the username, the same way the
// configuration record does.
func ForUser(username string) Namespace {
	return New(fmt.Sprintf(conf.BasicTopicTemplate, username))
}

// FromParams uses the basic topic already derived in the record.
func FromParams(p conf.Params) Namespace {
	return New(p.BasicTopic)
}

// Root returns the namespace root topic.
func (n Namespace) Root() string { return n.root }

// Vehicle returns the root topic of a single vehicle.
func (n Namespace) Vehicle(id string) string {
	return n.root + "/" + conf.VehicleTopic + "/" + id
}

// Telemetry returns the telemetry topic of a vehicle.
func (n Namespace) Telemetry(id string) string {
	return n.Vehicle(id) + "/" + conf.TelemetryTopic
}

// Info returns the info topic of a vehicle.
func (n Namespace) Info(id string) string {
	return n.Vehicle(id) + "/" + conf.InfoTopic
}

// VehicleFilter matches every topic of every vehicle in the namespace.
func (n Namespace) VehicleFilter() string {
	return n.root + "/" + conf.VehicleTopic + "/#"
}

// TelemetryFilter matches the telemetry topic of every vehicle.
func (n Namespace) TelemetryFilter() string {
	return n.root + "/" + conf.VehicleTopic + "/+/" + conf.TelemetryTopic
}

// InfoFilter matches the info topic of every vehicle.
func (n Namespace) InfoFilter() string {
	return n.root + "/" + conf.VehicleTopic + "/+/" + conf.InfoTopic
}

// IsTelemetry reports whether topic is a telemetry topic of this namespace.
func (n Namespace) IsTelemetry(topic string) bool {
	id, leaf, ok := n.split(topic)
	return ok && id != "" && leaf == conf.TelemetryTopic
}

// IsInfo reports whether topic is an info topic of this namespace.
func (n Namespace) IsInfo(topic string) bool {
	id, leaf, ok := n.split(topic)
	return ok && id != "" && leaf == conf.InfoTopic
}

// ExtractVehicleID returns the vehicle id segment of a namespace topic.
func (n Namespace) ExtractVehicleID(topic string) (string, error) {
	id, _, ok := n.split(topic)
	if !ok || id == "" {
		return "", fmt.Errorf("topic %q outside namespace %q", topic, n.root)
	}
	return id, nil
}

// split breaks a topic into the vehicle id and the leaf segment below it.
// The leaf is empty for the bare vehicle topic.
func (n Namespace) split(topic string) (id, leaf string, ok bool) {
	prefix := n.root + "/" + conf.VehicleTopic + "/"
	rest, found := strings.CutPrefix(topic, prefix)
	if !found || rest == "" {
		return "", "", false
	}
	parts := strings.SplitN(rest, "/", 2)
	id = parts[0]
	if len(parts) == 2 {
		leaf = parts[1]
	}
	return id, leaf, true
}

// ValidVehicleID checks that id can be used as a single topic level.
func ValidVehicleID(id string) error {
	if id == "" {
		return fmt.Errorf("vehicle id is empty")
	}
	if strings.ContainsAny(id, "/+#") {
		return fmt.Errorf("vehicle id %q contains topic separator characters", id)
	}
	return nil
}
