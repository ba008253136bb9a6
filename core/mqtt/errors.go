package mqtt

import "errors"

// ErrNotConnected is returned when a publish is attempted on a closed or
// never-connected client.
var ErrNotConnected = errors.New("mqtt client not connected")

// ErrPublishTimeout is returned when the broker does not confirm a publish
// before the configured timeout.
var ErrPublishTimeout = errors.New("timeout waiting for publish confirmation")
