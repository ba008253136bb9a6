package events

// ConnectionState describes a broker connection transition.
type ConnectionState string

const (
	StateConnected    ConnectionState = "connected"
	StateReconnecting ConnectionState = "reconnecting"
	StateLost         ConnectionState = "lost"
)

// ConnectionEvent is emitted when the broker connection changes state.
type ConnectionEvent struct {
	State  ConnectionState
	Broker string
	Err    error
}
