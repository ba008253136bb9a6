// Package events defines the publisher events emitted on the event bus.
//
// Available event types:
//   - PublishEvent: payload published on a namespace topic
//   - ConnectionEvent: broker connection established or lost
package events
