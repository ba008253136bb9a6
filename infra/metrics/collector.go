package metrics

import (
	"context"

	"github.com/fleetlab/vtelem/core/events"
	"github.com/fleetlab/vtelem/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// publisher events. It stops when the context is canceled.
func StartEventCollector(ctx context.Context, bus *eventbus.Bus[any], rec Recorder) {
	if bus == nil || rec == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.PublishEvent:
					_ = rec.RecordPublish(e)
				case events.ConnectionEvent:
					_ = rec.RecordConnection(e)
				}
			}
		}
	}()
}
