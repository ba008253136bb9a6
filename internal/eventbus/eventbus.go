// Package eventbus provides a small in-process fan-out bus. It decouples
// the MQTT layer from metrics recording: publishers emit events without
// knowing who listens.
package eventbus

import "sync"

// Bus is a type-safe publish/subscribe bus for events of type T. Delivery
// is non-blocking; slow subscribers lose events instead of stalling the
// publisher.
type Bus[T any] struct {
	mu      sync.RWMutex
	subs    []chan T
	bufSize int
	closed  bool
}

// New creates a Bus with a per-subscriber buffer of 8 events.
func New[T any]() *Bus[T] { return &Bus[T]{bufSize: 8} }

// NewBuffered creates a Bus with the given per-subscriber buffer size.
func NewBuffered[T any](n int) *Bus[T] {
	if n < 1 {
		n = 1
	}
	return &Bus[T]{bufSize: n}
}

// Publish sends the event to all subscribers.
func (b *Bus[T]) Publish(e T) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a subscriber and returns its channel. The channel is
// closed on Unsubscribe or when the bus is closed.
func (b *Bus[T]) Subscribe() <-chan T {
	ch := make(chan T, b.bufSize)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subs = append(b.subs, ch)
	}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *Bus[T]) Unsubscribe(sub <-chan T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.subs {
		if ch == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			if !b.closed {
				close(ch)
			}
			return
		}
	}
}

// Close closes the bus and all subscriber channels.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
	b.mu.Unlock()
}
