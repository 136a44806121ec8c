package bus

import (
	"context"
	"errors"
	"sync"
)

// Event is the transient envelope published after a successful mutation.
// Key is the id of the entity the event concerns; Data is the committed
// entity itself. Envelopes are never persisted.
type Event struct {
	Type string
	Key  string
	Data any
}

// ErrClosed is returned by Next after the subscription is closed and its
// buffer is drained.
var ErrClosed = errors.New("bus: subscription closed")

// Bus is an in-process broadcast publish/subscribe primitive keyed by event
// type. The zero value is not usable; construct with New and inject the
// instance from the process root.
type Bus struct {
	mu   sync.Mutex
	subs map[string][]*Subscription
}

// New returns an empty bus.
func New() *Bus {
	return &Bus{subs: map[string][]*Subscription{}}
}

// Publish delivers evt to every subscription for evt.Type that exists right
// now. It returns once all of them have the event buffered; it does not wait
// for any subscriber to drain.
func (b *Bus) Publish(evt Event) {
	b.mu.Lock()
	snapshot := append([]*Subscription(nil), b.subs[evt.Type]...)
	b.mu.Unlock()
	for _, s := range snapshot {
		s.enqueue(evt)
	}
}

// Subscribe registers a new subscription for the given event type. Events
// published from this moment on are buffered until drained via Next.
func (b *Bus) Subscribe(eventType string) *Subscription {
	s := &Subscription{bus: b, typ: eventType, wake: make(chan struct{})}
	b.mu.Lock()
	b.subs[eventType] = append(b.subs[eventType], s)
	b.mu.Unlock()
	return s
}

func (b *Bus) remove(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.subs[sub.typ]
	for i, s := range list {
		if s == sub {
			b.subs[sub.typ] = append(list[:i], list[i+1:]...)
			break
		}
	}
}

// Subscription is one listener's live handle. Multiple subscriptions for the
// same type each receive every event independently.
type Subscription struct {
	bus *Bus
	typ string

	mu     sync.Mutex
	queue  []Event
	wake   chan struct{}
	closed bool
}

func (s *Subscription) enqueue(evt Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.queue = append(s.queue, evt)
	// Wake any blocked Next. Same close-and-remake discipline as the store's
	// append notification.
	close(s.wake)
	s.wake = make(chan struct{})
}

// Next returns the next buffered event, blocking until one arrives, ctx is
// done, or the subscription is closed and drained.
func (s *Subscription) Next(ctx context.Context) (Event, error) {
	for {
		s.mu.Lock()
		if len(s.queue) > 0 {
			evt := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()
			return evt, nil
		}
		if s.closed {
			s.mu.Unlock()
			return Event{}, ErrClosed
		}
		wake := s.wake
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return Event{}, ctx.Err()
		case <-wake:
		}
	}
}

// Close stops delivery and removes the subscription from the bus. It is
// idempotent and safe to call while a publish is in flight.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.wake)
	s.mu.Unlock()
	s.bus.remove(s)
}
