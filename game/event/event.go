// Package event provides a synchronous, typed publish/subscribe primitive.
//
// A Bus groups the named topics of one owner (a snake, a food item, a game).
// Each Topic carries a single payload type, so a listener registered for
// "levelUp" cannot be handed the payload of "gameOver".
//
// Dispatch rules:
//   - Listeners of a topic run in subscription order
//   - Emit iterates a snapshot of the listener list taken when Emit starts;
//     subscribing or unsubscribing during dispatch affects only later emits
//   - A panicking listener is recovered, reported to the bus error sink, and
//     the remaining listeners still run
//
// Nothing here is safe for concurrent use; owners run on one goroutine.
package event

import (
	"fmt"
	"log"
	"slices"
)

// ErrorSink receives failures raised by listeners.
type ErrorSink func(eventName string, err error)

// Bus is the registry of named topics for a single event owner.
type Bus struct {
	order  []string
	topics map[string]topic
	sink   ErrorSink
}

// topic is the type-erased view a Bus keeps of each Topic
type topic interface {
	removeAll()
	count() int
}

// NewBus creates an empty bus. Listener failures are logged through logger
// unless a sink is installed with SetErrorSink. A nil logger means log.Default().
func NewBus(logger *log.Logger) *Bus {
	if logger == nil {
		logger = log.Default()
	}
	return &Bus{
		topics: make(map[string]topic),
		sink: func(name string, err error) {
			logger.Printf("event %q: %v", name, err)
		},
	}
}

// SetErrorSink replaces the destination of listener failures.
func (b *Bus) SetErrorSink(sink ErrorSink) {
	if sink != nil {
		b.sink = sink
	}
}

// RemoveAllListeners drops every listener of the named events, or of all
// events when no name is given.
func (b *Bus) RemoveAllListeners(names ...string) {
	if len(names) == 0 {
		for _, t := range b.topics {
			t.removeAll()
		}
		return
	}
	for _, name := range names {
		if t, ok := b.topics[name]; ok {
			t.removeAll()
		}
	}
}

// ListenerCount returns how many listeners are attached to the named event.
func (b *Bus) ListenerCount(name string) int {
	if t, ok := b.topics[name]; ok {
		return t.count()
	}
	return 0
}

// EventNames returns, in registration order, the events that currently
// have at least one listener.
func (b *Bus) EventNames() []string {
	names := make([]string, 0, len(b.order))
	for _, name := range b.order {
		if b.topics[name].count() > 0 {
			names = append(names, name)
		}
	}
	return names
}

func (b *Bus) register(name string, t topic) {
	if _, exists := b.topics[name]; exists {
		panic(fmt.Sprintf("event: topic %q registered twice", name))
	}
	b.topics[name] = t
	b.order = append(b.order, name)
}

// Listener handles one payload.
type Listener[P any] func(P)

type entry[P any] struct {
	id uint64
	fn Listener[P]
}

// Topic is a named event with payload type P.
type Topic[P any] struct {
	bus       *Bus
	name      string
	listeners []entry[P]
	nextID    uint64
}

// NewTopic registers a topic called name on b.
// Registering the same name twice on one bus panics.
func NewTopic[P any](b *Bus, name string) *Topic[P] {
	t := &Topic[P]{bus: b, name: name}
	b.register(name, t)
	return t
}

// Name returns the event name.
func (t *Topic[P]) Name() string { return t.name }

// On appends a listener. The returned Subscription removes it again.
func (t *Topic[P]) On(fn Listener[P]) Subscription {
	t.nextID++
	id := t.nextID
	t.listeners = append(t.listeners, entry[P]{id: id, fn: fn})
	return Subscription{owner: t, id: id, cancel: func() bool { return t.remove(id) }}
}

// Once appends a listener that detaches itself before its first call.
func (t *Topic[P]) Once(fn Listener[P]) Subscription {
	var sub Subscription
	sub = t.On(func(p P) {
		sub.Unsubscribe()
		fn(p)
	})
	return sub
}

// Off removes the listener behind sub. It reports whether anything was removed.
func (t *Topic[P]) Off(sub Subscription) bool {
	if sub.owner != t {
		return false
	}
	return t.remove(sub.id)
}

// Emit delivers payload to every listener attached when the call starts.
// It returns true iff at least one listener existed.
func (t *Topic[P]) Emit(payload P) bool {
	if len(t.listeners) == 0 {
		return false
	}
	snapshot := slices.Clone(t.listeners)
	for _, e := range snapshot {
		t.invoke(e.fn, payload)
	}
	return true
}

// RemoveAll drops every listener of this topic.
func (t *Topic[P]) RemoveAll() { t.removeAll() }

// Count returns the number of attached listeners.
func (t *Topic[P]) Count() int { return t.count() }

func (t *Topic[P]) invoke(fn Listener[P], payload P) {
	defer func() {
		if r := recover(); r != nil {
			t.bus.sink(t.name, fmt.Errorf("listener panic: %v", r))
		}
	}()
	fn(payload)
}

func (t *Topic[P]) remove(id uint64) bool {
	for i, e := range t.listeners {
		if e.id == id {
			t.listeners = slices.Delete(t.listeners, i, i+1)
			return true
		}
	}
	return false
}

func (t *Topic[P]) removeAll() { t.listeners = nil }

func (t *Topic[P]) count() int { return len(t.listeners) }

// Subscription identifies one attached listener.
type Subscription struct {
	owner  any
	id     uint64
	cancel func() bool
}

// Unsubscribe detaches the listener. Calling it more than once is harmless.
func (s Subscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
	}
}
