// Package event provides a synchronous typed publish/subscribe bus.
//
// Producers publish Events after their state change is applied;
// subscribers for that kind run in registration order, on the publishing
// goroutine. A panicking handler is recovered and reported, and the
// remaining handlers still run — a listener can never roll back the
// transition that triggered it.
//
// Usage:
//
//	bus := event.NewBus()
//	bus.Subscribe(events.KindOrderStatusChanged, func(e event.Event) { ... })
//	bus.Publish(events.OrderStatusChanged{Order: o, From: from, To: to})
package event

import (
	"log/slog"
	"sync"
)

// Event is anything with a kind; the kind routes it to subscribers.
type Event interface {
	Kind() string
}

// Handler receives every published event of the kind it subscribed to.
type Handler func(Event)

type subscriber struct {
	token   int
	handler Handler
}

// Bus is an explicit pub/sub registry. The zero value is not usable;
// construct with NewBus.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]subscriber
	next int
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]subscriber)}
}

// Subscribe registers handler for every future publish of kind and
// returns a token for Unsubscribe.
func (b *Bus) Subscribe(kind string, handler Handler) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	b.subs[kind] = append(b.subs[kind], subscriber{token: b.next, handler: handler})
	return b.next
}

// Unsubscribe removes the handler registered under token for kind.
func (b *Bus) Unsubscribe(kind string, token int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[kind]
	for i, s := range subs {
		if s.token == token {
			b.subs[kind] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish invokes every handler subscribed to e's kind, in registration
// order, on the calling goroutine.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	subs := make([]subscriber, len(b.subs[e.Kind()]))
	copy(subs, b.subs[e.Kind()])
	b.mu.RUnlock()

	for _, s := range subs {
		b.invoke(s.handler, e)
	}
}

// invoke isolates one handler so a panic cannot stop the rest.
func (b *Bus) invoke(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("event: handler panicked", "kind", e.Kind(), "panic", r)
		}
	}()
	h(e)
}
