// Package eventbus provides an in-process publish/subscribe channel.
//
// Delivery is synchronous and in publish order. A subscriber that returns
// an error or panics is logged and skipped; the remaining subscribers still
// receive the event.
package eventbus

import (
	"fmt"
	"log/slog"
	"sync"
)

// Handler consumes a published event.
type Handler[E any] func(event E) error

type subscription[E any] struct {
	id      uint64
	name    string
	handler Handler[E]

	// channel subscribers only
	mu     sync.Mutex
	ch     chan E
	closed bool
}

// Bus fans events out to registered subscribers.
type Bus[E any] struct {
	mu     sync.RWMutex
	subs   []*subscription[E]
	nextID uint64
	closed bool
	logger *slog.Logger
}

// New creates an empty bus. A nil logger discards subscriber failures.
func New[E any](logger *slog.Logger) *Bus[E] {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bus[E]{logger: logger}
}

// Subscribe registers a handler and returns a function that removes it.
func (bus *Bus[E]) Subscribe(name string, handler Handler[E]) func() {
	sub := &subscription[E]{name: name, handler: handler}
	bus.add(sub)
	return func() { bus.remove(sub) }
}

// SubscribeChannel registers a buffered channel observer. Sends never block:
// when the buffer is full the event is dropped for that observer only.
// The channel is closed on unsubscribe or when the bus closes.
func (bus *Bus[E]) SubscribeChannel(name string, buffer int) (<-chan E, func()) {
	if buffer <= 0 {
		buffer = 1
	}
	sub := &subscription[E]{name: name, ch: make(chan E, buffer)}
	if !bus.add(sub) {
		close(sub.ch)
		return sub.ch, func() {}
	}
	return sub.ch, func() { bus.remove(sub) }
}

// Publish delivers event to every subscriber registered at call time.
func (bus *Bus[E]) Publish(event E) {
	bus.mu.RLock()
	if bus.closed {
		bus.mu.RUnlock()
		return
	}
	subs := append([]*subscription[E](nil), bus.subs...)
	bus.mu.RUnlock()

	for _, sub := range subs {
		if err := bus.deliver(sub, event); err != nil {
			bus.logger.Warn("subscriber failed", "subscriber", sub.name, "error", err)
		}
	}
}

// Len reports the number of registered subscribers.
func (bus *Bus[E]) Len() int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.subs)
}

// Close drops all subscribers and closes observer channels.
func (bus *Bus[E]) Close() {
	bus.mu.Lock()
	if bus.closed {
		bus.mu.Unlock()
		return
	}
	bus.closed = true
	subs := bus.subs
	bus.subs = nil
	bus.mu.Unlock()

	for _, sub := range subs {
		sub.closeChannel()
	}
}

func (bus *Bus[E]) add(sub *subscription[E]) bool {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	if bus.closed {
		return false
	}
	bus.nextID++
	sub.id = bus.nextID
	bus.subs = append(bus.subs, sub)
	return true
}

func (bus *Bus[E]) remove(target *subscription[E]) {
	bus.mu.Lock()
	for index, sub := range bus.subs {
		if sub.id == target.id {
			bus.subs = append(bus.subs[:index:index], bus.subs[index+1:]...)
			break
		}
	}
	bus.mu.Unlock()
	target.closeChannel()
}

func (bus *Bus[E]) deliver(sub *subscription[E], event E) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("panic: %v", recovered)
		}
	}()

	if sub.handler != nil {
		return sub.handler(event)
	}

	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed {
		return nil
	}
	select {
	case sub.ch <- event:
		return nil
	default:
		return fmt.Errorf("observer buffer full, event dropped")
	}
}

func (sub *subscription[E]) closeChannel() {
	if sub.ch == nil {
		return
	}
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if !sub.closed {
		sub.closed = true
		close(sub.ch)
	}
}
