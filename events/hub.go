// Package events provides a small synchronous publish/subscribe hub,
// typed over a closed event-name/payload pair so every producer declares
// its event surface up front.
package events

import (
	"log/slog"
	"slices"
)

// Hub dispatches payloads of type E to listeners registered per event type
// T. Emission is synchronous and runs listeners in registration order; a
// panicking listener is recovered and logged and never interrupts its
// siblings or the triggering operation.
//
// Hub is not safe for concurrent use; the application is a single-threaded
// event loop.
type Hub[T comparable, E any] struct {
	listeners map[T][]subscription[E]
	logger    *slog.Logger
	nextID    int
}

type subscription[E any] struct {
	id int
	fn func(E)
}

// NewHub creates an empty hub. A nil logger falls back to slog.Default.
func NewHub[T comparable, E any](logger *slog.Logger) *Hub[T, E] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub[T, E]{
		listeners: make(map[T][]subscription[E]),
		logger:    logger,
	}
}

// Subscribe registers fn for events of type t and returns a function that
// removes exactly this registration.
func (h *Hub[T, E]) Subscribe(t T, fn func(E)) (unsubscribe func()) {
	h.nextID++
	id := h.nextID
	h.listeners[t] = append(h.listeners[t], subscription[E]{id: id, fn: fn})

	return func() {
		h.listeners[t] = slices.DeleteFunc(h.listeners[t], func(s subscription[E]) bool {
			return s.id == id
		})
	}
}

// Emit calls every listener registered for t, in registration order.
func (h *Hub[T, E]) Emit(t T, e E) {
	for _, sub := range slices.Clone(h.listeners[t]) {
		h.dispatch(t, sub, e)
	}
}

func (h *Hub[T, E]) dispatch(t T, sub subscription[E], e E) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("event listener panicked", "event", t, "panic", r)
		}
	}()
	sub.fn(e)
}

// ListenerCount reports how many listeners are registered for t.
func (h *Hub[T, E]) ListenerCount(t T) int {
	return len(h.listeners[t])
}
