package event

import "sync"

// Handler receives published events.
type Handler interface {
	HandleEvent(Event)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(Event)

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(e Event) {
	f(e)
}

// Bus dispatches events to subscribers in subscription order, synchronously
// on the publisher's goroutine. It never spawns goroutines, so consumers see
// events in exactly the order the orchestrator produced them.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler. Handlers cannot be removed; subscribe once
// at wiring time.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers e to every subscriber in order.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := b.handlers
	b.mu.RUnlock()

	for _, h := range handlers {
		h.HandleEvent(e)
	}
}
