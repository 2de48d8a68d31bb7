package events

import (
	"context"
	"sync"
)

// Handler consumes a published event. A handler error never aborts the
// remaining handlers for the same event.
type Handler func(context.Context, Event) error

// Dispatcher fans events out to subscribed handlers.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler Handler)
}

type memoryDispatcher struct {
	mu          sync.RWMutex
	subscribers map[EventType][]Handler
}

// NewInMemoryDispatcher returns a synchronous in-process dispatcher. Account
// and post flows publish through it; the notification worker subscribes.
func NewInMemoryDispatcher() Dispatcher {
	return &memoryDispatcher{subscribers: make(map[EventType][]Handler)}
}

func (d *memoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	handlers := make([]Handler, len(d.subscribers[event.Type]))
	copy(handlers, d.subscribers[event.Type])
	d.mu.RUnlock()

	for _, handler := range handlers {
		// best effort; a failed notification must not fail the request
		_ = handler(ctx, event)
	}
	return nil
}

func (d *memoryDispatcher) Subscribe(eventType EventType, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers[eventType] = append(d.subscribers[eventType], handler)
}
