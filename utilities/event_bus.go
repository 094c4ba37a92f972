package utilities

import (
	"sync"
)

// Event names published on the bus.
const (
	EventGameCompleted = "game_completed"
)

type EventHandler func(interface{})

// EventBus fans events out to subscribers. Handlers run asynchronously and a
// panicking handler never takes the publisher down.
type EventBus struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex
	wg       sync.WaitGroup
	log      *Logger
}

func NewEventBus(log *Logger) *EventBus {
	if log == nil {
		log = NewNopLogger()
	}
	return &EventBus{
		handlers: make(map[string][]EventHandler),
		log:      log,
	}
}

func (eb *EventBus) Subscribe(event string, handler EventHandler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	eb.handlers[event] = append(eb.handlers[event], handler)
}

func (eb *EventBus) Publish(event string, data interface{}) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	for _, handler := range eb.handlers[event] {
		eb.wg.Add(1)
		go func(h EventHandler) {
			defer eb.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					eb.log.Error("event handler panicked", "event", event, "panic", r)
				}
			}()
			h(data)
		}(handler)
	}
}

// Wait blocks until every handler started so far has returned.
func (eb *EventBus) Wait() {
	eb.wg.Wait()
}
