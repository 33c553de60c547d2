package reporting

import (
	"fmt"
	"sync"

	"hlfnet/pkg/logging"
)

// EventHandler is a function that processes events
type EventHandler func(Event)

// EventFilter is a function that determines if an event should be processed
type EventFilter func(Event) bool

// EventSubscription represents a subscription to events
type EventSubscription struct {
	ID      string
	Filter  EventFilter
	Handler EventHandler
	Channel chan Event
	closed  bool
}

// EventBus provides publish/subscribe functionality for events
type EventBus interface {
	// Publish delivers event to all matching subscribers.
	Publish(event Event)
	// Subscribe registers a handler called synchronously on Publish.
	Subscribe(filter EventFilter, handler EventHandler) *EventSubscription
	// SubscribeChannel registers a buffered channel; full channels drop events.
	SubscribeChannel(filter EventFilter, bufferSize int) *EventSubscription
	Unsubscribe(subscription *EventSubscription)
	Close()
}

// DefaultEventBus is the default implementation of EventBus
type DefaultEventBus struct {
	mu            sync.RWMutex
	subscriptions []*EventSubscription
	subIDCounter  int64
	closed        bool
}

// NewEventBus creates a new event bus
func NewEventBus() *DefaultEventBus {
	return &DefaultEventBus{}
}

// Publish delivers event to every matching subscriber in subscription order.
// A panicking handler is logged and does not stop delivery to the others.
func (eb *DefaultEventBus) Publish(event Event) {
	eb.mu.RLock()
	if eb.closed {
		eb.mu.RUnlock()
		return
	}
	var handlers []*EventSubscription
	for _, sub := range eb.subscriptions {
		if sub.Filter != nil && !sub.Filter(event) {
			continue
		}
		if sub.Handler != nil {
			handlers = append(handlers, sub)
		}
		// Channel sends happen under the read lock so Unsubscribe cannot
		// close a channel mid-send.
		if sub.Channel != nil {
			select {
			case sub.Channel <- event:
			default:
				logging.Debug("EventBus", "Subscriber %s is full, dropping %s", sub.ID, event.Type)
			}
		}
	}
	eb.mu.RUnlock()

	// Handlers run without the lock so they may subscribe or unsubscribe.
	for _, sub := range handlers {
		deliver(sub, event)
	}
}

func deliver(sub *EventSubscription, event Event) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("EventBus", fmt.Errorf("%v", r), "Handler %s panicked on %s", sub.ID, event.Type)
		}
	}()
	sub.Handler(event)
}

// Subscribe creates a subscription with a handler function
func (eb *DefaultEventBus) Subscribe(filter EventFilter, handler EventHandler) *EventSubscription {
	return eb.add(&EventSubscription{Filter: filter, Handler: handler})
}

// SubscribeChannel creates a subscription with a channel
func (eb *DefaultEventBus) SubscribeChannel(filter EventFilter, bufferSize int) *EventSubscription {
	return eb.add(&EventSubscription{Filter: filter, Channel: make(chan Event, bufferSize)})
}

func (eb *DefaultEventBus) add(sub *EventSubscription) *EventSubscription {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	if eb.closed {
		return nil
	}
	eb.subIDCounter++
	sub.ID = fmt.Sprintf("sub-%d", eb.subIDCounter)
	eb.subscriptions = append(eb.subscriptions, sub)
	return sub
}

// Unsubscribe removes a subscription and closes its channel.
func (eb *DefaultEventBus) Unsubscribe(subscription *EventSubscription) {
	if subscription == nil {
		return
	}
	eb.mu.Lock()
	defer eb.mu.Unlock()
	for i, sub := range eb.subscriptions {
		if sub == subscription {
			eb.subscriptions = append(eb.subscriptions[:i], eb.subscriptions[i+1:]...)
			closeSubscription(sub)
			return
		}
	}
}

// Close closes the event bus and all subscriptions
func (eb *DefaultEventBus) Close() {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	if eb.closed {
		return
	}
	eb.closed = true
	for _, sub := range eb.subscriptions {
		closeSubscription(sub)
	}
	eb.subscriptions = nil
}

func closeSubscription(sub *EventSubscription) {
	if sub.closed {
		return
	}
	sub.closed = true
	if sub.Channel != nil {
		close(sub.Channel)
	}
}
