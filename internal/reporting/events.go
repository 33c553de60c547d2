package reporting

import (
	"time"
)

// EventType defines the type of event
type EventType string

const (
	// EventIdentityRefresh asks views listing network identities to reload.
	EventIdentityRefresh EventType = "identity.refresh"
	// EventNetworkRefresh asks views showing the network state to reload.
	EventNetworkRefresh EventType = "network.refresh"
)

// Event is published by the orchestrator after a lifecycle change.
type Event struct {
	Type      EventType
	Source    string
	Started   bool
	Timestamp time.Time
}

// NewEvent creates an event stamped with the current time.
func NewEvent(eventType EventType, source string, started bool) Event {
	return Event{
		Type:      eventType,
		Source:    source,
		Started:   started,
		Timestamp: time.Now(),
	}
}

// TypeFilter matches events of any of the given types.
func TypeFilter(types ...EventType) EventFilter {
	return func(e Event) bool {
		for _, t := range types {
			if e.Type == t {
				return true
			}
		}
		return false
	}
}
