package sse

import (
	"sync"
)

// Event is a pay run notification delivered to an organization's subscribers.
type Event struct {
	OrganizationID string
	Event          string
	Data           interface{}
}

// Hub fans events out to subscribers grouped by organization.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a subscriber for an organization and returns the event
// channel with its cleanup function.
func (h *Hub) Subscribe(organizationID string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 10)

	if h.subscribers[organizationID] == nil {
		h.subscribers[organizationID] = make(map[chan Event]struct{})
	}
	h.subscribers[organizationID][ch] = struct{}{}

	cleanup := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subscribers[organizationID], ch)
		close(ch)
		if len(h.subscribers[organizationID]) == 0 {
			delete(h.subscribers, organizationID)
		}
	}

	return ch, cleanup
}

// Publish sends event to every subscriber of event.OrganizationID.
// Subscribers with a full buffer miss the event.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if subs, ok := h.subscribers[event.OrganizationID]; ok {
		for ch := range subs {
			select {
			case ch <- event:
			default:
			}
		}
	}
}

// SubscriberCount returns the number of active subscribers for an organization.
func (h *Hub) SubscriberCount(organizationID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers[organizationID])
}
