package events

import (
	"sync"
)

// Event is one pipeline notification, e.g. a job completion.
type Event struct {
	Type string
	Data map[string]any
}

// Broker fans pipeline events out to subscribers. Workers publish through
// it so progress rendering stays out of the verification path.
type Broker struct {
	clients map[chan Event]bool
	mu      sync.RWMutex
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{
		clients: make(map[chan Event]bool),
	}
}

// Register adds a subscriber channel.
func (b *Broker) Register(client chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clients[client] = true
}

// Unregister removes a subscriber and closes its channel.
func (b *Broker) Unregister(client chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.clients[client] {
		delete(b.clients, client)
		close(client)
	}
}

// Broadcast sends an event to all subscribers. Sends never block: a
// subscriber that falls behind misses events rather than stalling workers.
func (b *Broker) Broadcast(eventType string, data map[string]any) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	event := Event{Type: eventType, Data: data}
	for client := range b.clients {
		select {
		case client <- event:
		default:
			// Client buffer full, skip
		}
	}
}
