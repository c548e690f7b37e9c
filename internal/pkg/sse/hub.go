package sse

import (
	"sync"
)

// Event is one server-sent event addressed to a recipient key such as "customer:<id>".
type Event struct {
	Key   string
	Event string
	Data  interface{}
}

// Hub fans events out to the open streams of each recipient key.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
	buffer      int
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
		buffer:      10,
	}
}

// Subscribe registers a stream for key. The returned cleanup must be called exactly once.
func (h *Hub) Subscribe(key string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, h.buffer)

	if h.subscribers[key] == nil {
		h.subscribers[key] = make(map[chan Event]struct{})
	}
	h.subscribers[key][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[key], ch)
			close(ch)
			if len(h.subscribers[key]) == 0 {
				delete(h.subscribers, key)
			}
		})
	}

	return ch, cleanup
}

// Publish delivers event to every stream of key and reports how many received it.
// Full streams are skipped.
func (h *Hub) Publish(key string, event Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event.Key = key
	delivered := 0
	for ch := range h.subscribers[key] {
		select {
		case ch <- event:
			delivered++
		default:
		}
	}
	return delivered
}

func (h *Hub) PublishToMany(keys []string, event Event) {
	for _, key := range keys {
		h.Publish(key, event)
	}
}

func (h *Hub) SubscriberCount(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[key])
}

func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}
