// Package sse fans out per-user events to open event streams.
package sse

import (
	"log/slog"
	"sync"
)

// bufferSize is how many events a slow stream may lag before it misses some.
const bufferSize = 10

// Event is one server-sent event addressed to a user.
type Event struct {
	UserID string
	Event  string
	Data   any
}

// Hub keeps the open streams of every user. Publishing never blocks on a
// slow reader.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe opens a stream for userID. The returned cleanup closes the
// channel and is safe to call more than once.
func (h *Hub) Subscribe(userID string) (<-chan Event, func()) {
	ch := make(chan Event, bufferSize)

	h.mu.Lock()
	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[chan Event]struct{})
	}
	h.subscribers[userID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[userID], ch)
			if len(h.subscribers[userID]) == 0 {
				delete(h.subscribers, userID)
			}
			close(ch)
		})
	}
	return ch, cleanup
}

// Publish delivers event to every stream of userID and returns how many
// received it. Full streams are skipped.
func (h *Hub) Publish(userID string, event Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for ch := range h.subscribers[userID] {
		select {
		case ch <- event:
			delivered++
		default:
			slog.Warn("sse stream full, event dropped", "user_id", userID, "event", event.Event)
		}
	}
	return delivered
}

// SubscriberCount returns the number of open streams of userID.
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[userID])
}
