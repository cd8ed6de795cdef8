package live

import (
	"sync"

	"github.com/google/uuid"

	"crisisnet/internal/domain/feed"
)

// Message shapes pushed to subscribers
const (
	MessageBootstrap = "bootstrap"
	MessageEvent     = "event"
)

// Message is one delta pushed to live subscribers. Bootstrap messages
// carry the full window; event messages carry the single new event.
type Message struct {
	Type    string           `json:"type"`
	Event   *feed.LiveEvent  `json:"event,omitempty"`
	Events  []feed.LiveEvent `json:"events,omitempty"`
	Summary Summary          `json:"summary"`
	Running bool             `json:"running"`
}

// Subscriber is one live consumer with its own bounded queue. A slow
// subscriber loses its oldest pending messages; it never slows the
// pipeline down.
type Subscriber struct {
	id string
	ch chan Message
}

// ID returns the subscriber's identifier
func (s *Subscriber) ID() string { return s.id }

// Messages returns the subscriber's receive channel. It is closed when
// the subscriber is removed from the hub.
func (s *Subscriber) Messages() <-chan Message { return s.ch }

// Hub fans messages out to subscribers. Broadcast never blocks: each
// subscriber queue drops its oldest pending message on overflow.
type Hub struct {
	mu        sync.Mutex
	subs      map[string]*Subscriber
	queueSize int
}

// NewHub creates a hub with the given per-subscriber queue size
func NewHub(queueSize int) *Hub {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Hub{
		subs:      make(map[string]*Subscriber),
		queueSize: queueSize,
	}
}

// Subscribe registers a new subscriber
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{
		id: uuid.New().String(),
		ch: make(chan Message, h.queueSize),
	}
	h.mu.Lock()
	h.subs[sub.id] = sub
	h.mu.Unlock()
	return sub
}

// SubscribeWith registers a new subscriber whose first queued message is
// the given bootstrap. The bootstrap is enqueued before the subscriber
// becomes visible to Broadcast, so no concurrent broadcast can land ahead
// of it.
func (h *Hub) SubscribeWith(bootstrap Message) *Subscriber {
	sub := &Subscriber{
		id: uuid.New().String(),
		ch: make(chan Message, h.queueSize),
	}
	sub.ch <- bootstrap
	h.mu.Lock()
	h.subs[sub.id] = sub
	h.mu.Unlock()
	return sub
}

// Unsubscribe removes a subscriber and closes its channel. Unknown ids
// are ignored, so the call is idempotent.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sub, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(sub.ch)
	}
}

// Send queues a message for a single subscriber, dropping its oldest
// pending message when the queue is full
func (h *Hub) Send(id string, msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sub, ok := h.subs[id]; ok {
		offer(sub.ch, msg)
	}
}

// Broadcast queues a message for every subscriber
func (h *Hub) Broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subs {
		offer(sub.ch, msg)
	}
}

// SubscriberCount returns the number of registered subscribers
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// offer enqueues without blocking, evicting the oldest pending message
// when the buffer is full. Only the hub sends on subscriber channels, so
// the evict-then-retry pair cannot race another sender.
func offer(ch chan Message, msg Message) {
	select {
	case ch <- msg:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- msg:
	default:
	}
}
