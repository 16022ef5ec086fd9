package live

import (
	"sync"

	"advancetrack/internal/model"
)

// UpdateEvent is the fan-out message for one player's refreshed state,
// grounded on original_source/src-tauri/src/events/mod.rs's UpdateEvent
// (the ProgressUpdate variant; the commented-out Profile variants were
// never wired up there either).
type UpdateEvent struct {
	Kind            string                                `json:"kind"`
	UUID            string                                `json:"uuid"`
	Player          *model.Player                         `json:"player"`
	UpdatedProgress map[string]model.AdvancementProgress  `json:"updatedProgress"`
}

// KindProgressUpdate is the only UpdateEvent kind currently emitted.
const KindProgressUpdate = "ProgressUpdate"

// Broadcaster fans an UpdateEvent out to every current subscriber, each
// over its own bounded channel. Go has no equivalent of tokio's
// broadcast::channel, so this adapts the same drop-the-slow-receiver
// semantics original_source/src-tauri/src/main.rs relies on
// (tokio::sync::broadcast::channel(32)) with per-subscriber buffering
// instead of a shared ring.
type Broadcaster struct {
	mu          sync.Mutex
	subscribers map[int]chan UpdateEvent
	nextID      int
	depth       int
}

// NewBroadcaster returns a Broadcaster whose subscriber channels are each
// buffered to depth (the original uses a fixed capacity of 32).
func NewBroadcaster(depth int) *Broadcaster {
	if depth <= 0 {
		depth = 32
	}
	return &Broadcaster{subscribers: map[int]chan UpdateEvent{}, depth: depth}
}

// Subscribe registers a new receiver and returns its channel plus a
// cancel function the caller must call when done listening.
func (b *Broadcaster) Subscribe() (<-chan UpdateEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	ch := make(chan UpdateEvent, b.depth)
	b.subscribers[id] = ch
	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if existing, ok := b.subscribers[id]; ok {
			delete(b.subscribers, id)
			close(existing)
		}
	}
}

// Publish delivers ev to every current subscriber, dropping it for any
// subscriber whose buffer is full rather than blocking the single
// producer (the update pipeline goroutine).
func (b *Broadcaster) Publish(ev UpdateEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}
