package engine

import (
	"sync"

	"tempo/internal/core/model"
)

// Broadcaster fans timer states out to any number of observers. A new
// subscriber receives the current state as its first value, then every
// later state in publish order. Delivery never blocks the publisher: when
// a subscriber's channel is full its stale value is replaced, so a slow
// observer may skip superseded states but always converges on the newest
// one and never sees values out of order.
type Broadcaster struct {
	mu      sync.Mutex
	current model.State
	subs    map[<-chan model.State]chan model.State
	closed  bool
}

// NewBroadcaster creates a broadcaster seeded with the given state.
func NewBroadcaster(initial model.State) *Broadcaster {
	return &Broadcaster{
		current: initial,
		subs:    make(map[<-chan model.State]chan model.State),
	}
}

// Subscribe registers a new observer channel. The current state is already
// buffered on the returned channel. After Close the returned channel is
// closed immediately.
func (broadcaster *Broadcaster) Subscribe(buffer int) <-chan model.State {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan model.State, buffer)

	broadcaster.mu.Lock()
	defer broadcaster.mu.Unlock()
	if broadcaster.closed {
		close(ch)
		return ch
	}
	ch <- broadcaster.current
	broadcaster.subs[ch] = ch
	return ch
}

// Unsubscribe removes an observer and closes its channel. Unknown channels
// are ignored.
func (broadcaster *Broadcaster) Unsubscribe(ch <-chan model.State) {
	broadcaster.mu.Lock()
	sub, ok := broadcaster.subs[ch]
	if ok {
		delete(broadcaster.subs, ch)
	}
	broadcaster.mu.Unlock()

	if ok {
		close(sub)
	}
}

// Publish records state as current and delivers it to every subscriber.
func (broadcaster *Broadcaster) Publish(state model.State) {
	broadcaster.mu.Lock()
	defer broadcaster.mu.Unlock()
	if broadcaster.closed {
		return
	}
	broadcaster.current = state
	for _, ch := range broadcaster.subs {
		select {
		case ch <- state:
		default:
			// Full channel: evict one stale value so the newest state
			// still lands.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- state:
			default:
			}
		}
	}
}

// Current returns the most recently published state.
func (broadcaster *Broadcaster) Current() model.State {
	broadcaster.mu.Lock()
	defer broadcaster.mu.Unlock()
	return broadcaster.current
}

// Close closes every subscriber channel and rejects further subscriptions.
func (broadcaster *Broadcaster) Close() {
	broadcaster.mu.Lock()
	if broadcaster.closed {
		broadcaster.mu.Unlock()
		return
	}
	broadcaster.closed = true
	subs := broadcaster.subs
	broadcaster.subs = nil
	broadcaster.mu.Unlock()

	for _, ch := range subs {
		close(ch)
	}
}
