// Package stream holds the current state snapshot and notifies subscribers
// whenever it is replaced.
package stream

import (
	"sync"

	"github.com/goliatone/go-statestore/value"
)

// Unsubscribe detaches a subscriber. It is safe to call more than once.
type Unsubscribe func()

// Subscriber receives every snapshot passed to Next.
type Subscriber func(state *value.Map)

// StateStream is the state container: it keeps the latest snapshot and fans
// replacements out to subscribers synchronously, in subscription order.
type StateStream struct {
	mu          sync.RWMutex
	current     *value.Map
	subscribers []subscription
	nextID      uint64
}

type subscription struct {
	id uint64
	fn Subscriber
}

// New creates a stream seeded with initial. A nil initial state becomes an
// empty map.
func New(initial *value.Map) *StateStream {
	if initial == nil {
		initial = value.NewMap()
	}
	return &StateStream{current: initial}
}

// Value returns the current snapshot.
func (s *StateStream) Value() *value.Map {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Next replaces the current snapshot and notifies subscribers. Callbacks run
// outside the lock so they may read the stream or call Next again.
func (s *StateStream) Next(state *value.Map) {
	s.mu.Lock()
	s.current = state
	subscribers := append([]subscription(nil), s.subscribers...)
	s.mu.Unlock()

	for _, sub := range subscribers {
		sub.fn(state)
	}
}

// Subscribe registers fn for future replacements. The current snapshot is not
// replayed.
func (s *StateStream) Subscribe(fn Subscriber) Unsubscribe {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subscribers = append(s.subscribers, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.subscribers {
				if sub.id == id {
					s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
					return
				}
			}
		})
	}
}

// Len returns the number of active subscribers.
func (s *StateStream) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers)
}
