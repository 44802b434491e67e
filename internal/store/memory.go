package store

import (
	"sync"

	"github.com/jpalmerr/electionboard/internal/present"
)

// subscriberBuffer is the channel buffer of each subscription.
const subscriberBuffer = 16

// MemoryStore is an in-memory implementation of [Store].
//
// MemoryStore holds a single view, the latest one published. Subscribers
// receive views via buffered channels; sends are non-blocking, so a full
// buffer drops the view for that subscriber only.
type MemoryStore struct {
	mu        sync.RWMutex
	view      present.View
	published bool

	subMu       sync.RWMutex
	subscribers map[chan present.View]struct{}
}

// NewMemoryStore creates a new in-memory [Store] implementation.
//
// The store is immediately ready for use. No cleanup is required when done.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		subscribers: make(map[chan present.View]struct{}),
	}
}

// Publish stores view and notifies all subscribers.
func (m *MemoryStore) Publish(view present.View) {
	m.mu.Lock()
	m.view = view
	m.published = true
	m.mu.Unlock()

	m.notifySubscribers(view)
}

// Latest returns the most recently published view.
func (m *MemoryStore) Latest() (present.View, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.view, m.published
}

// Subscribe creates a new subscription and returns a channel for receiving views.
//
// Caller must call [MemoryStore.Unsubscribe] when done to prevent resource leaks.
func (m *MemoryStore) Subscribe() <-chan present.View {
	ch := make(chan present.View, subscriberBuffer)

	m.subMu.Lock()
	m.subscribers[ch] = struct{}{}
	m.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel.
//
// Safe to call multiple times or with an unknown channel.
func (m *MemoryStore) Unsubscribe(ch <-chan present.View) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for subCh := range m.subscribers {
		if subCh == ch {
			delete(m.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// notifySubscribers sends the view to all active subscribers without blocking.
func (m *MemoryStore) notifySubscribers(view present.View) {
	m.subMu.RLock()
	defer m.subMu.RUnlock()

	for ch := range m.subscribers {
		select {
		case ch <- view:
		default:
			// subscriber is slow, drop the view
		}
	}
}
