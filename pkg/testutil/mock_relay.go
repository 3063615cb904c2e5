package testutil

import (
	"context"
	"sync"

	"github.com/nbd-wtf/go-nostr"
)

// MockRelay is a reusable mock that implements alert.Relay for tests.
type MockRelay struct {
	mu sync.Mutex

	PublishError error
	CloseError   error

	PublishCalls []nostr.Event
	CloseCalled  bool
}

func (m *MockRelay) Publish(ctx context.Context, event nostr.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishCalls = append(m.PublishCalls, event)
	return m.PublishError
}

func (m *MockRelay) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
	return m.CloseError
}

// Published returns a copy of every event passed to Publish.
func (m *MockRelay) Published() []nostr.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]nostr.Event, len(m.PublishCalls))
	copy(out, m.PublishCalls)
	return out
}
