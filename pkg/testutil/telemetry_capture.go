package testutil

import (
	"sync"

	"rpi-dashboard/pkg/telemetry"
)

// CapturingPublisher collects telemetry events for assertions in tests.
type CapturingPublisher struct {
	mu     sync.Mutex
	Events []telemetry.TelemetryEvent
}

func NewCapturingPublisher() *CapturingPublisher { return &CapturingPublisher{} }

func (c *CapturingPublisher) Publish(event telemetry.TelemetryEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Events = append(c.Events, event)
}

func (c *CapturingPublisher) Snapshot() []telemetry.TelemetryEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]telemetry.TelemetryEvent, len(c.Events))
	copy(out, c.Events)
	return out
}

// Count returns how many captured events have the given EventType.
func (c *CapturingPublisher) Count(eventType string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, e := range c.Events {
		if e.EventType() == eventType {
			n++
		}
	}
	return n
}
