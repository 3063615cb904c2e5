package telemetry

// NoopPublisher is a telemetry publisher that does nothing
// Useful for testing or when telemetry is disabled
type NoopPublisher struct{}

// NewNoopPublisher creates a new no-op telemetry publisher
func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

// Publish does nothing
func (n *NoopPublisher) Publish(event TelemetryEvent) {}

// FanOut publishes every event to each of its publishers in order.
type FanOut []TelemetryPublisher

func (f FanOut) Publish(event TelemetryEvent) {
	for _, p := range f {
		if p != nil {
			p.Publish(event)
		}
	}
}
