package telemetry

import "time"

type TelemetryEvent interface {
	Timestamp() time.Time // When the event occurred
	EventType() string    // For categorization/filtering
}

// Trigger names the cause of a refresh.
type Trigger string

const (
	TriggerMount  Trigger = "mount"
	TriggerTimer  Trigger = "timer"
	TriggerUser   Trigger = "user"
	TriggerToggle Trigger = "toggle"
)

type RefreshIssued struct {
	timestamp time.Time
	Screen    string
	Seq       uint64
	Trigger   Trigger
}

func (e RefreshIssued) Timestamp() time.Time { return e.timestamp }
func (e RefreshIssued) EventType() string    { return "refresh_issued" }

func NewRefreshIssued(screen string, seq uint64, trigger Trigger) RefreshIssued {
	return RefreshIssued{
		timestamp: time.Now(),
		Screen:    screen,
		Seq:       seq,
		Trigger:   trigger,
	}
}

type RefreshSucceeded struct {
	timestamp time.Time
	Screen    string
	Seq       uint64
	Latency   time.Duration
}

func (e RefreshSucceeded) Timestamp() time.Time { return e.timestamp }
func (e RefreshSucceeded) EventType() string    { return "refresh_succeeded" }

func NewRefreshSucceeded(screen string, seq uint64, latency time.Duration) RefreshSucceeded {
	return RefreshSucceeded{
		timestamp: time.Now(),
		Screen:    screen,
		Seq:       seq,
		Latency:   latency,
	}
}

type RefreshFailed struct {
	timestamp time.Time
	Screen    string
	Seq       uint64
	Err       error
	Latency   time.Duration
}

func (e RefreshFailed) Timestamp() time.Time { return e.timestamp }
func (e RefreshFailed) EventType() string    { return "refresh_failed" }

func NewRefreshFailed(screen string, seq uint64, err error, latency time.Duration) RefreshFailed {
	return RefreshFailed{
		timestamp: time.Now(),
		Screen:    screen,
		Seq:       seq,
		Err:       err,
		Latency:   latency,
	}
}

// RefreshDiscarded is emitted when a completion arrives for a request that is
// no longer the latest one issued, or after the screen was stopped.
type RefreshDiscarded struct {
	timestamp time.Time
	Screen    string
	Seq       uint64
	Reason    string
}

func (e RefreshDiscarded) Timestamp() time.Time { return e.timestamp }
func (e RefreshDiscarded) EventType() string    { return "refresh_discarded" }

func NewRefreshDiscarded(screen string, seq uint64, reason string) RefreshDiscarded {
	return RefreshDiscarded{
		timestamp: time.Now(),
		Screen:    screen,
		Seq:       seq,
		Reason:    reason,
	}
}

// RefreshCoalesced is emitted when a timer tick is skipped because a refresh
// is still in flight.
type RefreshCoalesced struct {
	timestamp time.Time
	Screen    string
}

func (e RefreshCoalesced) Timestamp() time.Time { return e.timestamp }
func (e RefreshCoalesced) EventType() string    { return "refresh_coalesced" }

func NewRefreshCoalesced(screen string) RefreshCoalesced {
	return RefreshCoalesced{timestamp: time.Now(), Screen: screen}
}

type AutoRefreshChanged struct {
	timestamp time.Time
	Screen    string
	Enabled   bool
}

func (e AutoRefreshChanged) Timestamp() time.Time { return e.timestamp }
func (e AutoRefreshChanged) EventType() string    { return "auto_refresh_changed" }

func NewAutoRefreshChanged(screen string, enabled bool) AutoRefreshChanged {
	return AutoRefreshChanged{timestamp: time.Now(), Screen: screen, Enabled: enabled}
}

type AlertPublished struct {
	timestamp time.Time
	Device    string
	Condition string
}

func (e AlertPublished) Timestamp() time.Time { return e.timestamp }
func (e AlertPublished) EventType() string    { return "alert_published" }

func NewAlertPublished(device, condition string) AlertPublished {
	return AlertPublished{timestamp: time.Now(), Device: device, Condition: condition}
}

// DashboardError covers failures outside the refresh path (alert relay,
// metrics listener).
type DashboardError struct {
	timestamp time.Time
	Err       error
	Context   string // e.g. "alert_publish", "relay_connect"
	Severity  ErrorSeverity
}

func (e DashboardError) Timestamp() time.Time { return e.timestamp }
func (e DashboardError) EventType() string    { return "dashboard_error" }

func NewDashboardError(err error, context string, severity ErrorSeverity) DashboardError {
	return DashboardError{
		timestamp: time.Now(),
		Err:       err,
		Context:   context,
		Severity:  severity,
	}
}

type ErrorSeverity int

const (
	ErrorSeverityInfo ErrorSeverity = iota
	ErrorSeverityWarning
	ErrorSeverityError
	ErrorSeverityCritical
)

func (s ErrorSeverity) String() string {
	switch s {
	case ErrorSeverityInfo:
		return "info"
	case ErrorSeverityWarning:
		return "warning"
	case ErrorSeverityError:
		return "error"
	case ErrorSeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

type TelemetryPublisher interface {
	// Publish sends a telemetry event to the aggregator.
	// This is a non-blocking, fire-and-forget call.
	Publish(event TelemetryEvent)
}
