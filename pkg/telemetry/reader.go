package telemetry

import "time"

// ScreenStats summarises refresh activity for one screen.
type ScreenStats struct {
	Issued      uint64    `json:"issued"`
	Succeeded   uint64    `json:"succeeded"`
	Failed      uint64    `json:"failed"`
	Discarded   uint64    `json:"discarded"`
	Coalesced   uint64    `json:"coalesced"`
	AutoRefresh bool      `json:"autoRefresh"`
	LastSuccess time.Time `json:"lastSuccess"`
	LastError   string    `json:"lastError,omitempty"`

	AvgLatencyMs float64 `json:"avgLatencyMs"`
	P95LatencyMs float64 `json:"p95LatencyMs"`
}

type Snapshot struct {
	Screens map[string]ScreenStats `json:"screens"`

	AlertsPublished uint64 `json:"alertsPublished"`

	ErrorsTotal      uint64                   `json:"errorsTotal"`
	ErrorsByContext  map[string]uint64        `json:"errorsByContext"`
	ErrorsBySeverity map[ErrorSeverity]uint64 `json:"errorsBySeverity"`
	RecentErrors     []string                 `json:"recentErrors"`

	UptimeSeconds      float64 `json:"uptimeSeconds"`
	ChannelUtilization float64 `json:"channelUtilization"`
}

// Screen returns the stats for name, or the zero value.
func (s Snapshot) Screen(name string) ScreenStats {
	return s.Screens[name]
}

type TelemetryReader interface {
	Snapshot() Snapshot
}
