package telemetry

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Clock interface allows for deterministic testing
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Config for telemetry settings
type Config struct {
	BufferSize      int
	MaxRecentErrors int
	LatencySamples  int
}

func DefaultConfig() Config {
	return Config{
		BufferSize:      256,
		MaxRecentErrors: 20,
		LatencySamples:  100,
	}
}

type screenState struct {
	stats ScreenStats

	// Latency ring buffer
	latencies    []time.Duration
	latencyIndex int
}

// Aggregator folds refresh telemetry into a readable Snapshot.
type Aggregator struct {
	mu    sync.RWMutex
	clock Clock
	cfg   Config

	screens map[string]*screenState

	alertsPublished uint64

	errorsTotal      uint64
	errorsByContext  map[string]uint64
	errorsBySeverity map[ErrorSeverity]uint64

	// Recent errors (ring buffer)
	recentErrors []string
	errorIndex   int

	eventCh  chan TelemetryEvent
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	startTime time.Time
}

// NewAggregator creates a new telemetry aggregator
func NewAggregator(clock Clock, cfg Config) *Aggregator {
	if clock == nil {
		clock = RealClock{}
	}
	if cfg.MaxRecentErrors <= 0 {
		cfg.MaxRecentErrors = DefaultConfig().MaxRecentErrors
	}
	if cfg.LatencySamples <= 0 {
		cfg.LatencySamples = DefaultConfig().LatencySamples
	}

	return &Aggregator{
		clock:            clock,
		cfg:              cfg,
		screens:          make(map[string]*screenState),
		errorsByContext:  make(map[string]uint64),
		errorsBySeverity: make(map[ErrorSeverity]uint64),
		recentErrors:     make([]string, cfg.MaxRecentErrors),
		eventCh:          make(chan TelemetryEvent, cfg.BufferSize),
		done:             make(chan struct{}),
		startTime:        clock.Now(),
	}
}

// Start begins processing telemetry events
func (a *Aggregator) Start(ctx context.Context) {
	a.wg.Add(1)
	go a.processEvents(ctx)
}

// Stop shuts the aggregator down. Safe to call more than once.
func (a *Aggregator) Stop() {
	a.stopOnce.Do(func() { close(a.done) })
	a.wg.Wait()
}

// Publish implements TelemetryPublisher interface
func (a *Aggregator) Publish(event TelemetryEvent) {
	select {
	case a.eventCh <- event:
	default:
		// Drop if full; refresh paths must never block on telemetry
	}
}

// Snapshot implements TelemetryReader interface
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	now := a.clock.Now()

	screens := make(map[string]ScreenStats, len(a.screens))
	for name, s := range a.screens {
		stats := s.stats
		stats.AvgLatencyMs, stats.P95LatencyMs = latencyMetrics(s.latencies)
		screens[name] = stats
	}

	byContext := make(map[string]uint64, len(a.errorsByContext))
	for k, v := range a.errorsByContext {
		byContext[k] = v
	}
	bySeverity := make(map[ErrorSeverity]uint64, len(a.errorsBySeverity))
	for k, v := range a.errorsBySeverity {
		bySeverity[k] = v
	}

	// Newest first
	recentErrors := make([]string, 0)
	for i := 0; i < len(a.recentErrors); i++ {
		idx := (a.errorIndex - i - 1 + len(a.recentErrors)) % len(a.recentErrors)
		if a.recentErrors[idx] != "" {
			recentErrors = append(recentErrors, a.recentErrors[idx])
		}
	}

	utilization := 0.0
	if cap(a.eventCh) > 0 {
		utilization = float64(len(a.eventCh)) / float64(cap(a.eventCh)) * 100
	}

	return Snapshot{
		Screens:            screens,
		AlertsPublished:    a.alertsPublished,
		ErrorsTotal:        a.errorsTotal,
		ErrorsByContext:    byContext,
		ErrorsBySeverity:   bySeverity,
		RecentErrors:       recentErrors,
		UptimeSeconds:      now.Sub(a.startTime).Seconds(),
		ChannelUtilization: utilization,
	}
}

func (a *Aggregator) processEvents(ctx context.Context) {
	defer a.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-a.done:
			return
		case event := <-a.eventCh:
			a.handleEvent(event)
		}
	}
}

func (a *Aggregator) screen(name string) *screenState {
	s, ok := a.screens[name]
	if !ok {
		s = &screenState{latencies: make([]time.Duration, a.cfg.LatencySamples)}
		a.screens[name] = s
	}
	return s
}

func (a *Aggregator) handleEvent(event TelemetryEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch e := event.(type) {
	case RefreshIssued:
		a.screen(e.Screen).stats.Issued++

	case RefreshSucceeded:
		s := a.screen(e.Screen)
		s.stats.Succeeded++
		s.stats.LastSuccess = e.Timestamp()
		s.stats.LastError = ""
		s.addLatency(e.Latency)

	case RefreshFailed:
		s := a.screen(e.Screen)
		s.stats.Failed++
		s.addLatency(e.Latency)
		msg := "unknown error"
		if e.Err != nil {
			msg = e.Err.Error()
		}
		s.stats.LastError = msg
		a.recordError(fmt.Sprintf("%s: %s", e.Screen, msg), "refresh_"+e.Screen, ErrorSeverityWarning)

	case RefreshDiscarded:
		a.screen(e.Screen).stats.Discarded++

	case RefreshCoalesced:
		a.screen(e.Screen).stats.Coalesced++

	case AutoRefreshChanged:
		a.screen(e.Screen).stats.AutoRefresh = e.Enabled

	case AlertPublished:
		a.alertsPublished++

	case DashboardError:
		msg := "unknown error"
		if e.Err != nil {
			msg = e.Err.Error()
		}
		a.recordError(fmt.Sprintf("%s: %s", e.Context, msg), e.Context, e.Severity)
	}
}

func (a *Aggregator) recordError(msg, context string, severity ErrorSeverity) {
	a.errorsTotal++
	a.errorsByContext[context]++
	a.errorsBySeverity[severity]++
	a.recentErrors[a.errorIndex] = msg
	a.errorIndex = (a.errorIndex + 1) % len(a.recentErrors)
}

func (s *screenState) addLatency(latency time.Duration) {
	if latency <= 0 || len(s.latencies) == 0 {
		return
	}
	s.latencies[s.latencyIndex] = latency
	s.latencyIndex = (s.latencyIndex + 1) % len(s.latencies)
}

// latencyMetrics returns average and nearest-rank p95 in milliseconds.
func latencyMetrics(samples []time.Duration) (float64, float64) {
	valid := make([]time.Duration, 0, len(samples))
	for _, lat := range samples {
		if lat > 0 {
			valid = append(valid, lat)
		}
	}
	if len(valid) == 0 {
		return 0.0, 0.0
	}

	var sum time.Duration
	for _, lat := range valid {
		sum += lat
	}
	avg := float64(sum) / float64(len(valid)) / float64(time.Millisecond)

	sort.Slice(valid, func(i, j int) bool { return valid[i] < valid[j] })
	rank := (len(valid)*95 + 99) / 100 // ceil(0.95 * n)
	p95 := float64(valid[rank-1]) / float64(time.Millisecond)

	return avg, p95
}
