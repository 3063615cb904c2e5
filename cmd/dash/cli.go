package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"rpi-dashboard/pkg/config"
	"rpi-dashboard/pkg/feedback"
	"rpi-dashboard/pkg/health"
	"rpi-dashboard/pkg/snapshot"
	"rpi-dashboard/pkg/telemetry"
	"rpi-dashboard/pkg/utils"
)

const (
	statusInterval = 10 * time.Second
	dateWidth      = len("12/31/2025")
)

// CLI renders the configured screen as log lines instead of a terminal UI
type CLI struct {
	telemetry  telemetry.TelemetryReader
	config     *config.Config
	logger     *log.Logger
	newPoller  func() *health.Poller
	newFetcher func() *feedback.Fetcher
	clock      telemetry.Clock

	// State
	lastSnapshot telemetry.Snapshot
	printedAny   bool
	lastLines    string
	updates      chan struct{}
}

// NewCLI creates a new quiet-mode runner
func NewCLI(reader telemetry.TelemetryReader, cfg *config.Config, logger *log.Logger,
	newPoller func() *health.Poller, newFetcher func() *feedback.Fetcher) *CLI {
	return &CLI{
		telemetry:  reader,
		config:     cfg,
		logger:     logger,
		newPoller:  newPoller,
		newFetcher: newFetcher,
		clock:      telemetry.RealClock{},
		updates:    make(chan struct{}, 1),
	}
}

// Run mounts the configured screen and blocks until shutdown
func (c *CLI) Run(ctx context.Context) error {
	c.logger.Printf("Starting RPi Dashboard in quiet mode")
	c.logger.Printf("Backend: %s", c.config.APIURL)
	c.logger.Printf("Screen: %s", c.config.UI.Screen)

	var render func() []string
	switch c.config.UI.Screen {
	case config.ScreenFeedback:
		f := c.newFetcher()
		unsubscribe := f.Subscribe(func(snapshot.State[[]feedback.Item]) { c.changed() })
		defer f.Stop()
		defer unsubscribe()
		f.FetchOnce()
		render = func() []string { return describeFeedback(f.State(), c.clock.Now()) }
	default:
		c.logger.Printf("Refresh interval: %s, auto refresh: %t", c.config.Refresh.Interval(), c.config.Refresh.AutoRefresh)
		p := c.newPoller()
		unsubscribe := p.Subscribe(func(snapshot.State[health.Snapshot]) { c.changed() })
		defer p.Stop()
		defer unsubscribe()
		p.Start()
		render = func() []string { return describeTelemetry(p.State(), c.clock.Now()) }
	}

	ticker := time.NewTicker(statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Printf("Shutting down...")
			return nil
		case <-c.updates:
			c.printLines(render())
		case <-ticker.C:
			c.printStatus()
		}
	}
}

func (c *CLI) changed() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}

// printLines logs the rendered screen when it differs from the last one
func (c *CLI) printLines(lines []string) {
	joined := strings.Join(lines, "\n")
	if len(lines) == 0 || joined == c.lastLines {
		return
	}
	c.lastLines = joined
	for _, l := range lines {
		c.logger.Print(l)
	}
}

// printStatus prints refresh telemetry
func (c *CLI) printStatus() {
	snap := c.telemetry.Snapshot()

	if c.shouldPrintStatus(snap) {
		for _, name := range []string{health.ScreenName, feedback.ScreenName} {
			s, ok := snap.Screens[name]
			if !ok {
				continue
			}
			c.logger.Printf("Status %s - refreshes: issued=%s, ok=%s, failed=%s, discarded=%s, coalesced=%s, latency avg=%.0fms p95=%.0fms",
				name,
				utils.FormatNumber(int64(s.Issued)),
				utils.FormatNumber(int64(s.Succeeded)),
				utils.FormatNumber(int64(s.Failed)),
				utils.FormatNumber(int64(s.Discarded)),
				utils.FormatNumber(int64(s.Coalesced)),
				s.AvgLatencyMs,
				s.P95LatencyMs)
		}
		if snap.ErrorsTotal > 0 {
			c.logger.Printf("Errors: %s total, alerts published: %d", utils.FormatNumber(int64(snap.ErrorsTotal)), snap.AlertsPublished)
		}
	}

	c.lastSnapshot = snap
	c.printedAny = true
}

// shouldPrintStatus determines if we should print a status update
func (c *CLI) shouldPrintStatus(snap telemetry.Snapshot) bool {
	// Always print first status
	if !c.printedAny {
		return true
	}

	for name, s := range snap.Screens {
		prev := c.lastSnapshot.Screens[name]
		if s.Issued != prev.Issued || s.Failed != prev.Failed {
			return true
		}
	}

	if snap.ErrorsTotal > c.lastSnapshot.ErrorsTotal {
		return true
	}

	return snap.AlertsPublished != c.lastSnapshot.AlertsPublished
}

// describeTelemetry renders the telemetry screen as log lines. Nothing is
// printed while a refresh is in flight.
func describeTelemetry(st snapshot.State[health.Snapshot], now time.Time) []string {
	if st.Loading() {
		return nil
	}

	var lines []string
	if st.Failed() {
		lines = append(lines, fmt.Sprintf("ERROR: %s (%v)", st.Message, st.Err))
		if !st.HasData {
			return append(lines, "No health logs found")
		}
		lines = append(lines, "Showing data from "+health.RelativeAge(st.LoadedAt, now))
	}

	snap := st.Data
	if r := snap.Latest; r != nil {
		lines = append(lines, fmt.Sprintf("Latest (%s): %s [%s], %s, fan %s, throttle %s",
			health.RelativeAge(r.Timestamp, now),
			health.FormatTemperature(r.Temperature),
			health.SeverityOf(r.Temperature),
			health.FormatFrequency(r.CPUFrequency),
			r.FanState,
			strings.Join(health.DecodeThrottle(r.ThrottleStatus), ", ")))
		if history := health.DecodeThrottleHistory(r.ThrottleStatus); len(history) > 0 {
			lines = append(lines, "Since boot: "+strings.Join(history, ", "))
		}
	}
	if s := snap.Stats; s != nil {
		lines = append(lines, "Stats: avg "+health.FormatOptional(s.AvgTemp, health.FormatTemperature)+
			", max "+health.FormatOptional(s.MaxTemp, health.FormatTemperature)+
			", min "+health.FormatOptional(s.MinTemp, health.FormatTemperature)+
			", avg freq "+health.FormatOptional(s.AvgFreq, health.FormatFrequency))
	}
	if len(snap.Recent) == 0 {
		lines = append(lines, "No health logs found")
	} else {
		lines = append(lines, fmt.Sprintf("Recent readings: %d", len(snap.Recent)))
	}
	return lines
}

// describeFeedback renders the feedback list as log lines.
func describeFeedback(st snapshot.State[[]feedback.Item], now time.Time) []string {
	if st.Loading() {
		return nil
	}

	var lines []string
	if st.Failed() {
		lines = append(lines, fmt.Sprintf("ERROR: %s (%v)", st.Message, st.Err))
	}
	if len(st.Data) == 0 {
		return append(lines, "No feedback received yet")
	}

	lines = append(lines, fmt.Sprintf("Feedback: %d items", len(st.Data)))
	for _, v := range feedback.Present(st.Data, now) {
		line := fmt.Sprintf("  %s  %s: %s", utils.PadRight(v.Date, dateWidth), v.Title, v.Subtitle)
		if v.Stars != "" {
			line += "  " + v.Stars
		}
		lines = append(lines, line)
	}
	return lines
}
