package health

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sourcegraph/conc/pool"

	"rpi-dashboard/pkg/snapshot"
	"rpi-dashboard/pkg/telemetry"
)

const ScreenName = "telemetry"

// Source is the read side of the backend the poller needs.
type Source interface {
	LatestReading(ctx context.Context) (*Reading, error)
	RecentReadings(ctx context.Context, limit int) ([]Reading, error)
	Stats(ctx context.Context, hours int) (*Stats, error)
}

type PollerConfig struct {
	Interval    time.Duration
	AutoRefresh bool
	RecentLimit int
	StatsHours  int
	Timeout     time.Duration
}

// Poller keeps the telemetry screen's snapshot current. Each refresh reads
// the latest reading, recent readings and window stats concurrently and
// replaces the snapshot only when all three succeed.
type Poller struct {
	*snapshot.Cache[Snapshot]

	source Source
	cfg    PollerConfig
	clock  telemetry.Clock
}

func NewPoller(source Source, cfg PollerConfig, logger *log.Logger, publisher telemetry.TelemetryPublisher) *Poller {
	p := &Poller{
		source: source,
		cfg:    cfg,
		clock:  telemetry.RealClock{},
	}
	p.Cache = snapshot.New(p.fetch, snapshot.Options{
		Name:        ScreenName,
		Interval:    cfg.Interval,
		AutoRefresh: cfg.AutoRefresh,
		Timeout:     cfg.Timeout,
		Logger:      logger,
		Publisher:   publisher,
	})
	return p
}

func (p *Poller) fetch(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	// Sibling reads are cancelled as soon as one fails.
	pl := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	pl.Go(func(ctx context.Context) error {
		latest, err := p.source.LatestReading(ctx)
		if err != nil {
			return fmt.Errorf("latest reading: %w", err)
		}
		snap.Latest = latest
		return nil
	})
	pl.Go(func(ctx context.Context) error {
		recent, err := p.source.RecentReadings(ctx, p.cfg.RecentLimit)
		if err != nil {
			return fmt.Errorf("recent readings: %w", err)
		}
		snap.Recent = recent
		return nil
	})
	pl.Go(func(ctx context.Context) error {
		stats, err := p.source.Stats(ctx, p.cfg.StatsHours)
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}
		snap.Stats = stats
		return nil
	})
	if err := pl.Wait(); err != nil {
		return Snapshot{}, err
	}

	if snap.Recent == nil {
		snap.Recent = []Reading{}
	}
	snap.FetchedAt = p.clock.Now()
	return snap, nil
}
