package feedback

import (
	"context"
	"log"
	"time"

	"rpi-dashboard/pkg/snapshot"
	"rpi-dashboard/pkg/telemetry"
)

const ScreenName = "feedback"

type Source interface {
	Feedback(ctx context.Context) ([]Item, error)
}

// Fetcher loads the feedback list once when its screen mounts. It never
// refreshes on its own; Reload forces another fetch.
type Fetcher struct {
	*snapshot.Cache[[]Item]
}

func NewFetcher(source Source, timeout time.Duration, logger *log.Logger, publisher telemetry.TelemetryPublisher) *Fetcher {
	fetch := func(ctx context.Context) ([]Item, error) {
		items, err := source.Feedback(ctx)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []Item{}
		}
		return items, nil
	}
	return &Fetcher{
		Cache: snapshot.New(fetch, snapshot.Options{
			Name:      ScreenName,
			Timeout:   timeout,
			Logger:    logger,
			Publisher: publisher,
		}),
	}
}

// FetchOnce issues the mount-time fetch.
func (f *Fetcher) FetchOnce() { f.Start() }

// Reload supersedes any in-flight fetch with a new one.
func (f *Fetcher) Reload() { f.Trigger() }
