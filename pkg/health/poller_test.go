package health

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"rpi-dashboard/pkg/snapshot"
)

type stubSource struct {
	mu sync.Mutex

	latest      *Reading
	recent      []Reading
	stats       *Stats
	statsErr    error
	blockRecent bool

	gotLimit        int
	gotHours        int
	recentCancelled bool
}

func (s *stubSource) LatestReading(ctx context.Context) (*Reading, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, nil
}

func (s *stubSource) RecentReadings(ctx context.Context, limit int) ([]Reading, error) {
	s.mu.Lock()
	s.gotLimit = limit
	block := s.blockRecent
	recent := s.recent
	s.mu.Unlock()

	if block {
		<-ctx.Done()
		s.mu.Lock()
		s.recentCancelled = true
		s.mu.Unlock()
		return nil, ctx.Err()
	}
	return recent, nil
}

func (s *stubSource) Stats(ctx context.Context, hours int) (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gotHours = hours
	return s.stats, s.statsErr
}

func floatPtr(v float64) *float64 { return &v }

func TestPoller_RefreshReplacesSnapshot(t *testing.T) {
	src := &stubSource{
		latest: &Reading{ID: "r1", Temperature: 82.3, ThrottleStatus: "0x5"},
		recent: []Reading{{ID: "r1"}, {ID: "r0"}},
		stats:  &Stats{AvgTemp: floatPtr(55)},
	}
	p := NewPoller(src, PollerConfig{RecentLimit: 50, StatsHours: 24}, nil, nil)
	defer p.Stop()

	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	st := p.State()
	if !st.HasData || st.Status != snapshot.StatusIdle {
		t.Fatalf("unexpected state %+v", st)
	}
	if st.Data.Latest == nil || st.Data.Latest.ID != "r1" {
		t.Errorf("unexpected latest %+v", st.Data.Latest)
	}
	if len(st.Data.Recent) != 2 {
		t.Errorf("expected 2 recent readings, got %d", len(st.Data.Recent))
	}
	if st.Data.Stats == nil || *st.Data.Stats.AvgTemp != 55 {
		t.Errorf("unexpected stats %+v", st.Data.Stats)
	}
	if st.Data.FetchedAt.IsZero() {
		t.Error("expected FetchedAt")
	}
	if src.gotLimit != 50 || src.gotHours != 24 {
		t.Errorf("expected limit 50 and hours 24, got %d %d", src.gotLimit, src.gotHours)
	}
}

func TestPoller_AnyFailureKeepsWholeSnapshot(t *testing.T) {
	src := &stubSource{
		latest: &Reading{ID: "first"},
		recent: []Reading{{ID: "first"}},
		stats:  &Stats{},
	}
	p := NewPoller(src, PollerConfig{RecentLimit: 50, StatsHours: 24}, nil, nil)
	defer p.Stop()

	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	src.mu.Lock()
	src.latest = &Reading{ID: "second"}
	src.recent = []Reading{{ID: "second"}}
	src.statsErr = errors.New("stats unavailable")
	src.mu.Unlock()

	err := p.Refresh(context.Background())
	if err == nil {
		t.Fatal("expected refresh to fail")
	}

	st := p.State()
	if st.Status != snapshot.StatusFailed {
		t.Errorf("expected failed, got %s", st.Status)
	}
	if st.Data.Latest.ID != "first" || st.Data.Recent[0].ID != "first" {
		t.Errorf("partial update leaked: latest=%s recent=%s", st.Data.Latest.ID, st.Data.Recent[0].ID)
	}
	if !errors.Is(st.Err, src.statsErr) {
		t.Errorf("expected raw error recorded, got %v", st.Err)
	}
}

func TestPoller_FailureCancelsSiblings(t *testing.T) {
	src := &stubSource{
		latest:      &Reading{},
		blockRecent: true,
		statsErr:    errors.New("boom"),
	}
	p := NewPoller(src, PollerConfig{}, nil, nil)
	defer p.Stop()

	done := make(chan error, 1)
	go func() { done <- p.Refresh(context.Background()) }()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected failure")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("refresh did not return; sibling read was not cancelled")
	}

	src.mu.Lock()
	defer src.mu.Unlock()
	if !src.recentCancelled {
		t.Error("expected the blocked read to observe cancellation")
	}
}

func TestPoller_NullLatestAndEmptyRecent(t *testing.T) {
	src := &stubSource{}
	p := NewPoller(src, PollerConfig{}, nil, nil)
	defer p.Stop()

	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	st := p.State()
	if st.Data.Latest != nil {
		t.Error("expected no latest reading")
	}
	if st.Data.Recent == nil || len(st.Data.Recent) != 0 {
		t.Errorf("expected empty recent list, got %v", st.Data.Recent)
	}
}
