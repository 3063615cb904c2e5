package feedback

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"rpi-dashboard/pkg/snapshot"
	"rpi-dashboard/pkg/testutil"
)

type stubSource struct {
	calls atomic.Int32
	items []Item
	err   error
}

func (s *stubSource) Feedback(ctx context.Context) ([]Item, error) {
	s.calls.Add(1)
	return s.items, s.err
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestFetcher_FetchOnceSettles(t *testing.T) {
	src := &stubSource{items: []Item{{ID: "a"}}}
	pub := testutil.NewCapturingPublisher()
	f := NewFetcher(src, time.Second, nil, pub)
	defer f.Stop()

	if st := f.State(); st.Status != snapshot.StatusLoading {
		t.Fatalf("expected initial loading, got %s", st.Status)
	}

	f.FetchOnce()
	waitFor(t, func() bool { return f.State().Status == snapshot.StatusIdle })

	// One-shot: no further fetches without a reload.
	time.Sleep(20 * time.Millisecond)
	if n := src.calls.Load(); n != 1 {
		t.Errorf("expected a single fetch, got %d", n)
	}
	if got := f.State().Data; len(got) != 1 || got[0].ID != "a" {
		t.Errorf("unexpected data %+v", got)
	}
	if pub.Count("auto_refresh_changed") != 0 {
		t.Error("one-shot fetcher should not report auto refresh")
	}
}

func TestFetcher_ErrorThenReload(t *testing.T) {
	src := &stubSource{err: errors.New("offline")}
	f := NewFetcher(src, time.Second, nil, nil)
	defer f.Stop()

	f.FetchOnce()
	waitFor(t, func() bool { return f.State().Status == snapshot.StatusFailed })
	st := f.State()
	if st.HasData || st.Message != snapshot.DefaultErrorMessage {
		t.Errorf("unexpected failed state %+v", st)
	}

	src.err = nil
	if err := f.Refresh(context.Background()); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if st := f.State(); st.Status != snapshot.StatusIdle || st.Data == nil || len(st.Data) != 0 {
		t.Errorf("expected empty non-nil list after reload, got %+v", st)
	}
}

func TestFetcher_Reload(t *testing.T) {
	src := &stubSource{}
	f := NewFetcher(src, time.Second, nil, nil)
	defer f.Stop()

	f.FetchOnce()
	waitFor(t, func() bool { return src.calls.Load() == 1 })
	f.Reload()
	waitFor(t, func() bool { return src.calls.Load() == 2 })
}
