package tui

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"rpi-dashboard/pkg/api"
	"rpi-dashboard/pkg/feedback"
	"rpi-dashboard/pkg/health"
	"rpi-dashboard/pkg/snapshot"
	"rpi-dashboard/pkg/testutil"
)

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

type fixture struct {
	backend  *testutil.FakeBackend
	client   *api.Client
	pollers  int
	fetchers int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{backend: testutil.NewFakeBackend()}
	t.Cleanup(f.backend.Close)
	f.client = api.NewClient(f.backend.URL, time.Second, nil)
	return f
}

func (f *fixture) newPoller() *health.Poller {
	f.pollers++
	return health.NewPoller(f.client, health.PollerConfig{
		Interval:    time.Hour,
		RecentLimit: 50,
		StatsHours:  24,
	}, nil, nil)
}

func (f *fixture) newFetcher() *feedback.Fetcher {
	f.fetchers++
	return feedback.NewFetcher(f.client, time.Second, nil, nil)
}

func TestTelemetryPage_RendersAndKeepsStaleRows(t *testing.T) {
	f := newFixture(t)
	p := NewTelemetryPage(f.newPoller, func() {})
	p.Mount()
	defer p.Unmount()

	waitFor(t, func() bool { return p.Poller().State().Status == snapshot.StatusIdle })
	p.Render(time.Now())

	if rows := p.table.GetRowCount(); rows != 2 {
		t.Fatalf("expected header plus one reading, got %d rows", rows)
	}
	if got := p.table.GetCell(1, 1).Text; got != "82.3°C" {
		t.Errorf("unexpected temperature cell %q", got)
	}
	if got := p.table.GetCell(1, 5).Text; got != "Under-voltage, Throttled" {
		t.Errorf("unexpected issues cell %q", got)
	}
	if got := p.banner.GetText(true); strings.TrimSpace(got) != "" {
		t.Errorf("expected no banner, got %q", got)
	}

	f.backend.SetStatus(testutil.RouteStats, http.StatusInternalServerError)
	p.Poller().Trigger()
	waitFor(t, func() bool { return p.Poller().State().Status == snapshot.StatusFailed })
	p.Render(time.Now())

	if got := p.banner.GetText(true); !strings.Contains(got, snapshot.DefaultErrorMessage) {
		t.Errorf("expected error banner, got %q", got)
	}
	if rows := p.table.GetRowCount(); rows != 2 {
		t.Errorf("stale rows should stay visible, got %d rows", rows)
	}
}

func TestTelemetryPage_BannerSurvivesRetry(t *testing.T) {
	f := newFixture(t)
	f.backend.SetStatus(testutil.RouteLatest, http.StatusBadGateway)
	p := NewTelemetryPage(f.newPoller, func() {})
	p.Mount()
	defer p.Unmount()

	waitFor(t, func() bool { return p.Poller().State().Status == snapshot.StatusFailed })

	// The retry hangs, so the state stays loading while it is rendered.
	f.backend.SetStatus(testutil.RouteLatest, 0)
	f.backend.SetDelay(time.Hour)
	p.Poller().Trigger()
	if st := p.Poller().State(); st.Status != snapshot.StatusLoading {
		t.Fatalf("expected a retry in flight, got %s", st.Status)
	}
	p.Render(time.Now())
	if got := p.banner.GetText(true); !strings.Contains(got, snapshot.DefaultErrorMessage) {
		t.Errorf("expected the error banner during the retry, got %q", got)
	}

	f.backend.SetDelay(0)
	p.Poller().Trigger()
	waitFor(t, func() bool { return p.Poller().State().Status == snapshot.StatusIdle })
	p.Render(time.Now())
	if got := p.banner.GetText(true); strings.TrimSpace(got) != "" {
		t.Errorf("a successful refresh should clear the banner, got %q", got)
	}
}

func TestTelemetryPage_EmptyState(t *testing.T) {
	f := newFixture(t)
	f.backend.SetBody(testutil.RouteRecent, `{"data":[]}`)
	p := NewTelemetryPage(f.newPoller, func() {})
	p.Mount()
	defer p.Unmount()

	waitFor(t, func() bool { return p.Poller().State().Status == snapshot.StatusIdle })
	p.Render(time.Now())

	if got := p.table.GetCell(1, 0).Text; got != NoHealthLogs {
		t.Errorf("expected empty-state text, got %q", got)
	}
}

func TestTelemetryPage_Keys(t *testing.T) {
	f := newFixture(t)
	p := NewTelemetryPage(f.newPoller, func() {})
	p.Mount()
	defer p.Unmount()
	waitFor(t, func() bool { return p.Poller().State().Status == snapshot.StatusIdle })

	if p.Poller().AutoRefresh() {
		t.Fatal("expected auto refresh off")
	}
	if ev := p.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone)); ev != nil {
		t.Error("expected 'a' to be consumed")
	}
	if !p.Poller().AutoRefresh() {
		t.Error("expected auto refresh on after toggle")
	}

	before := f.backend.Hits(testutil.RouteLatest)
	p.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))
	waitFor(t, func() bool { return f.backend.Hits(testutil.RouteLatest) > before })

	if ev := p.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)); ev == nil {
		t.Error("unrelated keys should pass through")
	}
}

func TestFeedbackPage_ListAndDetail(t *testing.T) {
	f := newFixture(t)
	p := NewFeedbackPage(f.newFetcher, func() {})
	p.Mount()
	defer p.Unmount()

	waitFor(t, func() bool { return p.Fetcher().State().Status == snapshot.StatusIdle })
	p.Render(time.Now())

	if n := p.list.GetItemCount(); n != 1 {
		t.Fatalf("expected one list item, got %d", n)
	}
	text, secondary := p.list.GetItemText(0)
	if !strings.Contains(text, "Great dashboard") || !strings.Contains(text, "★★★★☆") {
		t.Errorf("unexpected main text %q", text)
	}
	if secondary != "Works well on the bench" {
		t.Errorf("unexpected secondary text %q", secondary)
	}
	if got := p.detail.GetText(true); !strings.Contains(got, "a@example.com") {
		t.Errorf("expected detail pane to show the email, got %q", got)
	}

	avatar := HexColor(p.views[0].Avatar)
	if avatar == colorDefault {
		t.Fatalf("avatar %q did not parse", p.views[0].Avatar)
	}
	if got := p.detail.GetBorderColor(); got != avatar {
		t.Errorf("expected detail border in the avatar color %v, got %v", avatar, got)
	}
	if got := p.detail.GetTitle(); got != " A " {
		t.Errorf("expected the initial as the detail title, got %q", got)
	}
}

func TestFeedbackPage_EmptyShape(t *testing.T) {
	f := newFixture(t)
	f.backend.SetBody(testutil.RouteFeedback, `{}`)
	p := NewFeedbackPage(f.newFetcher, func() {})
	p.Mount()
	defer p.Unmount()

	waitFor(t, func() bool { return p.Fetcher().State().Status == snapshot.StatusIdle })
	p.Render(time.Now())

	text, _ := p.list.GetItemText(0)
	if text != NoFeedback {
		t.Errorf("expected empty-state text, got %q", text)
	}
}

func TestApp_SwitchRemountsScreens(t *testing.T) {
	f := newFixture(t)
	a := New(Config{
		InitialScreen: health.ScreenName,
		NewPoller:     f.newPoller,
		NewFetcher:    f.newFetcher,
	})
	a.show(a.current)
	defer func() { a.current.Unmount() }()

	telemetryPage := a.order[0].(*TelemetryPage)
	feedbackPage := a.order[1].(*FeedbackPage)
	if telemetryPage.Poller() == nil {
		t.Fatal("expected telemetry screen mounted")
	}

	a.handleKey(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	if a.Current().Name() != feedback.ScreenName {
		t.Fatalf("expected feedback screen, got %s", a.Current().Name())
	}
	if telemetryPage.Poller() != nil {
		t.Error("telemetry poller should be released on unmount")
	}
	if feedbackPage.Fetcher() == nil {
		t.Error("expected feedback fetcher mounted")
	}

	a.handleKey(tcell.NewEventKey(tcell.KeyRune, '1', tcell.ModNone))
	if a.Current().Name() != health.ScreenName {
		t.Fatalf("expected telemetry screen, got %s", a.Current().Name())
	}
	if feedbackPage.Fetcher() != nil {
		t.Error("feedback fetcher should be released on unmount")
	}
	if f.pollers != 2 || f.fetchers != 1 {
		t.Errorf("expected a fresh cache per mount, got %d pollers and %d fetchers", f.pollers, f.fetchers)
	}

	// Switching to the visible screen is a no-op.
	a.Switch(health.ScreenName)
	if f.pollers != 2 {
		t.Errorf("expected no remount, got %d pollers", f.pollers)
	}
}

func TestApp_InitialScreen(t *testing.T) {
	f := newFixture(t)
	a := New(Config{
		InitialScreen: feedback.ScreenName,
		NewPoller:     f.newPoller,
		NewFetcher:    f.newFetcher,
	})
	if a.Current().Name() != feedback.ScreenName {
		t.Errorf("expected feedback as the initial screen, got %s", a.Current().Name())
	}
}
