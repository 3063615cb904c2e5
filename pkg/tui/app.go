package tui

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"rpi-dashboard/pkg/feedback"
	"rpi-dashboard/pkg/health"
	"rpi-dashboard/pkg/telemetry"
	"rpi-dashboard/pkg/version"
)

// Config wires the application to its data sources. The factories are called
// each time the matching screen is mounted.
type Config struct {
	InitialScreen string
	NewPoller     func() *health.Poller
	NewFetcher    func() *feedback.Fetcher
	Logger        *log.Logger
	Clock         telemetry.Clock
}

// App is the terminal dashboard. Only the visible page holds a live cache;
// switching screens unmounts the old page before mounting the new one.
type App struct {
	app    *tview.Application
	pages  *tview.Pages
	footer *tview.TextView

	order   []Page
	current Page

	redraw chan struct{}
	logger *log.Logger
	clock  telemetry.Clock
}

func New(cfg Config) *App {
	a := &App{
		app:    tview.NewApplication(),
		pages:  tview.NewPages(),
		footer: newText(),
		redraw: make(chan struct{}, 1),
		logger: cfg.Logger,
		clock:  cfg.Clock,
	}
	if a.logger == nil {
		a.logger = log.New(io.Discard, "", 0)
	}
	if a.clock == nil {
		a.clock = telemetry.RealClock{}
	}

	a.order = []Page{
		NewTelemetryPage(cfg.NewPoller, a.requestRedraw),
		NewFeedbackPage(cfg.NewFetcher, a.requestRedraw),
	}
	for _, p := range a.order {
		a.pages.AddPage(p.Name(), p.Primitive(), true, false)
	}
	a.current = a.order[0]
	for _, p := range a.order {
		if p.Name() == cfg.InitialScreen {
			a.current = p
		}
	}

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.footer, 1, 0, false)
	a.app.SetRoot(root, true).SetInputCapture(a.handleKey)
	return a
}

// Run mounts the initial screen and blocks until the user quits or ctx is
// cancelled. The mounted page is always unmounted before Run returns.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.show(a.current)

	go func() {
		<-ctx.Done()
		a.app.Stop()
	}()
	go a.redrawLoop(ctx)

	err := a.app.Run()
	cancel()
	a.current.Unmount()
	if err != nil {
		return fmt.Errorf("terminal ui: %w", err)
	}
	return nil
}

// Current returns the visible page.
func (a *App) Current() Page { return a.current }

// Switch unmounts the visible page and mounts the named one.
func (a *App) Switch(name string) {
	for _, p := range a.order {
		if p.Name() == name && p != a.current {
			a.current.Unmount()
			a.show(p)
			return
		}
	}
}

func (a *App) next() {
	for i, p := range a.order {
		if p == a.current {
			a.Switch(a.order[(i+1)%len(a.order)].Name())
			return
		}
	}
}

func (a *App) show(p Page) {
	a.current = p
	a.pages.SwitchToPage(p.Name())
	p.Mount()
	a.logger.Printf("Mounted %s screen", p.Name())
	a.render()
}

func (a *App) render() {
	a.current.Render(a.clock.Now())
	setText(a.footer, fmt.Sprintf("[gray]%s  |  %s[-]", a.current.Help(), version.Info().Version))
}

// requestRedraw is called from cache goroutines. It never blocks, so a
// listener cannot stall a Stop that runs on the UI goroutine.
func (a *App) requestRedraw() {
	select {
	case a.redraw <- struct{}{}:
	default:
	}
}

// redrawLoop forwards state changes to the UI goroutine and redraws once a
// second so relative ages stay current.
func (a *App) redrawLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-a.redraw:
		case <-ticker.C:
		}
		a.app.QueueUpdateDraw(a.render)
	}
}

func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyTab:
		a.next()
		return nil
	case tcell.KeyCtrlC:
		a.app.Stop()
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q':
			a.app.Stop()
			return nil
		case '1':
			a.Switch(health.ScreenName)
			return nil
		case '2':
			a.Switch(feedback.ScreenName)
			return nil
		}
	}
	if event = a.current.HandleKey(event); event == nil {
		a.render()
	}
	return event
}
