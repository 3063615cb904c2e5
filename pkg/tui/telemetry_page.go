package tui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"rpi-dashboard/pkg/health"
	"rpi-dashboard/pkg/snapshot"
)

// TelemetryPage shows the latest reading, window statistics and the recent
// readings table.
type TelemetryPage struct {
	newPoller func() *health.Poller
	changed   func()

	poller      *health.Poller
	unsubscribe func()

	root   *tview.Flex
	status *tview.TextView
	banner *tview.TextView
	cards  []*tview.TextView
	stats  *tview.TextView
	table  *tview.Table
}

// NewTelemetryPage builds the layout. newPoller is called on every mount;
// changed is called from the poller's goroutines after each state transition
// and must not block.
func NewTelemetryPage(newPoller func() *health.Poller, changed func()) *TelemetryPage {
	p := &TelemetryPage{
		newPoller: newPoller,
		changed:   changed,
		status:    newText(),
		banner:    newText(),
		stats:     newText(),
		table:     tview.NewTable().SetFixed(1, 0).SetSelectable(true, false),
	}
	p.banner.SetTextColor(tcell.ColorRed)

	cardRow := tview.NewFlex()
	for range 4 {
		tv := newText().SetTextAlign(tview.AlignCenter)
		tv.SetBorder(true)
		p.cards = append(p.cards, tv)
		cardRow.AddItem(tv, 0, 1, false)
	}

	p.stats.SetBorder(true).SetTitle(" 24-Hour Statistics ")
	p.table.SetBorder(true).SetTitle(" Recent Health Logs ")

	p.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(p.status, 1, 0, false).
		AddItem(p.banner, 1, 0, false).
		AddItem(cardRow, 5, 0, false).
		AddItem(p.stats, 3, 0, false).
		AddItem(p.table, 0, 1, true)
	return p
}

func (p *TelemetryPage) Name() string               { return health.ScreenName }
func (p *TelemetryPage) Primitive() tview.Primitive { return p.root }

func (p *TelemetryPage) Help() string {
	return "r refresh  a auto-refresh  tab/1/2 switch  q quit"
}

func (p *TelemetryPage) Mount() {
	if p.poller != nil {
		return
	}
	p.poller = p.newPoller()
	p.unsubscribe = p.poller.Subscribe(func(snapshot.State[health.Snapshot]) { p.changed() })
	p.poller.Start()
}

func (p *TelemetryPage) Unmount() {
	if p.poller == nil {
		return
	}
	p.unsubscribe()
	p.poller.Stop()
	p.poller = nil
	p.unsubscribe = nil
}

// Poller returns the mounted poller, or nil.
func (p *TelemetryPage) Poller() *health.Poller { return p.poller }

func (p *TelemetryPage) HandleKey(event *tcell.EventKey) *tcell.EventKey {
	if p.poller == nil || event.Key() != tcell.KeyRune {
		return event
	}
	switch event.Rune() {
	case 'r':
		p.poller.Trigger()
		return nil
	case 'a':
		p.poller.SetAutoRefresh(!p.poller.AutoRefresh())
		return nil
	}
	return event
}

func (p *TelemetryPage) Render(now time.Time) {
	if p.poller == nil {
		return
	}
	st := p.poller.State()
	setText(p.status, fmt.Sprintf("[::b]RPi Health Monitor[::-]  [gray]%s[-]", StatusLine(st, p.poller.AutoRefresh(), now)))
	setText(p.banner, tview.Escape(Banner(st)))

	p.renderCards(st.Data.Latest, now)

	if line := StatsLine(st.Data.Stats); line != "" {
		setText(p.stats, line)
	} else {
		setText(p.stats, "[gray]-[-]")
	}

	p.renderTable(st)
}

func (p *TelemetryPage) renderCards(latest *health.Reading, now time.Time) {
	cards := LatestCards(latest, now)
	for i, tv := range p.cards {
		if i >= len(cards) {
			tv.SetTitle("")
			setText(tv, "")
			continue
		}
		c := cards[i]
		tv.SetTitle(" " + c.Title + " ")
		tv.SetTextColor(c.Color)
		setText(tv, fmt.Sprintf("\n[::b]%s[::-]\n[gray]%s[-]", tview.Escape(c.Value), c.Age))
	}
}

func (p *TelemetryPage) renderTable(st snapshot.State[health.Snapshot]) {
	p.table.Clear()
	for col, h := range RecentHeaders {
		p.table.SetCell(0, col, tview.NewTableCell(h).
			SetAttributes(tcell.AttrBold).
			SetSelectable(false))
	}

	if msg := RecentPlaceholder(st); msg != "" {
		p.table.SetCell(1, 0, tview.NewTableCell(msg).
			SetTextColor(colorMuted).
			SetSelectable(false))
		if msg == NoHealthLogs {
			p.table.SetCell(2, 0, tview.NewTableCell(NoHealthLogsHint).
				SetTextColor(colorMuted).
				SetSelectable(false))
		}
		return
	}

	for i, r := range st.Data.Recent {
		for col, c := range ReadingRow(r) {
			p.table.SetCell(i+1, col, tview.NewTableCell(tview.Escape(c.Text)).
				SetTextColor(c.Color).
				SetExpansion(1))
		}
	}
}
