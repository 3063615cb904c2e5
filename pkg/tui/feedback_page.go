package tui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"rpi-dashboard/pkg/feedback"
	"rpi-dashboard/pkg/snapshot"
)

const feedbackTitleWidth = 40

// FeedbackPage lists feedback items with a detail pane for the selection.
type FeedbackPage struct {
	newFetcher func() *feedback.Fetcher
	changed    func()

	fetcher     *feedback.Fetcher
	unsubscribe func()

	// The list is rebuilt only when a new snapshot lands so the selection
	// survives clock redraws.
	renderedSeq    uint64
	renderedStatus snapshot.Status
	views          []feedback.View

	root   *tview.Flex
	status *tview.TextView
	banner *tview.TextView
	list   *tview.List
	detail *tview.TextView
}

func NewFeedbackPage(newFetcher func() *feedback.Fetcher, changed func()) *FeedbackPage {
	p := &FeedbackPage{
		newFetcher: newFetcher,
		changed:    changed,
		status:     newText(),
		banner:     newText(),
		list:       tview.NewList().ShowSecondaryText(true),
		detail:     newText().SetWrap(true).SetWordWrap(true),
	}
	p.banner.SetTextColor(tcell.ColorRed)
	p.list.SetBorder(true).SetTitle(" Feedback ")
	p.detail.SetBorder(true)
	p.list.SetChangedFunc(func(index int, _, _ string, _ rune) {
		p.showDetail(index)
	})

	body := tview.NewFlex().
		AddItem(p.list, 0, 1, true).
		AddItem(p.detail, 0, 1, false)

	p.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(p.status, 1, 0, false).
		AddItem(p.banner, 1, 0, false).
		AddItem(body, 0, 1, true)
	return p
}

func (p *FeedbackPage) Name() string               { return feedback.ScreenName }
func (p *FeedbackPage) Primitive() tview.Primitive { return p.root }

func (p *FeedbackPage) Help() string {
	return "f/r reload  tab/1/2 switch  q quit"
}

func (p *FeedbackPage) Mount() {
	if p.fetcher != nil {
		return
	}
	p.fetcher = p.newFetcher()
	p.unsubscribe = p.fetcher.Subscribe(func(snapshot.State[[]feedback.Item]) { p.changed() })
	p.renderedSeq = 0
	p.fetcher.FetchOnce()
}

func (p *FeedbackPage) Unmount() {
	if p.fetcher == nil {
		return
	}
	p.unsubscribe()
	p.fetcher.Stop()
	p.fetcher = nil
	p.unsubscribe = nil
}

// Fetcher returns the mounted fetcher, or nil.
func (p *FeedbackPage) Fetcher() *feedback.Fetcher { return p.fetcher }

func (p *FeedbackPage) HandleKey(event *tcell.EventKey) *tcell.EventKey {
	if p.fetcher == nil || event.Key() != tcell.KeyRune {
		return event
	}
	switch event.Rune() {
	case 'f', 'r':
		p.fetcher.Reload()
		return nil
	}
	return event
}

func (p *FeedbackPage) Render(now time.Time) {
	if p.fetcher == nil {
		return
	}
	st := p.fetcher.State()
	count := ""
	if st.HasData {
		count = fmt.Sprintf("%d items | ", len(st.Data))
	}
	setText(p.status, fmt.Sprintf("[::b]User Feedback[::-]  [gray]%s%s[-]", count, st.Status))
	setText(p.banner, tview.Escape(Banner(st)))

	if st.Seq == p.renderedSeq && st.Status == p.renderedStatus {
		return
	}
	p.renderedSeq = st.Seq
	p.renderedStatus = st.Status
	p.renderList(st, now)
}

func (p *FeedbackPage) renderList(st snapshot.State[[]feedback.Item], now time.Time) {
	current := p.list.GetCurrentItem()
	p.list.Clear()
	p.views = nil

	if msg := FeedbackPlaceholder(st); msg != "" {
		p.list.AddItem(msg, "", 0, nil)
		p.showDetail(-1)
		return
	}

	p.views = feedback.Present(st.Data, now)
	for _, v := range p.views {
		p.list.AddItem(FeedbackMain(v, feedbackTitleWidth), FeedbackSecondary(v), 0, nil)
	}
	if current >= len(p.views) {
		current = len(p.views) - 1
	}
	if current < 0 {
		current = 0
	}
	p.list.SetCurrentItem(current)
	p.showDetail(current)
}

func (p *FeedbackPage) showDetail(index int) {
	if index < 0 || index >= len(p.views) {
		p.detail.SetText("")
		p.detail.SetTitle("")
		p.detail.SetBorderColor(colorDefault)
		return
	}
	v := p.views[index]
	avatar := HexColor(v.Avatar)
	p.detail.SetBorderColor(avatar)
	p.detail.SetTitleColor(avatar)
	p.detail.SetTitle(" " + v.Initial + " ")
	p.detail.SetText(FeedbackDetail(v))
}
