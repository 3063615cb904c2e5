package tui

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Page is one dashboard screen. Mount creates the screen's snapshot cache and
// starts it; Unmount stops it and waits for in-flight work. All methods run
// on the UI goroutine.
type Page interface {
	Name() string
	Primitive() tview.Primitive
	Mount()
	Unmount()
	Render(now time.Time)
	HandleKey(event *tcell.EventKey) *tcell.EventKey
	Help() string
}

func newText() *tview.TextView {
	return tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
}

func setText(tv *tview.TextView, text string) {
	if tv.GetText(false) != text {
		tv.SetText(text)
	}
}
