package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/tview"

	"rpi-dashboard/pkg/feedback"
	"rpi-dashboard/pkg/health"
	"rpi-dashboard/pkg/snapshot"
	"rpi-dashboard/pkg/utils"
)

const (
	LoadingLogs      = "Loading logs..."
	NoHealthLogs     = "No health logs found"
	NoHealthLogsHint = "Start the RPi health monitor script to collect data"
	LoadingFeedback  = "Loading feedback..."
	NoFeedback       = "No feedback received yet"
)

var RecentHeaders = []string{"Timestamp", "Temperature", "Frequency", "Fan", "Throttle", "Issues"}

var (
	colorOK      = tcell.ColorGreen
	colorWarn    = tcell.ColorOrange
	colorLow     = tcell.ColorGreen
	colorMedium  = tcell.ColorYellow
	colorHigh    = tcell.ColorRed
	colorMuted   = tcell.ColorGray
	colorDefault = tcell.ColorWhite
)

// TemperatureColor maps a severity band to a cell color.
func TemperatureColor(sev health.Severity) tcell.Color {
	switch sev {
	case health.SeverityHigh:
		return colorHigh
	case health.SeverityMedium:
		return colorMedium
	default:
		return colorLow
	}
}

// ThrottleColor is green for a clean status and orange otherwise.
func ThrottleColor(status string) tcell.Color {
	if health.ThrottleOK(status) {
		return colorOK
	}
	return colorWarn
}

// FlagColor colors one decoded throttle flag.
func FlagColor(flag string) tcell.Color {
	if flag == health.FlagNormal {
		return colorOK
	}
	return colorWarn
}

// HexColor converts a "#rrggbb" palette entry to a cell color. Unparseable
// input falls back to the default foreground.
func HexColor(hex string) tcell.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorDefault
	}
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// Cell is one rendered table cell.
type Cell struct {
	Text  string
	Color tcell.Color
}

// ReadingRow renders one recent reading in RecentHeaders order.
func ReadingRow(r health.Reading) []Cell {
	flags := health.DecodeThrottle(r.ThrottleStatus)
	issueColor := colorOK
	for _, f := range flags {
		if f != health.FlagNormal {
			issueColor = colorWarn
			break
		}
	}
	return []Cell{
		{health.FormatTimestamp(r.Timestamp), colorMuted},
		{health.FormatTemperature(r.Temperature), TemperatureColor(health.SeverityOf(r.Temperature))},
		{health.FormatFrequency(r.CPUFrequency), colorDefault},
		{string(r.FanState), colorDefault},
		{r.ThrottleStatus, colorMuted},
		{strings.Join(flags, ", "), issueColor},
	}
}

// Card is one of the latest-reading summary tiles.
type Card struct {
	Title string
	Value string
	Age   string
	Color tcell.Color
}

// LatestCards renders the four latest-reading tiles. The throttle tile shows
// only the first decoded flag.
func LatestCards(r *health.Reading, now time.Time) []Card {
	if r == nil {
		return nil
	}
	age := health.RelativeAge(r.Timestamp, now)
	return []Card{
		{"CPU Temperature", health.FormatTemperature(r.Temperature), age, TemperatureColor(health.SeverityOf(r.Temperature))},
		{"CPU Frequency", health.FormatFrequency(r.CPUFrequency), age, tcell.ColorBlue},
		{"Fan State", string(r.FanState), age, tcell.ColorPurple},
		{"Throttle Status", health.DecodeThrottle(r.ThrottleStatus)[0], age, ThrottleColor(r.ThrottleStatus)},
	}
}

// StatsLine renders the window statistics on one line, or "" when the stats
// have not loaded.
func StatsLine(s *health.Stats) string {
	if s == nil {
		return ""
	}
	count := "-"
	if s.Count != nil {
		count = utils.FormatNumber(*s.Count)
	}
	return fmt.Sprintf("Avg %s  Max %s  Min %s  Avg %s  Max %s  Readings %s",
		health.FormatOptional(s.AvgTemp, health.FormatTemperature),
		health.FormatOptional(s.MaxTemp, health.FormatTemperature),
		health.FormatOptional(s.MinTemp, health.FormatTemperature),
		health.FormatOptional(s.AvgFreq, health.FormatFrequency),
		health.FormatOptional(s.MaxFreq, health.FormatFrequency),
		count)
}

// Banner returns the error text to show above the data, or "". The banner
// stays up while a retry is in flight and clears only on success.
func Banner[T any](st snapshot.State[T]) string {
	if st.Err == nil {
		return ""
	}
	return st.Message
}

// RecentPlaceholder returns the text shown instead of the recent readings
// table, or "" when the table should be drawn.
func RecentPlaceholder(st snapshot.State[health.Snapshot]) string {
	if len(st.Data.Recent) > 0 {
		return ""
	}
	if st.Loading() {
		return LoadingLogs
	}
	return NoHealthLogs
}

// FeedbackPlaceholder returns the text shown instead of the feedback list,
// or "" when the list should be drawn.
func FeedbackPlaceholder(st snapshot.State[[]feedback.Item]) string {
	if st.Loading() && !st.HasData {
		return LoadingFeedback
	}
	if len(st.Data) == 0 {
		return NoFeedback
	}
	return ""
}

// FeedbackMain is the list entry's main line: avatar initial, title, stars
// and date. The title is cut to titleWidth cells when titleWidth > 0.
func FeedbackMain(v feedback.View, titleWidth int) string {
	title := v.Title
	if titleWidth > 0 {
		title = utils.Truncate(title, titleWidth, "…")
	}
	tail := v.Date
	if v.Stars != "" {
		tail = v.Stars + "  " + tail
	}
	return fmt.Sprintf("[%s::b]%s[-::-] %s  [gray]%s[-]", HexColor(v.Avatar).CSS(), tview.Escape(v.Initial), tview.Escape(title), tail)
}

// FeedbackSecondary is the list entry's second line: the truncated message.
func FeedbackSecondary(v feedback.View) string {
	return tview.Escape(v.Subtitle)
}

// FeedbackDetail renders the selected item in full.
func FeedbackDetail(v feedback.View) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[::b]%s[::-]\n", tview.Escape(v.Title))
	if v.Email != "" {
		fmt.Fprintf(&b, "[gray]%s[-]\n", tview.Escape(v.Email))
	}
	if v.Stars != "" {
		fmt.Fprintf(&b, "[yellow]%s[-]\n", v.Stars)
	}
	fmt.Fprintf(&b, "[gray]%s[-]\n\n", v.Date)
	b.WriteString(tview.Escape(v.FullMessage))
	return b.String()
}

// StatusLine summarizes refresh state for the footer.
func StatusLine[T any](st snapshot.State[T], auto bool, now time.Time) string {
	parts := []string{st.Status.String()}
	if !st.LoadedAt.IsZero() {
		parts = append(parts, "updated "+health.RelativeAge(st.LoadedAt, now))
	}
	if auto {
		parts = append(parts, "auto on")
	} else {
		parts = append(parts, "auto off")
	}
	return strings.Join(parts, " | ")
}
