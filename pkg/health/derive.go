package health

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	default:
		return "unknown"
	}
}

const (
	MediumTempC = 60.0
	HighTempC   = 75.0
)

// SeverityOf bands a CPU temperature: below 60 is low, below 75 medium,
// anything else high.
func SeverityOf(tempC float64) Severity {
	switch {
	case tempC < MediumTempC:
		return SeverityLow
	case tempC < HighTempC:
		return SeverityMedium
	default:
		return SeverityHigh
	}
}

const (
	FlagNormal  = "Normal"
	FlagUnknown = "Unknown"
)

type throttleBit struct {
	mask  uint64
	label string
}

// Bits 0-3 of vcgencmd get_throttled describe the current state.
var currentBits = []throttleBit{
	{0x1, "Under-voltage"},
	{0x2, "Frequency-Capped"},
	{0x4, "Throttled"},
	{0x8, "Soft-Temperature-Limit"},
}

// Bits 16-19 are sticky since boot.
var historyBits = []throttleBit{
	{0x10000, "Under-voltage occurred"},
	{0x20000, "Frequency capping occurred"},
	{0x40000, "Throttling occurred"},
	{0x80000, "Soft temperature limit occurred"},
}

func parseThrottle(hex string) (uint64, bool) {
	s := strings.TrimSpace(hex)
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
	}
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// DecodeThrottle lists the current throttle flags in a hex bitmask. The
// result is never empty: ["Normal"] when no flag is set, ["Unknown"] when
// the input is not hex.
func DecodeThrottle(hex string) []string {
	v, ok := parseThrottle(hex)
	if !ok {
		return []string{FlagUnknown}
	}
	flags := make([]string, 0, len(currentBits))
	for _, b := range currentBits {
		if v&b.mask != 0 {
			flags = append(flags, b.label)
		}
	}
	if len(flags) == 0 {
		return []string{FlagNormal}
	}
	return flags
}

// DecodeThrottleHistory lists the sticky flags. Empty when none are set or
// the input does not parse.
func DecodeThrottleHistory(hex string) []string {
	v, ok := parseThrottle(hex)
	if !ok {
		return nil
	}
	var flags []string
	for _, b := range historyBits {
		if v&b.mask != 0 {
			flags = append(flags, b.label)
		}
	}
	return flags
}

// ThrottleOK reports a fully clean status string.
func ThrottleOK(status string) bool {
	return status == "0x0"
}

// RelativeAge renders the time since ts in the coarsest whole unit that
// fits: seconds under a minute, minutes under an hour, hours under a day,
// otherwise days. Timestamps in the future count as 0s.
func RelativeAge(ts, now time.Time) string {
	seconds := int64(now.Sub(ts) / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds ago", seconds)
	}
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm ago", minutes)
	}
	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}
	return fmt.Sprintf("%dd ago", hours/24)
}

func FormatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04:05")
}

func FormatTemperature(c float64) string { return fmt.Sprintf("%.1f°C", c) }
func FormatFrequency(ghz float64) string { return fmt.Sprintf("%.2f GHz", ghz) }

// FormatOptional renders a stats field, or "-" when absent.
func FormatOptional(v *float64, format func(float64) string) string {
	if v == nil {
		return "-"
	}
	return format(*v)
}
