package utils

import (
	"strconv"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/tidwall/gjson"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatNumber formats a number with comma separators for readability
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// Truncate shortens s to at most width terminal cells, appending tail when
// something was cut. Wide runes count as two cells.
func Truncate(s string, width int, tail string) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, tail)
}

// PadRight fills s with spaces up to width terminal cells.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseTimestamp reads a JSON timestamp value: ISO-8601 strings (a missing
// zone means UTC) or Unix milliseconds, as a number or numeric string.
// ok is false for null, absent or unparseable values.
func ParseTimestamp(v gjson.Result) (t time.Time, ok bool) {
	switch v.Type {
	case gjson.String:
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, v.Str); err == nil {
				return ts, true
			}
		}
		if ms, err := strconv.ParseInt(v.Str, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC(), true
		}
	case gjson.Number:
		return time.UnixMilli(v.Int()).UTC(), true
	}
	return time.Time{}, false
}
