package utils

import (
	"testing"
	"time"

	"github.com/tidwall/gjson"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0"},
		{123, "123"},
		{1234, "1,234"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}

	for _, test := range tests {
		result := FormatNumber(test.input)
		if result != test.expected {
			t.Errorf("FormatNumber(%d) = %s; expected %s", test.input, result, test.expected)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in       string
		width    int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is too long", 10, "this is..."},
		{"日本語テキスト", 7, "日本..."},
		{"anything", 0, ""},
	}

	for _, test := range tests {
		if got := Truncate(test.in, test.width, "..."); got != test.expected {
			t.Errorf("Truncate(%q, %d) = %q; expected %q", test.in, test.width, got, test.expected)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 5); got != "ab   " {
		t.Errorf("PadRight = %q", got)
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		raw string
		ok  bool
	}{
		{`"2025-01-01T12:00:00Z"`, true},
		{`"2025-01-01T12:00:00"`, true},
		{`1735732800000`, true},
		{`"1735732800000"`, true},
		{`null`, false},
		{`"not a date"`, false},
		{`true`, false},
	}

	for _, test := range tests {
		got, ok := ParseTimestamp(gjson.Parse(test.raw))
		if ok != test.ok {
			t.Errorf("ParseTimestamp(%s) ok = %v; expected %v", test.raw, ok, test.ok)
			continue
		}
		if ok && !got.Equal(want) {
			t.Errorf("ParseTimestamp(%s) = %v; expected %v", test.raw, got, want)
		}
	}
}
