package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func TestHumanizeDuration(t *testing.T) {
	cases := []struct {
		name string
		in   time.Duration
		want string
	}{
		{"negative", -5 * time.Second, "just now"},
		{"seconds", 12 * time.Second, "just now"},
		{"minutes", 61 * time.Second, "1m ago"},
		{"hours", 2*time.Hour + 10*time.Minute, "2h ago"},
		{"days", 49 * time.Hour, "2d ago"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := humanizeDuration(tc.in); got != tc.want {
				t.Fatalf("humanizeDuration(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("  Ann  ", 10); got != "Ann" {
		t.Fatalf("truncate trims: got %q", got)
	}
	if got := truncate("Bartholomew", 6); ansi.StringWidth(got) > 6 || !strings.HasSuffix(got, "…") {
		t.Fatalf("truncate(Bartholomew, 6) = %q", got)
	}
	wide := "山田太郎さん"
	if got := truncate(wide, 5); ansi.StringWidth(got) > 5 {
		t.Fatalf("truncate wide = %q (width %d), want <= 5", got, ansi.StringWidth(got))
	}
	if got := truncate("abc", 0); got != "abc" {
		t.Fatalf("truncate no limit = %q", got)
	}
}

func TestCellPadsToWidth(t *testing.T) {
	for _, in := range []string{"", "T001", "A very long customer name"} {
		if got := ansi.StringWidth(cell(in, 8)); got != 8 {
			t.Fatalf("cell(%q, 8) width = %d", in, got)
		}
	}
}

func TestClassifyConnectionError(t *testing.T) {
	cases := map[string]string{
		"dial tcp 127.0.0.1:5000: connect: connection refused": "OFFLINE",
		"dial tcp: lookup nowhere: no such host":               "HOST NOT FOUND",
		"context deadline exceeded":                            "TIMEOUT",
		"i/o timeout":                                          "TIMEOUT",
		"api list queue returned status 500":                   "ERROR",
	}
	for msg, want := range cases {
		if got := classifyConnectionError(errors.New(msg)); got != want {
			t.Fatalf("classifyConnectionError(%q) = %q, want %q", msg, got, want)
		}
	}
	if got := classifyConnectionError(nil); got != "" {
		t.Fatalf("nil error = %q", got)
	}
}

func TestQueueColumns(t *testing.T) {
	narrow := queueColumns(60)
	for _, c := range narrow {
		if c.title == "Phone" {
			t.Fatalf("phone column shown at width 60")
		}
	}
	wide := queueColumns(100)
	total := 0
	hasPhone := false
	for _, c := range wide {
		total += c.width + 1
		hasPhone = hasPhone || c.title == "Phone"
	}
	if !hasPhone {
		t.Fatalf("phone column missing at width 100")
	}
	if total > 100 {
		t.Fatalf("columns need %d cells, pane has 100", total)
	}
}

func TestBarChartScalesToPeak(t *testing.T) {
	plain := lipgloss.NewStyle()
	lines := barChart([]int{0, 5, 10}, 40, "", plain, plain)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "11:00") || !strings.HasPrefix(lines[2], "13:00") {
		t.Fatalf("hour labels wrong: %q / %q", lines[0], lines[2])
	}
	count := func(s string) int { return strings.Count(s, "█") }
	if count(lines[0]) != 0 {
		t.Fatalf("zero bucket drew a bar: %q", lines[0])
	}
	if count(lines[2]) != 2*count(lines[1]) {
		t.Fatalf("bars not proportional: %d vs %d", count(lines[1]), count(lines[2]))
	}
	if got := barChart(nil, 40, "", plain, plain); len(got) != 1 || !strings.Contains(got[0], "no data") {
		t.Fatalf("empty chart = %v", got)
	}
}

func TestDataURLKind(t *testing.T) {
	if got := dataURLKind("data:image/png;base64,iVBOR"); got != "image/png" {
		t.Fatalf("dataURLKind = %q", got)
	}
	if got := dataURLKind("https://example.com/qr.png"); got != "image" {
		t.Fatalf("dataURLKind non-data = %q", got)
	}
}

func TestNextLogLevel(t *testing.T) {
	if got := nextLogLevel("INFO"); got != "WARN" {
		t.Fatalf("nextLogLevel(INFO) = %q", got)
	}
	if got := nextLogLevel("ERROR"); got != "DEBUG" {
		t.Fatalf("nextLogLevel(ERROR) = %q", got)
	}
}

func TestFieldForValidation(t *testing.T) {
	cases := map[string]int{
		"name":       fieldName,
		"phone":      fieldPhone,
		"party size": fieldParty,
		"type":       fieldType,
	}
	for field, want := range cases {
		if got := fieldForValidation(field); got != want {
			t.Fatalf("fieldForValidation(%q) = %d, want %d", field, got, want)
		}
	}
}
