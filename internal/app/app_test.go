package app

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pgsentry/pgsentry/internal/models"
)

func barApp(width int) *App {
	return &App{state: models.AppState{Width: width}}
}

func TestFormatStatusBarPadsToWidth(t *testing.T) {
	a := barApp(24) // 20 usable after padding
	got := a.formatStatusBar("left", "right")
	if utf8.RuneCountInString(got) != 20 {
		t.Errorf("expected 20 runes, got %d (%q)", utf8.RuneCountInString(got), got)
	}
	if !strings.HasPrefix(got, "left") || !strings.HasSuffix(got, "right") {
		t.Errorf("expected left/right alignment, got %q", got)
	}
}

func TestFormatStatusBarTruncatesOnRuneBoundaries(t *testing.T) {
	// The cut lands inside the multi-byte ellipsis if slicing by bytes
	a := barApp(20)
	got := a.formatStatusBar("connecting… to db.internal", "12345")

	if !utf8.ValidString(got) {
		t.Fatalf("truncation produced invalid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 16 {
		t.Errorf("expected 16 runes, got %d (%q)", n, got)
	}
	if !strings.HasSuffix(got, "12345") {
		t.Errorf("expected the right side to survive, got %q", got)
	}
}

func TestFormatStatusBarVeryNarrow(t *testing.T) {
	a := barApp(9) // 5 usable
	got := a.formatStatusBar("connecting… somewhere", "window: 1h")
	if !utf8.ValidString(got) {
		t.Fatalf("truncation produced invalid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n > 5 {
		t.Errorf("expected at most 5 runes, got %d (%q)", n, got)
	}

	a = barApp(0)
	if got := a.formatStatusBar("left", "right"); got != "" {
		t.Errorf("expected empty bar at zero width, got %q", got)
	}
}
