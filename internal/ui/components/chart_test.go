package components

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSparklineEmpty(t *testing.T) {
	if got := Sparkline(nil, 10); got != "" {
		t.Errorf("expected empty sparkline, got %q", got)
	}
	if got := Sparkline([]float64{1, 2}, 0); got != "" {
		t.Errorf("expected empty sparkline for zero width, got %q", got)
	}
}

func TestSparklineScale(t *testing.T) {
	got := Sparkline([]float64{0, 100}, 10)
	runes := []rune(got)
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d (%q)", len(runes), got)
	}
	if runes[0] != '▁' {
		t.Errorf("minimum should map to the lowest block, got %q", runes[0])
	}
	if runes[1] != '█' {
		t.Errorf("maximum should map to the highest block, got %q", runes[1])
	}
}

func TestSparklineFlatSeries(t *testing.T) {
	got := Sparkline([]float64{5, 5, 5}, 10)
	if utf8.RuneCountInString(got) != 3 {
		t.Fatalf("expected 3 runes, got %q", got)
	}
	for _, r := range got {
		if r != '▄' {
			t.Errorf("flat series should render mid-ramp, got %q", r)
		}
	}
}

func TestSparklineResamplesToWidth(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i)
	}
	got := Sparkline(values, 20)
	if n := utf8.RuneCountInString(got); n != 20 {
		t.Errorf("expected sparkline resampled to 20 runes, got %d", n)
	}
	// Monotonic input stays monotonic after bucket averaging
	runes := []rune(got)
	for i := 1; i < len(runes); i++ {
		if strings.IndexRune(string(sparkRunes), runes[i]) < strings.IndexRune(string(sparkRunes), runes[i-1]) {
			t.Errorf("resampled sparkline not monotonic at %d: %q", i, got)
		}
	}
}

func TestResampleAverages(t *testing.T) {
	got := resample([]float64{0, 10, 20, 30}, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(got))
	}
	if got[0] != 5 || got[1] != 25 {
		t.Errorf("expected bucket averages [5 25], got %v", got)
	}
}
