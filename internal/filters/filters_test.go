package filters

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	if got := Clamp(150, 0, 100); got != 100 {
		t.Fatalf("expected 100, got %v", got)
	}
	if got := Clamp(-3, 0, 100); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
	if got := Clamp(42, 0, 100); got != 42 {
		t.Fatalf("expected passthrough, got %v", got)
	}
}

func TestEMAEmptyHistory(t *testing.T) {
	if got := EMA(37.5, 0.3, NewHistory(10)); got != 37.5 {
		t.Fatalf("expected value unchanged, got %v", got)
	}
}

func TestEMABlends(t *testing.T) {
	h := NewHistoryFrom(10, 50)
	got := EMA(100, 0.3, h)
	want := 0.3*100 + 0.7*50
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestZScoreShortHistory(t *testing.T) {
	if got := ZScore(99, NewHistory(10)); got != 0 {
		t.Fatalf("expected 0 for empty history, got %v", got)
	}
	if got := ZScore(99, NewHistoryFrom(10, 12)); got != 0 {
		t.Fatalf("expected 0 for single sample, got %v", got)
	}
}

func TestZScoreFlatSeries(t *testing.T) {
	h := NewHistoryFrom(10, 5, 5, 5, 5)
	if got := ZScore(7, h); got != 0 {
		t.Fatalf("expected 0 for zero stddev, got %v", got)
	}
}

func TestZScorePopulationVariance(t *testing.T) {
	h := NewHistoryFrom(10, 2, 4, 4, 4, 5, 5, 7, 9)
	// mean 5, population stddev 2
	got := ZScore(9, h)
	if math.Abs(got-2) > 1e-9 {
		t.Fatalf("expected z=2, got %v", got)
	}
}

func TestSmoothShortHistory(t *testing.T) {
	h := NewHistoryFrom(10, 1, 2)
	if got := Smooth(80, h); got != 80 {
		t.Fatalf("expected passthrough, got %v", got)
	}
}

func TestSmoothBlendsLastThree(t *testing.T) {
	h := NewHistoryFrom(10, 99, 10, 20, 30)
	got := Smooth(50, h)
	want := 0.6*50 + 0.4*20
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestTrendShortHistory(t *testing.T) {
	h := NewHistoryFrom(10, 1, 2, 3, 4)
	if got := Trend(h); got != 0 {
		t.Fatalf("expected 0 for fewer than 5 points, got %v", got)
	}
}

func TestTrendSteepSlope(t *testing.T) {
	h := NewHistoryFrom(10, 0, 10, 20, 30, 40)
	if got := Trend(h); got != 1 {
		t.Fatalf("expected clamp to 1, got %v", got)
	}
}

func TestTrendUsesMostRecentWindow(t *testing.T) {
	h := NewHistoryFrom(10, 100, 100, 10, 12, 14, 16, 18)
	got := Trend(h)
	want := (18.0 - 10.0) / 4 / 10
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestTrendNegative(t *testing.T) {
	h := NewHistoryFrom(10, 40, 30, 20, 10, 0)
	if got := Trend(h); got != -1 {
		t.Fatalf("expected clamp to -1, got %v", got)
	}
}
