package calculator

import (
	"errors"
	"math"
	"testing"
)

func TestLabelRiskEvents(t *testing.T) {
	// +3.00% exactly at a 3% threshold is NOT an event; the drop from 103 to
	// 98 is -4.85% and is.
	bars := makeBars([]float64{100, 103, 98})
	labels, err := LabelRiskEvents(bars, 3.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The first date has no previous close and gets no label at all.
	if len(labels) != 2 {
		t.Fatalf("expected 2 labels for 3 bars, got %d", len(labels))
	}

	first := labels[0]
	if !almostEqual(first.PriceChangePct, 3.0) {
		t.Errorf("price_change_pct = %v, want 3.0", first.PriceChangePct)
	}
	if first.IsRiskEvent {
		t.Error("a move of exactly the threshold must not be flagged")
	}
	if !almostEqual(first.PreviousClose, 100) || !almostEqual(first.CurrentClose, 103) {
		t.Errorf("closes = %v/%v, want 100/103", first.PreviousClose, first.CurrentClose)
	}

	second := labels[1]
	wantPct := (98.0 - 103.0) / 103.0 * 100
	if !almostEqual(second.PriceChangePct, wantPct) {
		t.Errorf("price_change_pct = %v, want %v", second.PriceChangePct, wantPct)
	}
	if !second.IsRiskEvent {
		t.Errorf("|%.2f%%| exceeds the 3%% threshold and must be flagged", math.Abs(wantPct))
	}
}

func TestLabelRiskEventsShortSeries(t *testing.T) {
	for _, closes := range [][]float64{nil, {100}} {
		labels, err := LabelRiskEvents(makeBars(closes), 3.0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(labels) != 0 {
			t.Errorf("series of %d bars should yield no labels, got %d", len(closes), len(labels))
		}
	}
}

func TestLabelRiskEventsBadThreshold(t *testing.T) {
	bars := makeBars([]float64{100, 101})
	for _, threshold := range []float64{0, -1.5} {
		if _, err := LabelRiskEvents(bars, threshold); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("threshold %v: expected ErrInvalidInput, got %v", threshold, err)
		}
	}
}

func TestLabelRiskEventsBadBars(t *testing.T) {
	bars := []Bar{
		{Date: day(1), Open: 100, High: 101, Low: 99, Close: 100},
		{Date: day(2), Open: 100, High: 101, Low: 99, Close: -5},
	}
	if _, err := LabelRiskEvents(bars, 3.0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
