package calculator

import (
	"math"
	"testing"
)

const eps = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestSMASeries(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		window int
		want   []*float64
	}{
		{
			name:   "window fills at index window-1",
			values: []float64{1, 2, 3, 4, 5, 6},
			window: 3,
			want:   []*float64{nil, nil, ptr(2), ptr(3), ptr(4), ptr(5)},
		},
		{
			name:   "series shorter than window",
			values: []float64{1, 2},
			window: 3,
			want:   []*float64{nil, nil},
		},
		{
			name:   "window one is identity",
			values: []float64{7, 8, 9},
			window: 1,
			want:   []*float64{ptr(7), ptr(8), ptr(9)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SMASeries(tt.values, tt.window)
			assertSeries(t, got, tt.want)
		})
	}
}

func TestEMASeries(t *testing.T) {
	// span 3 -> alpha 0.5, seeded with mean(1,2,3)=2 at index 2,
	// then 0.5*4 + 0.5*2 = 3.
	got := EMASeries([]float64{1, 2, 3, 4}, 3)
	want := []*float64{nil, nil, ptr(2), ptr(3)}
	assertSeries(t, got, want)
}

func TestEMASeriesShortInput(t *testing.T) {
	got := EMASeries([]float64{1, 2}, 3)
	for i, v := range got {
		if v != nil {
			t.Errorf("index %d: expected nil, got %v", i, *v)
		}
	}
}

func TestRSISeriesNilUntilPeriodPlusOne(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	got := RSISeries(closes, 14)

	for i := 0; i < 14; i++ {
		if got[i] != nil {
			t.Errorf("index %d: expected nil before the window fills, got %v", i, *got[i])
		}
	}
	for i := 14; i < len(got); i++ {
		if got[i] == nil {
			t.Fatalf("index %d: expected a value", i)
		}
	}
}

func TestRSISeriesMonotonic(t *testing.T) {
	up := make([]float64, 20)
	down := make([]float64, 20)
	for i := range up {
		up[i] = 100 + float64(i)
		down[i] = 100 - float64(i)
	}

	// Strictly rising closes have zero average loss: RSI is 100 by
	// definition.
	for i, v := range RSISeries(up, 14) {
		if v != nil && !almostEqual(*v, 100) {
			t.Errorf("rising series index %d: expected 100, got %v", i, *v)
		}
	}
	// Strictly falling closes have zero average gain.
	for i, v := range RSISeries(down, 14) {
		if v != nil && !almostEqual(*v, 0) {
			t.Errorf("falling series index %d: expected 0, got %v", i, *v)
		}
	}
}

func TestRSISeriesBounds(t *testing.T) {
	closes := []float64{100, 103, 98, 105, 101, 99, 110, 108, 104, 107,
		103, 106, 109, 102, 100, 111, 95, 120, 97, 104}
	for i, v := range RSISeries(closes, 14) {
		if v == nil {
			continue
		}
		if *v < 0 || *v > 100 {
			t.Errorf("index %d: RSI %v out of [0,100]", i, *v)
		}
	}
}

func TestBollingerSeriesConstant(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 50
	}
	upper, middle, lower, width := BollingerSeries(closes, 20, 2)

	for i := 0; i < 19; i++ {
		if upper[i] != nil || middle[i] != nil || lower[i] != nil || width[i] != nil {
			t.Errorf("index %d: expected nil before the window fills", i)
		}
	}
	// Zero variance collapses the envelope onto the mean.
	for i := 19; i < 25; i++ {
		if middle[i] == nil || !almostEqual(*middle[i], 50) {
			t.Errorf("index %d: middle = %v, want 50", i, middle[i])
		}
		if !almostEqual(*upper[i], 50) || !almostEqual(*lower[i], 50) {
			t.Errorf("index %d: upper/lower did not collapse onto the mean", i)
		}
		if !almostEqual(*width[i], 0) {
			t.Errorf("index %d: width = %v, want 0", i, *width[i])
		}
	}
}

func TestBollingerSeriesEnvelope(t *testing.T) {
	closes := []float64{10, 12, 11, 13, 12, 14, 13, 15, 14, 16,
		15, 17, 16, 18, 17, 19, 18, 20, 19, 21, 20}
	upper, middle, lower, _ := BollingerSeries(closes, 20, 2)

	for i := 19; i < len(closes); i++ {
		if !(*lower[i] < *middle[i] && *middle[i] < *upper[i]) {
			t.Errorf("index %d: envelope not ordered: %v %v %v", i, *lower[i], *middle[i], *upper[i])
		}
	}
}

func TestMACDSeriesDefinedFrom(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + math.Sin(float64(i)/5)*10
	}
	macd, signal, hist := MACDSeries(closes, 12, 26, 9)

	// MACD needs the slow EMA: defined from index 25. The signal line is an
	// EMA over the MACD values, so it needs 9 of them: defined from index 33.
	for i := 0; i < 25; i++ {
		if macd[i] != nil {
			t.Errorf("index %d: macd should be nil", i)
		}
	}
	if macd[25] == nil {
		t.Error("index 25: macd should be defined")
	}
	for i := 0; i < 33; i++ {
		if signal[i] != nil {
			t.Errorf("index %d: signal should be nil", i)
		}
	}
	if signal[33] == nil {
		t.Fatal("index 33: signal should be defined")
	}
	for i := 33; i < len(closes); i++ {
		if hist[i] == nil {
			t.Fatalf("index %d: histogram should be defined", i)
		}
		if !almostEqual(*hist[i], *macd[i]-*signal[i]) {
			t.Errorf("index %d: histogram %v != macd-signal %v", i, *hist[i], *macd[i]-*signal[i])
		}
	}
}

func assertSeries(t *testing.T, got, want []*float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		switch {
		case want[i] == nil && got[i] != nil:
			t.Errorf("index %d: expected nil, got %v", i, *got[i])
		case want[i] != nil && got[i] == nil:
			t.Errorf("index %d: expected %v, got nil", i, *want[i])
		case want[i] != nil && !almostEqual(*got[i], *want[i]):
			t.Errorf("index %d: got %v, want %v", i, *got[i], *want[i])
		}
	}
}
