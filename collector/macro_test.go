package collector

import (
	"math"
	"testing"
	"time"
)

const eps = 1e-9

func TestMergeMacroForwardFill(t *testing.T) {
	usd := map[string]float64{"2024-01-02": 100, "2024-01-04": 101}
	vix := map[string]float64{"2024-01-02": 20, "2024-01-03": 21, "2024-01-04": 22}
	tnx := map[string]float64{"2024-01-02": 4.0, "2024-01-03": 4.1, "2024-01-04": 4.2}
	spx := map[string]float64{"2024-01-02": 5000, "2024-01-03": 5050, "2024-01-04": 5100}

	points, err := mergeMacro(usd, vix, tnx, spx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The first day has no prior S&P close for the return and is dropped.
	if len(points) != 2 {
		t.Fatalf("expected 2 merged rows, got %d", len(points))
	}

	p := points[0]
	if !p.Date.Equal(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("first row date = %v, want 2024-01-03", p.Date)
	}
	// USD had no 01-03 close; the 01-02 value carries forward.
	if p.USDIndex != 100 {
		t.Errorf("usd_index = %v, want forward-filled 100", p.USDIndex)
	}
	if p.VIX != 21 || p.TreasuryYield10Y != 4.1 || p.SP500Close != 5050 {
		t.Errorf("unexpected row values: %+v", p)
	}
	if math.Abs(p.SP500Return-0.01) > eps {
		t.Errorf("sp500_return = %v, want 0.01", p.SP500Return)
	}

	q := points[1]
	if q.USDIndex != 101 {
		t.Errorf("usd_index = %v, want 101", q.USDIndex)
	}
	wantRet := 5100.0/5050.0 - 1
	if math.Abs(q.SP500Return-wantRet) > eps {
		t.Errorf("sp500_return = %v, want %v", q.SP500Return, wantRet)
	}
}

func TestMergeMacroLeadingGap(t *testing.T) {
	// USD only starts on the second day: the first day can never complete and
	// is dropped, but it still seeds the S&P return.
	usd := map[string]float64{"2024-01-03": 100}
	vix := map[string]float64{"2024-01-02": 20, "2024-01-03": 20}
	tnx := map[string]float64{"2024-01-02": 4.0, "2024-01-03": 4.0}
	spx := map[string]float64{"2024-01-02": 5000, "2024-01-03": 5050}

	points, err := mergeMacro(usd, vix, tnx, spx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected 1 merged row, got %d", len(points))
	}
	if math.Abs(points[0].SP500Return-0.01) > eps {
		t.Errorf("sp500_return = %v, want 0.01", points[0].SP500Return)
	}
}

func TestMergeMacroUnionOfDays(t *testing.T) {
	// A day present in only one series still becomes a merged row once
	// everything else forward-fills.
	usd := map[string]float64{"2024-01-02": 100}
	vix := map[string]float64{"2024-01-02": 20}
	tnx := map[string]float64{"2024-01-02": 4.0}
	spx := map[string]float64{"2024-01-02": 5000, "2024-01-03": 5100}

	points, err := mergeMacro(usd, vix, tnx, spx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("expected 1 merged row, got %d", len(points))
	}
	p := points[0]
	if p.USDIndex != 100 || p.VIX != 20 || p.TreasuryYield10Y != 4.0 {
		t.Errorf("forward-fill failed: %+v", p)
	}
	if math.Abs(p.SP500Return-0.02) > eps {
		t.Errorf("sp500_return = %v, want 0.02", p.SP500Return)
	}
}

func TestMergeMacroEmpty(t *testing.T) {
	points, err := mergeMacro(nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("expected no rows, got %d", len(points))
	}
}
