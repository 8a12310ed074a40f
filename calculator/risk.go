package calculator

import (
	"fmt"
	"math"
	"time"
)

// RiskLabel is the daily risk classification for one instrument: the percent
// move between consecutive closes and whether its magnitude crossed the
// configured threshold.
type RiskLabel struct {
	Date           time.Time
	PriceChangePct float64
	PreviousClose  float64
	CurrentClose   float64
	IsRiskEvent    bool
}

// LabelRiskEvents labels every bar after the first. The first date of a
// series has no previous close and is skipped entirely rather than written
// with a gap, previous_close is NOT NULL in the store.
//
// A day is a risk event when |price_change_pct| exceeds thresholdPct
// strictly: a move of exactly the threshold is not an event.
func LabelRiskEvents(bars []Bar, thresholdPct float64) ([]RiskLabel, error) {
	if thresholdPct <= 0 {
		return nil, fmt.Errorf("%w: risk threshold must be positive, got %.4f", ErrInvalidInput, thresholdPct)
	}
	if err := validateBars(bars); err != nil {
		return nil, err
	}
	if len(bars) < 2 {
		return nil, nil
	}

	labels := make([]RiskLabel, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		prev := bars[i-1].Close
		curr := bars[i].Close
		pct := (curr - prev) / prev * 100

		labels = append(labels, RiskLabel{
			Date:           bars[i].Date,
			PriceChangePct: pct,
			PreviousClose:  prev,
			CurrentClose:   curr,
			IsRiskEvent:    math.Abs(pct) > thresholdPct,
		})
	}
	return labels, nil
}
