package collector

import (
	"fmt"
	"sort"
	"time"
)

// Macro source tickers: US dollar index, VIX, 10-year treasury yield, and
// the S&P 500 close.
const (
	tickerUSDIndex = "DX-Y.NYB"
	tickerVIX      = "^VIX"
	tickerTNX      = "^TNX"
	tickerSP500    = "^GSPC"
)

// MacroPoint is one merged calendar day of macro indicators. All series are
// forward-filled onto the union of trading days; SP500Return is the daily
// percent change of the filled S&P close.
type MacroPoint struct {
	Date             time.Time
	USDIndex         float64
	VIX              float64
	TreasuryYield10Y float64
	SP500Close       float64
	SP500Return      float64
}

// FetchMacro downloads the four macro series over [start, end] and merges
// them into one row per day. Days at the leading edge that still miss an
// indicator after forward-filling, or that have no prior S&P close for the
// return, are dropped.
func (c *Client) FetchMacro(start, end time.Time) ([]MacroPoint, error) {
	usd, err := c.fetchCloses(tickerUSDIndex, start, end)
	if err != nil {
		return nil, err
	}
	vix, err := c.fetchCloses(tickerVIX, start, end)
	if err != nil {
		return nil, err
	}
	tnx, err := c.fetchCloses(tickerTNX, start, end)
	if err != nil {
		return nil, err
	}
	spx, err := c.fetchCloses(tickerSP500, start, end)
	if err != nil {
		return nil, err
	}
	if len(spx) == 0 {
		return nil, fmt.Errorf("no macro data returned for %s", tickerSP500)
	}
	return mergeMacro(usd, vix, tnx, spx)
}

// mergeMacro outer-joins the four close series on their union of dates,
// forward-fills each one, and derives the S&P 500 daily return. Pure so the
// join semantics can be tested without the feed.
func mergeMacro(usd, vix, tnx, spx map[string]float64) ([]MacroPoint, error) {
	daySet := make(map[string]struct{})
	for _, m := range []map[string]float64{usd, vix, tnx, spx} {
		for d := range m {
			daySet[d] = struct{}{}
		}
	}
	days := make([]string, 0, len(daySet))
	for d := range daySet {
		days = append(days, d)
	}
	sort.Strings(days)

	var lastUSD, lastVIX, lastTNX, lastSPX *float64
	var prevSPX *float64

	points := make([]MacroPoint, 0, len(days))
	for _, day := range days {
		if v, ok := usd[day]; ok {
			lastUSD = &v
		}
		if v, ok := vix[day]; ok {
			lastVIX = &v
		}
		if v, ok := tnx[day]; ok {
			lastTNX = &v
		}
		if v, ok := spx[day]; ok {
			lastSPX = &v
		}

		complete := lastUSD != nil && lastVIX != nil && lastTNX != nil && lastSPX != nil
		if complete && prevSPX != nil {
			date, err := time.Parse(dayLayout, day)
			if err != nil {
				return nil, fmt.Errorf("merge macro: bad day key %q: %w", day, err)
			}
			points = append(points, MacroPoint{
				Date:             date,
				USDIndex:         *lastUSD,
				VIX:              *lastVIX,
				TreasuryYield10Y: *lastTNX,
				SP500Close:       *lastSPX,
				SP500Return:      *lastSPX / *prevSPX - 1,
			})
		}
		if lastSPX != nil {
			v := *lastSPX
			prevSPX = &v
		}
	}
	return points, nil
}
