// Package collector pulls daily OHLCV and macro series from Yahoo Finance
// and normalizes them into the shapes the store writers accept. It performs
// no retries of its own; scheduling and retry policy live with the caller.
package collector

import (
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
)

// DailyBar is one normalized daily observation from the price feed.
type DailyBar struct {
	Date     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose *float64
	Volume   *int64
}

// Client fetches market data from Yahoo Finance.
type Client struct{}

// New creates a new Yahoo Finance client
func New() *Client {
	return &Client{}
}

// FetchDailyBars downloads the daily bar series for one ticker over
// [start, end]. Bars with a non-positive close are dropped at the edge, the
// feed occasionally emits empty placeholder rows and the store rejects them
// anyway.
func (c *Client) FetchDailyBars(ticker string, start, end time.Time) ([]DailyBar, error) {
	params := &chart.Params{
		Symbol:   ticker,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)

	var bars []DailyBar
	for iter.Next() {
		b := iter.Bar()

		closePx := b.Close.InexactFloat64()
		openPx := b.Open.InexactFloat64()
		highPx := b.High.InexactFloat64()
		lowPx := b.Low.InexactFloat64()
		if closePx <= 0 || openPx <= 0 || highPx <= 0 || lowPx <= 0 {
			continue
		}

		bar := DailyBar{
			Date:  dateOf(time.Unix(int64(b.Timestamp), 0)),
			Open:  openPx,
			High:  highPx,
			Low:   lowPx,
			Close: closePx,
		}
		if adj := b.AdjClose.InexactFloat64(); adj > 0 {
			bar.AdjClose = &adj
		}
		if b.Volume >= 0 {
			vol := int64(b.Volume)
			bar.Volume = &vol
		}
		bars = append(bars, bar)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("fetch daily bars for %s: %w", ticker, err)
	}
	return bars, nil
}

// fetchCloses downloads just the close series for one ticker, keyed by
// calendar day. Used by the macro fetch.
func (c *Client) fetchCloses(ticker string, start, end time.Time) (map[string]float64, error) {
	params := &chart.Params{
		Symbol:   ticker,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)

	closes := make(map[string]float64)
	for iter.Next() {
		b := iter.Bar()
		px := b.Close.InexactFloat64()
		if px <= 0 {
			continue
		}
		day := dateOf(time.Unix(int64(b.Timestamp), 0))
		closes[day.Format(dayLayout)] = px
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("fetch closes for %s: %w", ticker, err)
	}
	return closes, nil
}

const dayLayout = "2006-01-02"

// dateOf truncates a feed timestamp to its UTC calendar day.
func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
