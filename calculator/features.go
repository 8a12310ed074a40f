package calculator

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidInput marks a malformed computation input, such as a
// non-positive price inside a feature batch. The whole batch is rejected;
// insufficient history is never an error, it yields nil fields instead.
var ErrInvalidInput = errors.New("invalid input series")

// Window sizes. MaxLookback is the largest trailing window any feature
// needs; a series shorter than that still computes, the longer windows just
// stay nil.
const (
	SMAShort    = 5
	SMAMid      = 10
	SMALong     = 20
	SMAWide     = 50
	EMAFast     = 12
	EMASlow     = 26
	MACDSignal  = 9
	RSIPeriod   = 14
	BollWindow  = 20
	BollStdDevs = 2.0
	VolumeSMA   = 20

	MaxLookback = SMAWide
)

// Bar is one daily price observation, the calculator's only input type.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume *int64
}

// FeatureRow is one day of derived indicators. Nil means the underlying
// window had not filled by that date.
type FeatureRow struct {
	Date            time.Time
	DailyReturn     *float64
	LogReturn       *float64
	SMA5            *float64
	SMA10           *float64
	SMA20           *float64
	SMA50           *float64
	EMA12           *float64
	EMA26           *float64
	BollingerUpper  *float64
	BollingerMiddle *float64
	BollingerLower  *float64
	BollingerWidth  *float64
	RSI14           *float64
	MACD            *float64
	MACDSignal      *float64
	MACDHistogram   *float64
	HighLowRange    *float64
	HighLowRatio    *float64
	VolumeChange    *float64
	VolumeSMA20     *float64
}

// BuildFeatures computes one FeatureRow per input bar. Bars must be ordered
// ascending by date; calendar gaps are fine. Any non-positive price rejects
// the whole batch with ErrInvalidInput.
func BuildFeatures(bars []Bar) ([]FeatureRow, error) {
	if err := validateBars(bars); err != nil {
		return nil, err
	}
	n := len(bars)
	if n == 0 {
		return nil, nil
	}

	closes := make([]float64, n)
	for i, b := range bars {
		closes[i] = b.Close
	}

	sma5 := SMASeries(closes, SMAShort)
	sma10 := SMASeries(closes, SMAMid)
	sma20 := SMASeries(closes, SMALong)
	sma50 := SMASeries(closes, SMAWide)
	ema12 := EMASeries(closes, EMAFast)
	ema26 := EMASeries(closes, EMASlow)
	bollUp, bollMid, bollLow, bollWidth := BollingerSeries(closes, BollWindow, BollStdDevs)
	rsi := RSISeries(closes, RSIPeriod)
	macd, macdSig, macdHist := MACDSeries(closes, EMAFast, EMASlow, MACDSignal)

	rows := make([]FeatureRow, n)
	for i, b := range bars {
		row := FeatureRow{
			Date:            b.Date,
			SMA5:            sma5[i],
			SMA10:           sma10[i],
			SMA20:           sma20[i],
			SMA50:           sma50[i],
			EMA12:           ema12[i],
			EMA26:           ema26[i],
			BollingerUpper:  bollUp[i],
			BollingerMiddle: bollMid[i],
			BollingerLower:  bollLow[i],
			BollingerWidth:  bollWidth[i],
			RSI14:           rsi[i],
			MACD:            macd[i],
			MACDSignal:      macdSig[i],
			MACDHistogram:   macdHist[i],
		}

		if i > 0 {
			row.DailyReturn = ptr(b.Close/bars[i-1].Close - 1)
			row.LogReturn = ptr(math.Log(b.Close / bars[i-1].Close))
		}

		row.HighLowRange = ptr(b.High - b.Low)
		row.HighLowRatio = ptr((b.High - b.Low) / b.Close)

		if i > 0 && b.Volume != nil && bars[i-1].Volume != nil && *bars[i-1].Volume > 0 {
			row.VolumeChange = ptr(float64(*b.Volume)/float64(*bars[i-1].Volume) - 1)
		}
		row.VolumeSMA20 = volumeSMA(bars, i, VolumeSMA)

		rows[i] = row
	}
	return rows, nil
}

// volumeSMA averages the trailing `window` volumes ending at index i. Any
// missing volume inside the window makes the average undefined, matching a
// rolling mean over a series with gaps.
func volumeSMA(bars []Bar, i, window int) *float64 {
	if i < window-1 {
		return nil
	}
	sum := 0.0
	for j := i - window + 1; j <= i; j++ {
		if bars[j].Volume == nil {
			return nil
		}
		sum += float64(*bars[j].Volume)
	}
	return ptr(sum / float64(window))
}

func validateBars(bars []Bar) error {
	for i, b := range bars {
		if b.Close <= 0 {
			return fmt.Errorf("%w: non-positive close %.4f at index %d (%s)",
				ErrInvalidInput, b.Close, i, b.Date.Format("2006-01-02"))
		}
		if b.Open <= 0 || b.High <= 0 || b.Low <= 0 {
			return fmt.Errorf("%w: non-positive price at index %d (%s)",
				ErrInvalidInput, i, b.Date.Format("2006-01-02"))
		}
		if i > 0 && !bars[i].Date.After(bars[i-1].Date) {
			return fmt.Errorf("%w: bars not strictly ascending by date at index %d", ErrInvalidInput, i)
		}
	}
	return nil
}
