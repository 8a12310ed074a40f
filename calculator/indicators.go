// Package calculator computes technical indicator series from one
// instrument's daily price history. All functions are pure: they take the
// series ascending by date and return one value per input bar, with nil
// wherever the trailing window has not filled yet. Calendar gaps from
// non-trading days are expected and carry no special meaning; windows count
// observations, not days.
package calculator

import "math"

// SMASeries computes the simple moving average of values over a trailing
// window. Entries are nil until `window` observations exist.
func SMASeries(values []float64, window int) []*float64 {
	out := make([]*float64, len(values))
	if window <= 0 || len(values) < window {
		return out
	}
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			avg := sum / float64(window)
			out[i] = &avg
		}
	}
	return out
}

// EMASeries computes the exponential moving average with smoothing factor
// 2/(span+1). The series is seeded with the simple average of the first
// `span` values, so entries are nil until the seed window fills.
func EMASeries(values []float64, span int) []*float64 {
	out := make([]*float64, len(values))
	if span <= 0 || len(values) < span {
		return out
	}
	alpha := 2.0 / float64(span+1)

	seed := 0.0
	for i := 0; i < span; i++ {
		seed += values[i]
	}
	seed /= float64(span)
	ema := seed
	out[span-1] = ptr(ema)

	for i := span; i < len(values); i++ {
		ema = alpha*values[i] + (1-alpha)*ema
		out[i] = ptr(ema)
	}
	return out
}

// RSISeries computes the Wilder-smoothed Relative Strength Index over
// `period` deltas. Entries are nil until period+1 observations exist. The
// result is clamped to [0,100] and defined as 100 when the average loss is
// zero.
func RSISeries(closes []float64, period int) []*float64 {
	out := make([]*float64, len(closes))
	if period <= 0 || len(closes) < period+1 {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = ptr(rsiFrom(avgGain, avgLoss))

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = ptr(rsiFrom(avgGain, avgLoss))
	}
	return out
}

func rsiFrom(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	rsi := 100.0 - 100.0/(1.0+rs)
	if rsi < 0 {
		return 0
	}
	if rsi > 100 {
		return 100
	}
	return rsi
}

// BollingerSeries computes the volatility envelope: middle is the SMA of the
// window, upper/lower are middle ± k sample standard deviations, width is
// (upper-lower)/middle. All four are nil until the window fills.
func BollingerSeries(closes []float64, window int, k float64) (upper, middle, lower, width []*float64) {
	n := len(closes)
	upper = make([]*float64, n)
	middle = make([]*float64, n)
	lower = make([]*float64, n)
	width = make([]*float64, n)
	if window <= 1 || n < window {
		return upper, middle, lower, width
	}

	for i := window - 1; i < n; i++ {
		win := closes[i-window+1 : i+1]
		mid := mean(win)
		sd := sampleStdDev(win, mid)
		up := mid + k*sd
		lo := mid - k*sd

		middle[i] = ptr(mid)
		upper[i] = ptr(up)
		lower[i] = ptr(lo)
		if mid != 0 {
			width[i] = ptr((up - lo) / mid)
		}
	}
	return upper, middle, lower, width
}

// MACDSeries computes MACD (EMA-fast minus EMA-slow), its signal line
// (EMA of the MACD over `signal` periods, seeded the same SMA way), and the
// histogram (MACD minus signal).
func MACDSeries(closes []float64, fast, slow, signal int) (macd, signalLine, histogram []*float64) {
	n := len(closes)
	macd = make([]*float64, n)
	signalLine = make([]*float64, n)
	histogram = make([]*float64, n)

	emaFast := EMASeries(closes, fast)
	emaSlow := EMASeries(closes, slow)

	// MACD exists where both EMAs do; with fast < slow that is from index
	// slow-1 onward.
	var macdVals []float64
	firstIdx := -1
	for i := 0; i < n; i++ {
		if emaFast[i] == nil || emaSlow[i] == nil {
			continue
		}
		if firstIdx < 0 {
			firstIdx = i
		}
		m := *emaFast[i] - *emaSlow[i]
		macd[i] = ptr(m)
		macdVals = append(macdVals, m)
	}
	if firstIdx < 0 {
		return macd, signalLine, histogram
	}

	sig := EMASeries(macdVals, signal)
	for j, s := range sig {
		if s == nil {
			continue
		}
		i := firstIdx + j
		signalLine[i] = ptr(*s)
		histogram[i] = ptr(*macd[i] - *s)
	}
	return macd, signalLine, histogram
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev uses the n-1 denominator.
func sampleStdDev(values []float64, mu float64) float64 {
	if len(values) < 2 {
		return 0
	}
	ss := 0.0
	for _, v := range values {
		d := v - mu
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

func ptr(v float64) *float64 {
	return &v
}
