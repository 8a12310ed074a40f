package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"metal-risk-engine/calculator"
	"metal-risk-engine/database/features"
	"metal-risk-engine/database/metals"
	models "metal-risk-engine/database/models_pkg"
	"metal-risk-engine/database/prices"
	"metal-risk-engine/database/riskevents"
)

// FeatureRunner computes technical features and risk labels from each
// metal's stored price history and writes them idempotently.
//
// Each instrument's series is independent, so the runner fans out one worker
// per metal with no shared mutable state; within a metal the series is
// processed by a single worker strictly ascending by date, which the window
// calculations require.
type FeatureRunner struct {
	metals       *metals.Repository
	prices       *prices.Repository
	features     *features.Repository
	riskEvents   *riskevents.Repository
	thresholdPct float64
}

// NewFeatureRunner creates a new feature/labeling runner
func NewFeatureRunner(m *metals.Repository, p *prices.Repository, f *features.Repository, re *riskevents.Repository, thresholdPct float64) *FeatureRunner {
	return &FeatureRunner{
		metals:       m,
		prices:       p,
		features:     f,
		riskEvents:   re,
		thresholdPct: thresholdPct,
	}
}

// RunSummary aggregates one full pipeline pass.
type RunSummary struct {
	MetalsProcessed int
	FeatureRows     int64
	RiskRows        int64
}

type metalResult struct {
	symbol   string
	featRows int64
	riskRows int64
	err      error
}

// RunAll processes every registered metal concurrently and aggregates the
// inserted row counts. Individual metal failures are collected and joined;
// the other metals still complete.
func (r *FeatureRunner) RunAll(ctx context.Context) (RunSummary, error) {
	all, err := r.metals.List()
	if err != nil {
		return RunSummary{}, err
	}

	results := make(chan metalResult, len(all))
	var wg sync.WaitGroup
	for _, metal := range all {
		wg.Add(1)
		go func(m models.Metal) {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				results <- metalResult{symbol: m.Symbol, err: err}
				return
			}
			featN, riskN, err := r.RunMetal(m)
			results <- metalResult{symbol: m.Symbol, featRows: featN, riskRows: riskN, err: err}
		}(metal)
	}
	wg.Wait()
	close(results)

	var summary RunSummary
	var errs []error
	for res := range results {
		if res.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.symbol, res.err))
			continue
		}
		summary.MetalsProcessed++
		summary.FeatureRows += res.featRows
		summary.RiskRows += res.riskRows
	}
	return summary, errors.Join(errs...)
}

// RunMetal computes and stores features and risk labels for one metal.
// Short history is not an error: rows are written with nil for the windows
// that have not filled. A metal with no price history is skipped.
func (r *FeatureRunner) RunMetal(metal models.Metal) (featRows, riskRows int64, err error) {
	history, err := r.prices.History(metal.MetalID)
	if err != nil {
		return 0, 0, err
	}
	if len(history) == 0 {
		log.Printf("⚠️  %s: no price history, skipping", metal.Symbol)
		return 0, 0, nil
	}

	bars := toBars(history)

	featureRows, err := calculator.BuildFeatures(bars)
	if err != nil {
		return 0, 0, err
	}
	labels, err := calculator.LabelRiskEvents(bars, r.thresholdPct)
	if err != nil {
		return 0, 0, err
	}

	featModels := make([]models.TechnicalFeature, len(featureRows))
	for i, row := range featureRows {
		featModels[i] = featureModel(metal.MetalID, row)
	}
	featRows, err = r.features.SaveBatch(featModels)
	if err != nil {
		return 0, 0, err
	}

	riskModels := make([]models.RiskEvent, len(labels))
	for i, l := range labels {
		pct := l.PriceChangePct
		riskModels[i] = models.RiskEvent{
			MetalID:        metal.MetalID,
			Date:           l.Date,
			IsRiskEvent:    l.IsRiskEvent,
			PriceChangePct: &pct,
			PreviousClose:  l.PreviousClose,
			CurrentClose:   l.CurrentClose,
		}
	}
	riskRows, err = r.riskEvents.SaveBatch(riskModels)
	if err != nil {
		return featRows, 0, err
	}

	log.Printf("✅ %s: %d feature rows, %d risk labels inserted", metal.Symbol, featRows, riskRows)
	return featRows, riskRows, nil
}

func toBars(history []models.PriceData) []calculator.Bar {
	bars := make([]calculator.Bar, len(history))
	for i, p := range history {
		bars[i] = calculator.Bar{
			Date:   p.Date,
			Open:   p.Open,
			High:   p.High,
			Low:    p.Low,
			Close:  p.Close,
			Volume: p.Volume,
		}
	}
	return bars
}

func featureModel(metalID uint, row calculator.FeatureRow) models.TechnicalFeature {
	return models.TechnicalFeature{
		MetalID:         metalID,
		Date:            row.Date,
		DailyReturn:     row.DailyReturn,
		LogReturn:       row.LogReturn,
		SMA5:            row.SMA5,
		SMA10:           row.SMA10,
		SMA20:           row.SMA20,
		SMA50:           row.SMA50,
		EMA12:           row.EMA12,
		EMA26:           row.EMA26,
		BollingerUpper:  row.BollingerUpper,
		BollingerMiddle: row.BollingerMiddle,
		BollingerLower:  row.BollingerLower,
		BollingerWidth:  row.BollingerWidth,
		RSI14:           row.RSI14,
		MACD:            row.MACD,
		MACDSignal:      row.MACDSignal,
		MACDHistogram:   row.MACDHistogram,
		HighLowRange:    row.HighLowRange,
		HighLowRatio:    row.HighLowRatio,
		VolumeChange:    row.VolumeChange,
		VolumeSMA20:     row.VolumeSMA20,
	}
}
