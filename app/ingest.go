package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"metal-risk-engine/collector"
	"metal-risk-engine/config"
	"metal-risk-engine/database"
	"metal-risk-engine/database/macro"
	"metal-risk-engine/database/metals"
	models "metal-risk-engine/database/models_pkg"
	"metal-risk-engine/database/prices"
)

// IngestRunner pulls daily price bars for every registered metal plus the
// macro series, and appends them with first-write-wins semantics. One
// instrument failing does not stop the others; errors are collected and
// reported together.
type IngestRunner struct {
	cfg    *config.Config
	client *collector.Client
	metals *metals.Repository
	prices *prices.Repository
	macro  *macro.Repository
}

// NewIngestRunner creates a new ingestion runner
func NewIngestRunner(cfg *config.Config, client *collector.Client, m *metals.Repository, p *prices.Repository, mc *macro.Repository) *IngestRunner {
	return &IngestRunner{cfg: cfg, client: client, metals: m, prices: p, macro: mc}
}

// Run ingests prices for all metals, then the macro series.
func (r *IngestRunner) Run(ctx context.Context) error {
	var errs []error
	if err := r.RunPrices(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := r.RunMacro(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// RunPrices fetches and appends daily bars per registered metal. The fetch
// window starts the day after the metal's latest stored observation, so a
// daily run stays cheap; duplicates are skipped by the store either way.
func (r *IngestRunner) RunPrices(ctx context.Context) error {
	all, err := r.metals.List()
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return database.NewNotFoundError("metals registry (run migrate first)")
	}

	end := r.endDate()
	var errs []error
	for _, metal := range all {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		start := r.startDate(metal.MetalID)
		if start.After(end) {
			log.Printf("⏭️  %s up to date, nothing to fetch", metal.Symbol)
			continue
		}

		bars, err := r.client.FetchDailyBars(metal.YFinanceTicker, start, end)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", metal.Symbol, err))
			continue
		}

		rows := make([]models.PriceData, 0, len(bars))
		for _, b := range bars {
			rows = append(rows, models.PriceData{
				MetalID:       metal.MetalID,
				Date:          b.Date,
				Open:          b.Open,
				High:          b.High,
				Low:           b.Low,
				Close:         b.Close,
				Volume:        b.Volume,
				AdjustedClose: b.AdjClose,
				DataSource:    r.cfg.Ingest.DataSource,
			})
		}

		inserted, err := r.prices.AppendBatch(rows)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", metal.Symbol, err))
			continue
		}
		log.Printf("✅ %s (%s): %d bars fetched, %d inserted", metal.Symbol, metal.YFinanceTicker, len(bars), inserted)
	}
	return errors.Join(errs...)
}

// RunMacro fetches the merged macro series and appends it.
func (r *IngestRunner) RunMacro(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start, err := time.Parse("2006-01-02", r.cfg.Ingest.StartDate)
	if err != nil {
		return database.NewValidationErrorWithValue("INGEST_START_DATE", "must be YYYY-MM-DD", r.cfg.Ingest.StartDate)
	}

	points, err := r.client.FetchMacro(start, r.endDate())
	if err != nil {
		return err
	}

	rows := make([]models.MacroData, 0, len(points))
	for _, p := range points {
		p := p
		rows = append(rows, models.MacroData{
			Date:             p.Date,
			USDIndex:         &p.USDIndex,
			VIX:              &p.VIX,
			TreasuryYield10Y: &p.TreasuryYield10Y,
			SP500Close:       &p.SP500Close,
			SP500Return:      &p.SP500Return,
			DataSource:       r.cfg.Ingest.DataSource,
		})
	}

	inserted, err := r.macro.AppendBatch(rows)
	if err != nil {
		return fmt.Errorf("macro: %w", err)
	}
	log.Printf("✅ macro: %d days merged, %d inserted", len(points), inserted)
	return nil
}

func (r *IngestRunner) startDate(metalID uint) time.Time {
	if latest, err := r.prices.LatestDate(metalID); err == nil {
		return latest.AddDate(0, 0, 1)
	}
	start, err := time.Parse("2006-01-02", r.cfg.Ingest.StartDate)
	if err != nil {
		// LoadFromEnv default is well-formed; a bad override falls back to it.
		start, _ = time.Parse("2006-01-02", "2020-01-01")
	}
	return start
}

func (r *IngestRunner) endDate() time.Time {
	if r.cfg.Ingest.EndDate != "" {
		if end, err := time.Parse("2006-01-02", r.cfg.Ingest.EndDate); err == nil {
			return end
		}
	}
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
