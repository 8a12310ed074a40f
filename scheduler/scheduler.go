// Package scheduler drives the daily pipeline: ingest new price and macro
// rows, then recompute features and risk labels for whatever landed. The
// data layer never retries on its own; a failed day is picked up by the next
// scheduled run because every write path is idempotent by key.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"metal-risk-engine/app"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the cron tasks.
type Scheduler struct {
	Cron     *cron.Cron
	Ingest   *app.IngestRunner
	Pipeline *app.FeatureRunner
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, ingest *app.IngestRunner, pipeline *app.FeatureRunner) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Ingest:   ingest,
		Pipeline: pipeline,
		Ctx:      ctx,
	}
}

// RegisterAll registers the daily pipeline task.
func (s *Scheduler) RegisterAll(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunDailyNow executes the daily pipeline immediately (manual trigger /
// RUN_ON_START).
func (s *Scheduler) RunDailyNow() {
	s.dailyTask()
}

func (s *Scheduler) dailyTask() {
	log.Println("[INFO] running daily pipeline")

	// Rows committed before an ingest failure stay committed, so the
	// feature pass still runs over whatever is in the store.
	if err := s.Ingest.Run(s.Ctx); err != nil {
		log.Printf("[ERROR] daily ingest: %v", err)
	}

	summary, err := s.Pipeline.RunAll(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] daily feature pass: %v", err)
	}
	log.Printf("[INFO] daily pipeline done: %d metals, %d feature rows, %d risk labels",
		summary.MetalsProcessed, summary.FeatureRows, summary.RiskRows)
}
