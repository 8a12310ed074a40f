// Package app wires the configuration, database, repositories, and the two
// batch runners (ingestion and feature/labeling) into one application
// container. The CLI commands build an App and drive it.
package app

import (
	"fmt"
	"strconv"

	"metal-risk-engine/collector"
	"metal-risk-engine/config"
	"metal-risk-engine/database"
	"metal-risk-engine/database/features"
	"metal-risk-engine/database/macro"
	"metal-risk-engine/database/metals"
	"metal-risk-engine/database/prices"
	"metal-risk-engine/database/riskevents"
)

// App represents the main application
type App struct {
	config *config.Config
	db     *database.Database

	metals     *metals.Repository
	prices     *prices.Repository
	macro      *macro.Repository
	features   *features.Repository
	riskEvents *riskevents.Repository

	ingest   *IngestRunner
	pipeline *FeatureRunner
}

// New connects to the database and builds the repository and runner graph.
func New(cfg *config.Config) (*App, error) {
	dbPort, err := strconv.Atoi(cfg.DatabasePort)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT %q: %w", cfg.DatabasePort, err)
	}

	db, err := database.Connect(cfg.DatabaseHost, dbPort, cfg.DatabaseName, cfg.DatabaseUser, cfg.DatabasePassword)
	if err != nil {
		return nil, err
	}

	a := &App{
		config:     cfg,
		db:         db,
		metals:     metals.NewRepository(db.DB()),
		prices:     prices.NewRepository(db.DB()),
		macro:      macro.NewRepository(db.DB()),
		features:   features.NewRepository(db.DB()),
		riskEvents: riskevents.NewRepository(db.DB()),
	}

	a.ingest = NewIngestRunner(cfg, collector.New(), a.metals, a.prices, a.macro)
	a.pipeline = NewFeatureRunner(a.metals, a.prices, a.features, a.riskEvents, cfg.Risk.ThresholdPct)

	return a, nil
}

// Close releases the database connection
func (a *App) Close() error {
	return a.db.Close()
}

// DB exposes the database handle for schema operations
func (a *App) DB() *database.Database {
	return a.db
}

// Metals exposes the instrument registry repository
func (a *App) Metals() *metals.Repository {
	return a.metals
}

// Ingest exposes the ingestion runner
func (a *App) Ingest() *IngestRunner {
	return a.ingest
}

// Pipeline exposes the feature/labeling runner
func (a *App) Pipeline() *FeatureRunner {
	return a.pipeline
}
