// Package database provides database connection management for the metal risk
// feature store.
//
// This package includes:
//   - Database connection management using GORM and PostgreSQL
//   - Schema migration and idempotent seed data for the instrument registry
//   - Comprehensive error handling and validation
//
// Key Concepts:
//   - One row per (metal, date) across the price, feature, and risk stores,
//     enforced by composite unique indexes
//   - Check constraints mirror the write-time validation (positive prices,
//     bounded RSI, non-negative ranges)
//   - Cascade deletes from the metals registry to all dependent history
//
// Data Models:
//
//	All data models (Metal, PriceData, MacroData, etc.) are defined in the
//	models_pkg package to avoid circular import dependencies.
package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	models "metal-risk-engine/database/models_pkg"
)

// Database holds the GORM database connection and provides access to the
// underlying DB instance. It serves as the central connection point for all
// repository packages.
type Database struct {
	db *gorm.DB
}

// DB returns the underlying GORM database instance for direct access when needed.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Connect establishes the database connection using GORM.
// TranslateError is enabled so constraint violations surface as
// gorm.ErrDuplicatedKey / ErrForeignKeyViolated / ErrCheckConstraintViolated
// and can be mapped onto the ConstraintError taxonomy.
func Connect(host string, port int, dbname, user, password string) (*Database, error) {
	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable",
		host, port, dbname, user, password)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{db: db}, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ============================================================================
// Type Aliases
// ============================================================================

// Core data models - type aliases so callers can keep importing the database
// package directly.

type Metal = models.Metal
type PriceData = models.PriceData
type MacroData = models.MacroData
type TechnicalFeature = models.TechnicalFeature
type RiskEvent = models.RiskEvent
