// Package analytics runs the read-only verification queries: table row
// counts, per-instrument coverage, risk-event tallies. These run over the
// raw database/sql connection rather than GORM.
package analytics

import (
	"database/sql"
	"fmt"
	"time"
)

// Repository handles the verification queries
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new analytics repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// TableCount holds the row count of one table
type TableCount struct {
	Table string
	Rows  int64
}

// MetalCoverage describes the date-range coverage of one instrument's price
// history.
type MetalCoverage struct {
	Name      string
	Rows      int64
	FirstDate *time.Time
	LastDate  *time.Time
}

// auditedTables is the fixed table set the verification pass counts.
var auditedTables = []string{
	"metals",
	"price_data",
	"macroeconomic_data",
	"technical_features",
	"risk_events",
}

// TableCounts returns the row count of every table in the schema.
func (r *Repository) TableCounts() ([]TableCount, error) {
	counts := make([]TableCount, 0, len(auditedTables))
	for _, table := range auditedTables {
		var n int64
		// Table names come from the fixed list above, never from input.
		q := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
		if err := r.db.QueryRow(q).Scan(&n); err != nil {
			return nil, fmt.Errorf("TableCounts(%s): %w", table, err)
		}
		counts = append(counts, TableCount{Table: table, Rows: n})
	}
	return counts, nil
}

// Coverage returns per-metal price coverage: row count plus first and last
// observation date. Metals without any price rows come back with zero rows
// and nil dates.
func (r *Repository) Coverage() ([]MetalCoverage, error) {
	rows, err := r.db.Query(`
		SELECT m.name, COUNT(p.price_id) AS rows, MIN(p.date), MAX(p.date)
		FROM metals m
		LEFT JOIN price_data p ON m.metal_id = p.metal_id
		GROUP BY m.name
		ORDER BY m.name
	`)
	if err != nil {
		return nil, fmt.Errorf("Coverage: %w", err)
	}
	defer rows.Close()

	var out []MetalCoverage
	for rows.Next() {
		var c MetalCoverage
		var first, last sql.NullTime
		if err := rows.Scan(&c.Name, &c.Rows, &first, &last); err != nil {
			return nil, fmt.Errorf("Coverage scan: %w", err)
		}
		if first.Valid {
			c.FirstDate = &first.Time
		}
		if last.Valid {
			c.LastDate = &last.Time
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// RiskEventCounts returns the total number of labeled days and how many of
// them are flagged as risk events.
func (r *Repository) RiskEventCounts() (total, flagged int64, err error) {
	err = r.db.QueryRow(`
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_risk_event)
		FROM risk_events
	`).Scan(&total, &flagged)
	if err != nil {
		return 0, 0, fmt.Errorf("RiskEventCounts: %w", err)
	}
	return total, flagged, nil
}

// FeatureCoverage returns per-metal feature-row counts, the same shape the
// price coverage query has.
func (r *Repository) FeatureCoverage() ([]MetalCoverage, error) {
	rows, err := r.db.Query(`
		SELECT m.name, COUNT(f.feature_id) AS rows, MIN(f.date), MAX(f.date)
		FROM metals m
		LEFT JOIN technical_features f ON m.metal_id = f.metal_id
		GROUP BY m.name
		ORDER BY m.name
	`)
	if err != nil {
		return nil, fmt.Errorf("FeatureCoverage: %w", err)
	}
	defer rows.Close()

	var out []MetalCoverage
	for rows.Next() {
		var c MetalCoverage
		var first, last sql.NullTime
		if err := rows.Scan(&c.Name, &c.Rows, &first, &last); err != nil {
			return nil, fmt.Errorf("FeatureCoverage scan: %w", err)
		}
		if first.Valid {
			c.FirstDate = &first.Time
		}
		if last.Valid {
			c.LastDate = &last.Time
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
